package tables

import "github.com/syssam/plandb/schema"

// IPs table. Addresses are stored anonymized, see the ip_anonymization patch.
const (
	IPs            = "plan_ips"
	IPsID          = "id"
	IPsUserID      = "user_id"
	IPsIP          = "ip"
	IPsGeolocation = "geolocation"
	IPsLastUsed    = "last_used"
)

// IPsDefinition returns the definition of plan_ips.
func IPsDefinition() *schema.Table {
	return schema.NewTable(IPs,
		schema.Col(IPsID, schema.Int).PrimaryKey(),
		schema.Col(IPsUserID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(IPsIP, schema.Varchar(39)).NotNull(),
		schema.Col(IPsGeolocation, schema.Varchar(50)).NotNull(),
		schema.Col(IPsLastUsed, schema.Long).NotNull().Default("0"),
	)
}
