package tables

import "github.com/syssam/plandb/schema"

// Users table.
const (
	Users            = "plan_users"
	UsersID          = "id"
	UsersUUID        = "uuid"
	UsersRegistered  = "registered"
	UsersName        = "name"
	UsersTimesKicked = "times_kicked"
)

// UsersDefinition returns the definition of plan_users.
func UsersDefinition() *schema.Table {
	return schema.NewTable(Users,
		schema.Col(UsersID, schema.Int).PrimaryKey(),
		schema.Col(UsersUUID, schema.Varchar(36)).NotNull().Unique(),
		schema.Col(UsersRegistered, schema.Long).NotNull(),
		schema.Col(UsersName, schema.Varchar(36)).NotNull(),
		schema.Col(UsersTimesKicked, schema.Int).NotNull().Default("0"),
	)
}
