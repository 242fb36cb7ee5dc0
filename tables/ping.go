package tables

import "github.com/syssam/plandb/schema"

// Ping table.
const (
	Ping         = "plan_ping"
	PingID       = "id"
	PingUserID   = "user_id"
	PingServerID = "server_id"
	PingDate     = "date"
	PingMax      = "max_ping"
	PingMin      = "min_ping"
	PingAvg      = "avg_ping"
)

// PingDefinition returns the definition of plan_ping.
func PingDefinition() *schema.Table {
	return schema.NewTable(Ping,
		schema.Col(PingID, schema.Int).PrimaryKey(),
		schema.Col(PingUserID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(PingServerID, schema.Int).NotNull().References(Servers, ServersID),
		schema.Col(PingDate, schema.Long).NotNull(),
		schema.Col(PingMax, schema.Int).NotNull(),
		schema.Col(PingMin, schema.Int).NotNull(),
		schema.Col(PingAvg, schema.Double).NotNull(),
	)
}
