package tables

import "github.com/syssam/plandb/schema"

// Worlds table.
const (
	Worlds         = "plan_worlds"
	WorldsID       = "id"
	WorldsName     = "world_name"
	WorldsServerID = "server_id"
)

// WorldsDefinition returns the definition of plan_worlds.
func WorldsDefinition() *schema.Table {
	return schema.NewTable(Worlds,
		schema.Col(WorldsID, schema.Int).PrimaryKey(),
		schema.Col(WorldsName, schema.Varchar(100)).NotNull(),
		schema.Col(WorldsServerID, schema.Int).NotNull().References(Servers, ServersID),
	)
}
