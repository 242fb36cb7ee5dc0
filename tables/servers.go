package tables

import "github.com/syssam/plandb/schema"

// Servers table.
const (
	Servers           = "plan_servers"
	ServersID         = "id"
	ServersUUID       = "uuid"
	ServersName       = "name"
	ServersWebAddress = "web_address"
	ServersInstalled  = "is_installed"
	ServersMaxPlayers = "max_players"
)

// ServersDefinition returns the definition of plan_servers.
func ServersDefinition() *schema.Table {
	return schema.NewTable(Servers,
		schema.Col(ServersID, schema.Int).PrimaryKey(),
		schema.Col(ServersUUID, schema.Varchar(36)).NotNull().Unique(),
		schema.Col(ServersName, schema.Varchar(100)),
		schema.Col(ServersWebAddress, schema.Varchar(100)),
		schema.Col(ServersInstalled, schema.Bool).NotNull().Default("1"),
		schema.Col(ServersMaxPlayers, schema.Int).NotNull().Default("-1"),
	)
}
