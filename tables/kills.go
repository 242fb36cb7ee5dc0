package tables

import "github.com/syssam/plandb/schema"

// Kills table: player versus player kills.
const (
	Kills          = "plan_kills"
	KillsID        = "id"
	KillsKillerID  = "killer_id"
	KillsVictimID  = "victim_id"
	KillsSessionID = "session_id"
	KillsWeapon    = "weapon"
	KillsDate      = "date"
	KillsServerID  = "server_id"
)

// KillsDefinition returns the definition of plan_kills.
func KillsDefinition() *schema.Table {
	return schema.NewTable(Kills,
		schema.Col(KillsID, schema.Int).PrimaryKey(),
		schema.Col(KillsKillerID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(KillsVictimID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(KillsSessionID, schema.Int).NotNull().References(Sessions, SessionsID),
		schema.Col(KillsWeapon, schema.Varchar(30)).NotNull(),
		schema.Col(KillsDate, schema.Long).NotNull(),
		// Added by the kills_server_id patch.
		schema.Col(KillsServerID, schema.Int),
	)
}
