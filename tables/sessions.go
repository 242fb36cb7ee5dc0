package tables

import "github.com/syssam/plandb/schema"

// Sessions table. Times are epoch milliseconds.
const (
	Sessions             = "plan_sessions"
	SessionsID           = "id"
	SessionsUserID       = "user_id"
	SessionsServerID     = "server_id"
	SessionsSessionStart = "session_start"
	SessionsSessionEnd   = "session_end"
	SessionsMobKills     = "mob_kills"
	SessionsDeaths       = "deaths"
	SessionsAFKTime      = "afk_time"
)

// SessionsDefinition returns the definition of plan_sessions.
func SessionsDefinition() *schema.Table {
	return schema.NewTable(Sessions,
		schema.Col(SessionsID, schema.Int).PrimaryKey(),
		schema.Col(SessionsUserID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(SessionsServerID, schema.Int).NotNull().References(Servers, ServersID),
		schema.Col(SessionsSessionStart, schema.Long).NotNull(),
		schema.Col(SessionsSessionEnd, schema.Long).NotNull(),
		schema.Col(SessionsMobKills, schema.Int).NotNull(),
		schema.Col(SessionsDeaths, schema.Int).NotNull(),
		// Added by the session_afk_time patch.
		schema.Col(SessionsAFKTime, schema.Long).NotNull().Default("0"),
	)
}
