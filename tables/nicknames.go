package tables

import "github.com/syssam/plandb/schema"

// Nicknames table.
const (
	Nicknames         = "plan_nicknames"
	NicknamesID       = "id"
	NicknamesUserID   = "user_id"
	NicknamesServerID = "server_id"
	NicknamesNickname = "nickname"
	NicknamesLastUsed = "last_used"
)

// NicknamesDefinition returns the definition of plan_nicknames.
func NicknamesDefinition() *schema.Table {
	return schema.NewTable(Nicknames,
		schema.Col(NicknamesID, schema.Int).PrimaryKey(),
		schema.Col(NicknamesUserID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(NicknamesServerID, schema.Int).NotNull().References(Servers, ServersID),
		schema.Col(NicknamesNickname, schema.Varchar(75)).NotNull(),
		schema.Col(NicknamesLastUsed, schema.Long).NotNull(),
	)
}
