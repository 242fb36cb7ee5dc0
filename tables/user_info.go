package tables

import "github.com/syssam/plandb/schema"

// UserInfo table: per server registration of a player.
const (
	UserInfo            = "plan_user_info"
	UserInfoID          = "id"
	UserInfoUserID      = "user_id"
	UserInfoServerID    = "server_id"
	UserInfoRegistered  = "registered"
	UserInfoOpped       = "opped"
	UserInfoBanned      = "banned"
	UserInfoJoinAddress = "join_address"
)

// UserInfoDefinition returns the definition of plan_user_info.
func UserInfoDefinition() *schema.Table {
	return schema.NewTable(UserInfo,
		schema.Col(UserInfoID, schema.Int).PrimaryKey(),
		schema.Col(UserInfoUserID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(UserInfoServerID, schema.Int).NotNull().References(Servers, ServersID),
		schema.Col(UserInfoRegistered, schema.Long).NotNull(),
		schema.Col(UserInfoOpped, schema.Bool).NotNull().Default("0"),
		schema.Col(UserInfoBanned, schema.Bool).NotNull().Default("0"),
		// Added by the user_info_join_address patch.
		schema.Col(UserInfoJoinAddress, schema.Varchar(255)),
	)
}
