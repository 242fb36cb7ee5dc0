package tables

import "github.com/syssam/plandb/schema"

// WorldTimes table: time spent per game mode in a world during a session.
const (
	WorldTimes              = "plan_world_times"
	WorldTimesID            = "id"
	WorldTimesUserID        = "user_id"
	WorldTimesWorldID       = "world_id"
	WorldTimesSessionID     = "session_id"
	WorldTimesSurvivalTime  = "survival_time"
	WorldTimesCreativeTime  = "creative_time"
	WorldTimesAdventureTime = "adventure_time"
	WorldTimesSpectatorTime = "spectator_time"
	WorldTimesServerID      = "server_id"
)

// WorldTimesDefinition returns the definition of plan_world_times.
func WorldTimesDefinition() *schema.Table {
	return schema.NewTable(WorldTimes,
		schema.Col(WorldTimesID, schema.Int).PrimaryKey(),
		schema.Col(WorldTimesUserID, schema.Int).NotNull().References(Users, UsersID),
		schema.Col(WorldTimesWorldID, schema.Int).NotNull().References(Worlds, WorldsID),
		schema.Col(WorldTimesSessionID, schema.Int).NotNull().References(Sessions, SessionsID),
		schema.Col(WorldTimesSurvivalTime, schema.Long).NotNull().Default("0"),
		schema.Col(WorldTimesCreativeTime, schema.Long).NotNull().Default("0"),
		schema.Col(WorldTimesAdventureTime, schema.Long).NotNull().Default("0"),
		schema.Col(WorldTimesSpectatorTime, schema.Long).NotNull().Default("0"),
		// Added by the world_times_server_id patch, nullable so that the
		// column can be added to a populated table.
		schema.Col(WorldTimesServerID, schema.Int),
	)
}
