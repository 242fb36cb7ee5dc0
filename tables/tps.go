package tables

import "github.com/syssam/plandb/schema"

// TPS table: periodic server performance samples. It has no primary key.
const (
	TPS              = "plan_tps"
	TPSServerID      = "server_id"
	TPSDate          = "date"
	TPSTPS           = "tps"
	TPSPlayersOnline = "players_online"
	TPSCPUUsage      = "cpu_usage"
	TPSRAMUsage      = "ram_usage"
	TPSEntities      = "entities"
	TPSChunksLoaded  = "chunks_loaded"
	TPSFreeDiskSpace = "free_disk_space"
)

// TPSDefinition returns the definition of plan_tps.
func TPSDefinition() *schema.Table {
	return schema.NewTable(TPS,
		schema.Col(TPSServerID, schema.Int).NotNull().References(Servers, ServersID),
		schema.Col(TPSDate, schema.Long).NotNull(),
		schema.Col(TPSTPS, schema.Double).NotNull(),
		schema.Col(TPSPlayersOnline, schema.Int).NotNull(),
		schema.Col(TPSCPUUsage, schema.Double).NotNull(),
		schema.Col(TPSRAMUsage, schema.Long).NotNull(),
		schema.Col(TPSEntities, schema.Int).NotNull(),
		schema.Col(TPSChunksLoaded, schema.Int).NotNull(),
		schema.Col(TPSFreeDiskSpace, schema.Long).NotNull(),
	)
}
