package patches

import (
	"context"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/tables"
)

// Steps returns the patch sequence in application order.
func Steps() []migrate.Step {
	return []migrate.Step{
		{Version: 1, Patch: addColumn{name: "session_afk_time", table: tables.Sessions, column: tables.SessionsAFKTime}},
		{Version: 2, Patch: serverIDBackfill{name: "kills_server_id", table: tables.Kills, column: tables.KillsServerID, sessionColumn: tables.KillsSessionID}},
		{Version: 3, Patch: serverIDBackfill{name: "world_times_server_id", table: tables.WorldTimes, column: tables.WorldTimesServerID, sessionColumn: tables.WorldTimesSessionID}},
		{Version: 4, Patch: ipAnonymization{}},
		{Version: 5, Patch: pingOptimization{}},
		{Version: 6, Patch: dropTable{name: "transfer_table_removal", table: "plan_transfer"}},
		{Version: 7, Patch: badAFKThreshold{}},
		{Version: 8, Patch: addColumn{name: "user_info_join_address", table: tables.UserInfo, column: tables.UserInfoJoinAddress}},
	}
}

// addColumn adds a column declared in the registry.
type addColumn struct {
	name, table, column string
}

func (p addColumn) Name() string { return p.name }

func (p addColumn) IsApplied(ctx context.Context, env *migrate.Env) (bool, error) {
	return env.HasColumn(ctx, p.table, p.column)
}

func (p addColumn) Apply(ctx context.Context, env *migrate.Env) error {
	return env.AddColumn(ctx, p.table, p.column)
}

// dropTable removes an obsolete table.
type dropTable struct {
	name, table string
}

func (p dropTable) Name() string { return p.name }

func (p dropTable) IsApplied(ctx context.Context, env *migrate.Env) (bool, error) {
	exists, err := env.HasTable(ctx, p.table)
	return !exists, err
}

func (p dropTable) Apply(ctx context.Context, env *migrate.Env) error {
	return env.DropTable(ctx, p.table)
}

// count runs a COUNT query.
func count(ctx context.Context, env *migrate.Env, stmt sql.Statement) (int64, error) {
	return sql.QueryOne(ctx, env.Driver, stmt, sql.ScanInt64)
}
