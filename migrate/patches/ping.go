package patches

import (
	"context"
	"strings"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/tables"
)

// Columns of plan_ping before it referenced users and servers by id.
const (
	legacyPingUUID       = "uuid"
	legacyPingServerUUID = "server_uuid"
)

// pingOptimization rebuilds plan_ping so that rows reference users and
// servers by id instead of by uuid string: the legacy table is renamed, the
// new one created, rows copied over by joining on the uuids, and the legacy
// table dropped.
type pingOptimization struct{}

func (pingOptimization) Name() string { return "ping_optimization" }

// IsApplied holds once plan_ping has its id columns and no rebuild is in
// progress.
func (pingOptimization) IsApplied(ctx context.Context, env *migrate.Env) (bool, error) {
	rebuilt, err := env.HasColumn(ctx, tables.Ping, tables.PingUserID)
	if err != nil || !rebuilt {
		return false, err
	}
	pending, err := env.HasTable(ctx, env.TempTable(tables.Ping))
	return !pending, err
}

func (pingOptimization) Apply(ctx context.Context, env *migrate.Env) error {
	temp := env.TempTable(tables.Ping)
	pending, err := env.HasTable(ctx, temp)
	if err != nil {
		return err
	}
	// When the temporary table exists a previous run stopped after the
	// rename and the legacy rows are waiting there.
	if !pending {
		rebuilt, err := env.HasColumn(ctx, tables.Ping, tables.PingUserID)
		if err != nil || rebuilt {
			return err
		}
		legacy, err := env.HasTable(ctx, tables.Ping)
		if err != nil {
			return err
		}
		if !legacy {
			return env.CreateTable(ctx, tables.Ping)
		}
		if err := env.RenameTable(ctx, tables.Ping, temp); err != nil {
			return err
		}
	}
	if err := env.CreateTable(ctx, tables.Ping); err != nil {
		return err
	}
	if err := copyPing(ctx, env, temp); err != nil {
		return err
	}
	return env.DropTable(ctx, temp)
}

// copyPing replaces the content of plan_ping with the rows of temp whose
// user and server are known.
func copyPing(ctx context.Context, env *migrate.Env, temp string) error {
	from := temp + " p" +
		" INNER JOIN " + tables.Users + " u ON u." + tables.UsersUUID + "=p." + legacyPingUUID +
		" INNER JOIN " + tables.Servers + " s ON s." + tables.ServersUUID + "=p." + legacyPingServerUUID
	rows := sql.Select(from,
		"u."+tables.UsersID,
		"s."+tables.ServersID,
		"p."+tables.PingDate,
		"p."+tables.PingMax,
		"p."+tables.PingMin,
		"p."+tables.PingAvg,
	)
	columns := []string{tables.PingUserID, tables.PingServerID, tables.PingDate, tables.PingMax, tables.PingMin, tables.PingAvg}
	insert := "INSERT INTO " + tables.Ping + " (" + strings.Join(columns, ", ") + ") " + rows.String()
	return env.Driver.Transaction(ctx, func(tx *sql.Tx) error {
		if err := tx.Exec(ctx, sql.Delete(tables.Ping).String()); err != nil {
			return err
		}
		return tx.Exec(ctx, insert)
	})
}
