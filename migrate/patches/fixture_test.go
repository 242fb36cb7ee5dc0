package patches

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/dialect/sqlschema"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/schema"
	"github.com/syssam/plandb/tables"
)

func openSQLite(t *testing.T) *sql.Driver {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "plan.db") + "?_pragma=foreign_keys(1)"
	drv, err := sql.Open(dialect.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	return drv
}

func newEnv(drv *sql.Driver) *migrate.Env {
	return &migrate.Env{
		Driver:    drv,
		Registry:  tables.Registry(),
		Inspector: sqlschema.NewInspector(drv),
		Log:       slog.Default(),
	}
}

// legacyColumns are the columns added by patches, absent at version 0.
var legacyColumns = map[string]string{
	tables.Sessions:   tables.SessionsAFKTime,
	tables.Kills:      tables.KillsServerID,
	tables.WorldTimes: tables.WorldTimesServerID,
	tables.UserInfo:   tables.UserInfoJoinAddress,
}

// legacyDefinitions returns the tables as they were at schema version 0.
func legacyDefinitions() []*schema.Table {
	var defs []*schema.Table
	for _, t := range tables.Definitions() {
		switch t.Name {
		case tables.Version:
			// Version 0 databases predate the version table.
			continue
		case tables.Ping:
			defs = append(defs, schema.NewTable(tables.Ping,
				schema.Col(tables.PingID, schema.Int).PrimaryKey(),
				schema.Col(legacyPingUUID, schema.Varchar(36)).NotNull(),
				schema.Col(legacyPingServerUUID, schema.Varchar(36)).NotNull(),
				schema.Col(tables.PingDate, schema.Long).NotNull(),
				schema.Col(tables.PingMax, schema.Int).NotNull(),
				schema.Col(tables.PingMin, schema.Int).NotNull(),
				schema.Col(tables.PingAvg, schema.Double).NotNull(),
			))
			continue
		}
		legacy := &schema.Table{Name: t.Name}
		for _, c := range t.Columns {
			if legacyColumns[t.Name] != c.Name {
				legacy.Columns = append(legacy.Columns, c)
			}
		}
		defs = append(defs, legacy)
	}
	return append(defs, schema.NewTable("plan_transfer",
		schema.Col("sender_server_id", schema.Int).NotNull(),
		schema.Col("expiry_date", schema.Long).NotNull().Default("0"),
		schema.Col("type", schema.Varchar(100)).NotNull(),
		schema.Col("content_64", schema.Text),
	))
}

// openLegacy returns a database frozen at schema version 0 holding a small
// data set.
func openLegacy(t *testing.T) *sql.Driver {
	t.Helper()
	ctx := context.Background()
	drv := openSQLite(t)
	for _, def := range legacyDefinitions() {
		require.NoError(t, sqlschema.CreateTable(ctx, drv, dialect.SQLite, def))
	}
	seed := []sql.Statement{
		sql.Stmt("INSERT INTO plan_servers (id, uuid, name) VALUES (1, 's1', 'Lobby'), (2, 's2', 'Survival')"),
		sql.Stmt("INSERT INTO plan_users (id, uuid, registered, name) VALUES (1, 'u1', 1000, 'Alice'), (2, 'u2', 2000, 'Bob')"),
		sql.Stmt("INSERT INTO plan_user_info (user_id, server_id, registered) VALUES (1, 1, 1000), (2, 2, 2000)"),
		sql.Stmt("INSERT INTO plan_sessions (id, user_id, server_id, session_start, session_end, mob_kills, deaths) VALUES " +
			"(1, 1, 1, 1000, 5000, 0, 0), (2, 2, 2, 2000, 6000, 1, 2), (3, 1, 2, 7000, 9000, 3, 0)"),
		sql.Stmt("INSERT INTO plan_kills (killer_id, victim_id, session_id, weapon, date) VALUES " +
			"(1, 2, 1, 'Sword', 1500), (2, 1, 2, 'Bow', 2500), (1, 2, 3, 'Axe', 7500)"),
		sql.Stmt("INSERT INTO plan_worlds (id, world_name, server_id) VALUES (1, 'world', 1), (2, 'nether', 2)"),
		sql.Stmt("INSERT INTO plan_world_times (user_id, world_id, session_id, survival_time) VALUES (1, 1, 1, 4000), (2, 2, 2, 4000), (1, 2, 3, 2000)"),
		sql.Stmt("INSERT INTO plan_ips (user_id, ip, geolocation, last_used) VALUES " +
			"(1, '192.168.1.10', 'Finland', 1000), (1, '192.168.1.20', 'Finland', 7000), (2, '2001:db8:85a3::8a2e:370:7334', 'Sweden', 2000)"),
		sql.Stmt("INSERT INTO plan_ping (uuid, server_uuid, date, max_ping, min_ping, avg_ping) VALUES " +
			"('u1', 's1', 1000, 80, 20, 40.5), ('u2', 's2', 2000, 60, 10, 30.0), ('gone', 's1', 3000, 1, 1, 1.0)"),
		sql.Stmt("INSERT INTO plan_transfer (sender_server_id, type) VALUES (1, 'onlineStatus')"),
	}
	for _, stmt := range seed {
		_, err := drv.Execute(ctx, stmt)
		require.NoError(t, err, stmt.SQL)
	}
	return drv
}

// dump returns every row of every table, rendered as text.
func dump(t *testing.T, drv *sql.Driver) map[string][]string {
	t.Helper()
	ctx := context.Background()
	found, err := sqlschema.NewInspector(drv).Tables(ctx)
	require.NoError(t, err)
	out := make(map[string][]string, len(found))
	for _, tbl := range found {
		got, err := sql.Query(ctx, drv, sql.SelectAll(tbl.Name).Statement(), func(rows sql.ColumnScanner) ([]string, error) {
			cols, err := rows.Columns()
			if err != nil {
				return nil, err
			}
			var lines []string
			for rows.Next() {
				values := make([]any, len(cols))
				ptrs := make([]any, len(cols))
				for i := range values {
					ptrs[i] = &values[i]
				}
				if err := rows.Scan(ptrs...); err != nil {
					return nil, err
				}
				parts := make([]string, len(cols))
				for i, v := range values {
					parts[i] = fmt.Sprintf("%s=%v", cols[i], v)
				}
				lines = append(lines, strings.Join(parts, " "))
			}
			return lines, nil
		})
		require.NoError(t, err, tbl.Name)
		sort.Strings(got)
		out[tbl.Name] = got
	}
	return out
}

// shape returns the columns of every table found in the database.
func shape(t *testing.T, drv *sql.Driver) map[string][]sqlschema.ColumnInfo {
	t.Helper()
	ctx := context.Background()
	ins := sqlschema.NewInspector(drv)
	found, err := ins.Tables(ctx)
	require.NoError(t, err)
	out := make(map[string][]sqlschema.ColumnInfo, len(found))
	for _, tbl := range found {
		cols, err := ins.Columns(ctx, tbl.Name)
		require.NoError(t, err)
		out[tbl.Name] = cols
	}
	return out
}
