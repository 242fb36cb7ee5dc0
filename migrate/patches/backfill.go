package patches

import (
	"context"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/migrate"
	"github.com/syssam/plandb/tables"
)

// serverIDBackfill adds a server_id column to a table whose rows reference
// a session, and fills it with the server of that session.
type serverIDBackfill struct {
	name          string
	table         string
	column        string
	sessionColumn string
}

func (p serverIDBackfill) Name() string { return p.name }

// IsApplied holds once the column exists and no row referencing an existing
// session is left without a server.
func (p serverIDBackfill) IsApplied(ctx context.Context, env *migrate.Env) (bool, error) {
	exists, err := env.HasColumn(ctx, p.table, p.column)
	if err != nil || !exists {
		return false, err
	}
	n, err := count(ctx, env, p.missing("COUNT(1)").Statement())
	return n == 0, err
}

func (p serverIDBackfill) Apply(ctx context.Context, env *migrate.Env) error {
	if err := env.AddColumn(ctx, p.table, p.column); err != nil {
		return err
	}
	servers, err := sql.QueryMap(ctx, env.Driver,
		sql.Select(tables.Sessions, tables.SessionsID, tables.SessionsServerID).Statement(),
		func(s sql.Scanner) (id, server int64, err error) {
			err = s.Scan(&id, &server)
			return id, server, err
		},
	)
	if err != nil {
		return err
	}
	sessions, err := sql.QueryAll(ctx, env.Driver, p.missing("DISTINCT "+p.sessionColumn).Statement(), sql.ScanInt64)
	if err != nil {
		return err
	}
	b := sql.NewBatch(sql.Update(p.table, p.column).Where(p.sessionColumn + "=?").String())
	for _, session := range sessions {
		if server, ok := servers[session]; ok {
			b.Add(server, session)
		}
	}
	env.Log.InfoContext(ctx, "backfilling server ids", "table", p.table, "sessions", b.Len())
	return env.Driver.ExecuteBatch(ctx, b)
}

// missing selects from the rows that reference a session but have no server.
func (p serverIDBackfill) missing(columns ...string) *sql.WhereBuilder {
	return sql.Select(p.table, columns...).
		Where(p.column+" IS NULL").
		And(p.sessionColumn + " IN (SELECT " + tables.SessionsID + " FROM " + tables.Sessions + ")")
}
