// Package sql provides statement builders and execution primitives over
// database/sql for the MySQL and SQLite dialects.
//
// # Builders
//
// CreateTable assembles CREATE TABLE IF NOT EXISTS statements with a
// pending-column fluent API. Misuse is recorded and reported by Build:
//
//	q, err := sql.CreateTable(dialect.MySQL, "plan_sessions").
//	    Column("id", schema.Int).PrimaryKey().
//	    Column("user_id", schema.Int).NotNull().
//	    ForeignKey("user_id", "plan_users", "id").
//	    Build()
//
// Select, Update and Delete return a WhereBuilder whose predicates are always
// parenthesized:
//
//	sql.Where("a=1").And("b=2").Or("c=3").String()
//	// WHERE (a=1) AND (b=2) OR (c=3)
//
// # Execution
//
// A Driver runs every operation on a handle acquired from the pool and
// releases it when the operation returns:
//
//	ok, err := drv.Execute(ctx, sql.Stmt("DELETE FROM plan_tps WHERE date < ?", cutoff))
//
//	b := sql.NewBatch(sql.Update("plan_kills", "server_id").Where("session_id=?").String())
//	for id, server := range sessions {
//	    b.Add(server, id)
//	}
//	err := drv.ExecuteBatch(ctx, b)
//
//	names, err := sql.QueryAll(ctx, drv, sql.Stmt("SELECT name FROM plan_users"), sql.ScanString)
//
// Transaction shares one handle between several statements:
//
//	err := drv.Transaction(ctx, func(tx *sql.Tx) error {
//	    if _, err := tx.Execute(ctx, sql.Stmt("DELETE FROM plan_version")); err != nil {
//	        return err
//	    }
//	    _, err := tx.Execute(ctx, sql.Stmt("INSERT INTO plan_version (version) VALUES (?)", 3))
//	    return err
//	})
//
// # Commit semantics
//
// Under SQLite the handle is a transaction: single statements, batches and
// transactions commit atomically. Under MySQL the handle is an autocommit
// connection and commit is a no-op, so a failing batch leaves earlier rows
// applied.
//
// # Errors
//
// Statement failures are returned as *StatementError carrying the SQL;
// connection failures as *ConnError. IsUniqueConstraintError and
// IsForeignKeyConstraintError classify driver errors of both dialects.
package sql
