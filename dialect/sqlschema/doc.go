// Package sqlschema creates, drops and inspects the tables of a
// schema.Registry.
//
// CreateAll issues CREATE TABLE IF NOT EXISTS for every table in registry
// order and is safe to run on every start:
//
//	if err := sqlschema.CreateAll(ctx, drv, reg); err != nil {
//	    return err
//	}
//
// Inspector reads table metadata through ariga.io/atlas:
//
//	ins := sqlschema.NewInspector(drv)
//	ok, err := ins.HasColumn(ctx, "plan_kills", "server_id")
//
// Inspection acquires its own handle from the driver. Under SQLite the pool
// holds a single connection, so an Inspector must not be used from inside
// a sql.Driver Transaction callback.
package sqlschema
