// Package plandb is the persistence layer of a game server analytics
// plugin. It stores players, sessions, kills, performance samples and web
// users in MySQL or SQLite behind one API.
//
// A DB goes through three states. Open connects and leaves the database
// Closed for business. Setup creates missing tables, applies outstanding
// schema patches while Patching, checks the result against the declared
// tables and loads the cookie cache before switching to Open. Only then do
// retention runs and the caches serve callers.
//
//	cfg, err := config.Load("plan.yml")
//	if err != nil {
//	    return err
//	}
//	db, err := plandb.Open(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Setup(ctx); err != nil {
//	    return err
//	}
//	res, err := db.Clean(ctx)
package plandb
