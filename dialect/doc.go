// Package dialect encapsulates the SQL syntax differences between the two
// supported backends.
//
// # Supported Dialects
//
//   - MySQL: MySQL/MariaDB over TCP, connection pool, autocommit
//   - SQLite: a single local database file
//
// A Dialect is a closed enumeration. Each value owns a table of pure
// functions; nothing outside this package writes dialect specific SQL for
// dates, upserts, auto-increment or character sets.
//
// # Date Functions
//
// Date helpers take a SQL sub-expression and wrap it:
//
//	d := dialect.SQLite
//	d.EpochSecondsToDate("session_start / 1000")
//	// datetime(session_start / 1000, 'unixepoch')
//
//	dialect.MySQL.DateToDayOfWeek("FROM_UNIXTIME(date / 1000)")
//	// DAYOFWEEK(FROM_UNIXTIME(date / 1000))
//
// For every dialect, DateToEpochSeconds(EpochSecondsToDate(x)) yields x.
//
// # Parsing
//
//	d, err := dialect.Parse("mysql")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db, err := sql.Open(d.DriverName(), dsn)
//
// # Sub-packages
//
//   - dialect/sql: statement builders, driver and execution primitives
//   - dialect/sqlschema: table creation, removal and inspection
package dialect
