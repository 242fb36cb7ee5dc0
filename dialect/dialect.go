package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/plandb/schema"
)

// Dialect names.
const (
	MySQLName  = "mysql"
	SQLiteName = "sqlite"
)

// Dialect is a SQL syntax variant.
type Dialect uint8

// Supported dialects.
const (
	MySQL Dialect = iota + 1
	SQLite
)

// funcs is the function table of a dialect.
type funcs struct {
	name   string
	driver string

	epochToDate  func(expr string) string
	dateToEpoch  func(expr string) string
	dayStamp     func(expr string) string
	hourStamp    func(expr string) string
	dayOfWeek    func(expr string) string
	hour         func(expr string) string
	insertIgnore string
	charset      string
	// primaryKey is appended to the primary key column definition.
	primaryKey string
	// pkConstraint reports whether a trailing PRIMARY KEY (col) clause is required.
	pkConstraint bool
}

var dialects = [...]funcs{
	MySQL: {
		name:   MySQLName,
		driver: "mysql",
		epochToDate: func(expr string) string {
			return "FROM_UNIXTIME(" + expr + ")"
		},
		dateToEpoch: func(expr string) string {
			return "UNIX_TIMESTAMP(" + expr + ")"
		},
		dayStamp: func(expr string) string {
			return "DATE_FORMAT(" + expr + ", '%Y-%m-%d')"
		},
		hourStamp: func(expr string) string {
			return "DATE_FORMAT(" + expr + ", '%Y-%m-%d %H:00:00')"
		},
		dayOfWeek: func(expr string) string {
			return "DAYOFWEEK(" + expr + ")"
		},
		hour: func(expr string) string {
			return "HOUR(" + expr + ")"
		},
		insertIgnore: "INSERT IGNORE INTO",
		charset:      " CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci",
		primaryKey:   "NOT NULL AUTO_INCREMENT",
		pkConstraint: true,
	},
	SQLite: {
		name:   SQLiteName,
		driver: "sqlite",
		epochToDate: func(expr string) string {
			return "datetime(" + expr + ", 'unixepoch')"
		},
		dateToEpoch: func(expr string) string {
			return "cast(strftime('%s', " + expr + ") as integer)"
		},
		dayStamp: func(expr string) string {
			return "strftime('%Y-%m-%d', " + expr + ")"
		},
		hourStamp: func(expr string) string {
			return "strftime('%Y-%m-%d %H:00:00', " + expr + ")"
		},
		dayOfWeek: func(expr string) string {
			return "(cast(strftime('%w', " + expr + ") as integer) + 1)"
		},
		hour: func(expr string) string {
			return "cast(strftime('%H', " + expr + ") as integer)"
		},
		insertIgnore: "INSERT OR IGNORE INTO",
		primaryKey:   "PRIMARY KEY",
	},
}

func (d Dialect) funcs() *funcs {
	if !d.Valid() {
		panic(fmt.Sprintf("dialect: unknown dialect %d", uint8(d)))
	}
	return &dialects[d]
}

// Parse returns the dialect with the given name. Matching is case-insensitive
// and accepts "sqlite3" as an alias of SQLite.
func Parse(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MySQLName, "mariadb":
		return MySQL, nil
	case SQLiteName, "sqlite3":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}

// Valid reports whether d is one of the supported dialects.
func (d Dialect) Valid() bool {
	return d == MySQL || d == SQLite
}

// String returns the dialect name.
func (d Dialect) String() string {
	if !d.Valid() {
		return "Dialect(" + strconv.Itoa(int(d)) + ")"
	}
	return dialects[d].name
}

// Name returns the dialect name.
func (d Dialect) Name() string { return d.funcs().name }

// DriverName returns the database/sql driver name registered for the dialect.
func (d Dialect) DriverName() string { return d.funcs().driver }

// EpochSecondsToDate converts an epoch seconds expression into a date value.
func (d Dialect) EpochSecondsToDate(expr string) string { return d.funcs().epochToDate(expr) }

// DateToEpochSeconds converts a date expression into epoch seconds.
func (d Dialect) DateToEpochSeconds(expr string) string { return d.funcs().dateToEpoch(expr) }

// DateToDayStamp truncates a date expression to YYYY-MM-DD.
func (d Dialect) DateToDayStamp(expr string) string { return d.funcs().dayStamp(expr) }

// DateToHourStamp truncates a date expression to YYYY-MM-DD HH:00:00.
func (d Dialect) DateToHourStamp(expr string) string { return d.funcs().hourStamp(expr) }

// DateToDayOfWeek extracts the day of week, 1 being Sunday and 7 Saturday.
func (d Dialect) DateToDayOfWeek(expr string) string { return d.funcs().dayOfWeek(expr) }

// DateToHour extracts the hour of day, 0 to 23.
func (d Dialect) DateToHour(expr string) string { return d.funcs().hour(expr) }

// InsertIgnore returns the prefix of an insert that skips duplicate keys.
func (d Dialect) InsertIgnore() string { return d.funcs().insertIgnore }

// VarcharCharset returns the character set suffix appended to VARCHAR columns.
func (d Dialect) VarcharCharset() string { return d.funcs().charset }

// PrimaryKeyInline returns the modifiers of an auto-incremented primary key column.
func (d Dialect) PrimaryKeyInline() string { return d.funcs().primaryKey }

// PrimaryKeyConstraint reports whether the primary key is declared by a
// trailing PRIMARY KEY (col) clause.
func (d Dialect) PrimaryKeyConstraint() bool { return d.funcs().pkConstraint }

// ColumnType returns the SQL type of a logical column type.
func (d Dialect) ColumnType(t schema.Type) string {
	f := d.funcs()
	switch t.Kind {
	case schema.KindInt:
		return "integer"
	case schema.KindLong:
		return "bigint"
	case schema.KindDouble:
		return "double"
	case schema.KindBool:
		return "boolean"
	case schema.KindVarchar:
		return "varchar(" + strconv.Itoa(t.Size) + ")" + f.charset
	case schema.KindText:
		return "text"
	default:
		panic(fmt.Sprintf("dialect: unknown column kind %s", t.Kind))
	}
}

// DayOfWeek returns the day of week of an epoch seconds value the same way
// DateToDayOfWeek does in SQL: 1 is Sunday, 7 is Saturday. Day 0 of the
// epoch, 1970-01-01, is a Thursday.
func DayOfWeek(epochSeconds int64) int {
	day := epochSeconds / 86400
	if epochSeconds%86400 < 0 {
		day--
	}
	dow := (day + 4) % 7
	if dow < 0 {
		dow += 7
	}
	return int(dow) + 1
}
