package dialect_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/schema"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want dialect.Dialect
	}{
		{"mysql", dialect.MySQL},
		{"MySQL", dialect.MySQL},
		{"mariadb", dialect.MySQL},
		{"sqlite", dialect.SQLite},
		{" sqlite3 ", dialect.SQLite},
	}
	for _, tt := range tests {
		d, err := dialect.Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, d)
	}

	_, err := dialect.Parse("postgres")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dialect")
}

func TestDialectNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mysql", dialect.MySQL.String())
	assert.Equal(t, "sqlite", dialect.SQLite.Name())
	assert.Equal(t, "sqlite", dialect.SQLite.DriverName())
	assert.Equal(t, "Dialect(9)", dialect.Dialect(9).String())
	assert.False(t, dialect.Dialect(0).Valid())
	assert.Panics(t, func() { dialect.Dialect(0).InsertIgnore() })
}

func TestDateFunctions(t *testing.T) {
	t.Parallel()

	t.Run("MySQL", func(t *testing.T) {
		d := dialect.MySQL
		assert.Equal(t, "FROM_UNIXTIME(x)", d.EpochSecondsToDate("x"))
		assert.Equal(t, "UNIX_TIMESTAMP(x)", d.DateToEpochSeconds("x"))
		assert.Equal(t, "UNIX_TIMESTAMP(FROM_UNIXTIME(?))", d.DateToEpochSeconds(d.EpochSecondsToDate("?")))
		assert.Equal(t, "DATE_FORMAT(x, '%Y-%m-%d')", d.DateToDayStamp("x"))
		assert.Equal(t, "DATE_FORMAT(x, '%Y-%m-%d %H:00:00')", d.DateToHourStamp("x"))
		assert.Equal(t, "DAYOFWEEK(x)", d.DateToDayOfWeek("x"))
		assert.Equal(t, "HOUR(x)", d.DateToHour("x"))
		assert.Equal(t, "INSERT IGNORE INTO", d.InsertIgnore())
	})

	t.Run("SQLite", func(t *testing.T) {
		d := dialect.SQLite
		assert.Equal(t, "datetime(x, 'unixepoch')", d.EpochSecondsToDate("x"))
		assert.Equal(t, "cast(strftime('%s', x) as integer)", d.DateToEpochSeconds("x"))
		assert.Equal(t, "strftime('%Y-%m-%d', x)", d.DateToDayStamp("x"))
		assert.Equal(t, "strftime('%Y-%m-%d %H:00:00', x)", d.DateToHourStamp("x"))
		assert.Equal(t, "(cast(strftime('%w', x) as integer) + 1)", d.DateToDayOfWeek("x"))
		assert.Equal(t, "cast(strftime('%H', x) as integer)", d.DateToHour("x"))
		assert.Equal(t, "INSERT OR IGNORE INTO", d.InsertIgnore())
	})
}

func TestColumnType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "integer", dialect.SQLite.ColumnType(schema.Int))
	assert.Equal(t, "bigint", dialect.MySQL.ColumnType(schema.Long))
	assert.Equal(t, "double", dialect.SQLite.ColumnType(schema.Double))
	assert.Equal(t, "boolean", dialect.MySQL.ColumnType(schema.Bool))
	assert.Equal(t, "text", dialect.SQLite.ColumnType(schema.Text))
	assert.Equal(t, "varchar(36)", dialect.SQLite.ColumnType(schema.Varchar(36)))
	assert.Equal(t,
		"varchar(36) CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci",
		dialect.MySQL.ColumnType(schema.Varchar(36)),
	)
	assert.Panics(t, func() { dialect.MySQL.ColumnType(schema.Type{}) })
}

func TestPrimaryKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NOT NULL AUTO_INCREMENT", dialect.MySQL.PrimaryKeyInline())
	assert.True(t, dialect.MySQL.PrimaryKeyConstraint())
	assert.Equal(t, "PRIMARY KEY", dialect.SQLite.PrimaryKeyInline())
	assert.False(t, dialect.SQLite.PrimaryKeyConstraint())
}

func TestDayOfWeek(t *testing.T) {
	t.Parallel()

	const day = 86400
	assert.Equal(t, 5, dialect.DayOfWeek(0), "1970-01-01 is a Thursday")
	assert.Equal(t, 6, dialect.DayOfWeek(day))
	assert.Equal(t, 1, dialect.DayOfWeek(3*day), "1970-01-04 is a Sunday")
	assert.Equal(t, 7, dialect.DayOfWeek(2*day+day-1), "last second of Saturday")
	assert.Equal(t, 4, dialect.DayOfWeek(-1), "1969-12-31 is a Wednesday")
	assert.Equal(t, 2, dialect.DayOfWeek(1700438400), "2023-11-20 is a Monday")
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "dialect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	d := dialect.SQLite
	query := "SELECT " + d.DateToEpochSeconds(d.EpochSecondsToDate("?"))
	for _, x := range []int64{0, 1, 59, 86399, 86400, 951782400, 1700438400, 4102444799} {
		var got int64
		require.NoError(t, db.QueryRow(query, x).Scan(&got))
		assert.Equal(t, x, got, "round trip of %d", x)
	}
}

func TestSQLiteDateParts(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	d := dialect.SQLite
	date := d.EpochSecondsToDate("?")
	for _, x := range []int64{0, 3 * 86400, 1700438400 + 13*3600 + 125} {
		var dow int
		require.NoError(t, db.QueryRow("SELECT "+d.DateToDayOfWeek(date), x).Scan(&dow))
		assert.Equal(t, dialect.DayOfWeek(x), dow, "day of week of %d", x)
	}

	var (
		hour      int
		dayStamp  string
		hourStamp string
	)
	x := int64(1700438400 + 13*3600 + 125)
	require.NoError(t, db.QueryRow("SELECT "+d.DateToHour(date), x).Scan(&hour))
	require.NoError(t, db.QueryRow("SELECT "+d.DateToDayStamp(date), x).Scan(&dayStamp))
	require.NoError(t, db.QueryRow("SELECT "+d.DateToHourStamp(date), x).Scan(&hourStamp))
	assert.Equal(t, 13, hour)
	assert.Equal(t, "2023-11-20", dayStamp)
	assert.Equal(t, "2023-11-20 13:00:00", hourStamp)
}
