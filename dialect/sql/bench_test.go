package sql

import (
	"testing"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/schema"
)

var benchDialects = []dialect.Dialect{dialect.SQLite, dialect.MySQL}

func BenchmarkCreateTable_Small(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = CreateTable(d, "plan_users").
					Column("id", schema.Int).PrimaryKey().
					Column("uuid", schema.Varchar(36)).NotNull().Unique().
					Column("registered", schema.Long).NotNull().
					Column("name", schema.Varchar(36)).NotNull().
					Column("times_kicked", schema.Int).NotNull().Default("0").
					Build()
			}
		})
	}
}

func BenchmarkCreateTable_ForeignKeys(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = CreateTable(d, "plan_sessions").
					Column("id", schema.Int).PrimaryKey().
					Column("user_id", schema.Int).NotNull().
					Column("server_id", schema.Int).NotNull().
					Column("session_start", schema.Long).NotNull().
					Column("session_end", schema.Long).NotNull().
					ForeignKey("user_id", "plan_users", "id").
					ForeignKey("server_id", "plan_servers", "id").
					Build()
			}
		})
	}
}

func BenchmarkSelectBuilder_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Select("plan_users", "id", "uuid", "name").String()
	}
}

func BenchmarkSelectBuilder_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Select("plan_sessions s JOIN plan_users u ON u.id=s.user_id", "u.uuid", "COUNT(1) AS c").
			Where("s.session_start>?", "s.session_end<=?").
			Or("s.afk_time>?").
			GroupBy("u.uuid").
			Having("COUNT(1)>1").
			OrderBy("c").
			Limit(10).
			String()
	}
}

func BenchmarkUpdateBuilder_Multiple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Update("plan_user_info", "banned", "opped", "join_address").Where("user_id=?", "server_id=?").String()
	}
}

func BenchmarkDeleteBuilder_WithConditions(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Delete("plan_tps").Where("date<?").And("server_id=?").String()
	}
}

func BenchmarkInsertIgnore(b *testing.B) {
	for _, d := range benchDialects {
		b.Run(d.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = InsertIgnore(d, "plan_users", "uuid", "registered", "name", "times_kicked")
			}
		})
	}
}
