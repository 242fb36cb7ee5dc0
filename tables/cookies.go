package tables

import "github.com/syssam/plandb/schema"

// Cookies table: web login cookies. Expiry is in epoch milliseconds.
const (
	Cookies            = "plan_cookies"
	CookiesID          = "id"
	CookiesWebUsername = "web_username"
	CookiesCookie      = "cookie"
	CookiesExpires     = "expires"
)

// CookiesDefinition returns the definition of plan_cookies.
func CookiesDefinition() *schema.Table {
	return schema.NewTable(Cookies,
		schema.Col(CookiesID, schema.Int).PrimaryKey(),
		schema.Col(CookiesWebUsername, schema.Varchar(100)).NotNull().References(Security, SecurityUsername),
		schema.Col(CookiesCookie, schema.Varchar(64)).NotNull().Unique(),
		schema.Col(CookiesExpires, schema.Long).NotNull(),
	)
}
