package tables

import "github.com/syssam/plandb/schema"

// Definitions returns every table definition in creation order.
func Definitions() []*schema.Table {
	return []*schema.Table{
		VersionDefinition(),
		ServersDefinition(),
		UsersDefinition(),
		UserInfoDefinition(),
		IPsDefinition(),
		NicknamesDefinition(),
		SessionsDefinition(),
		WorldsDefinition(),
		WorldTimesDefinition(),
		KillsDefinition(),
		TPSDefinition(),
		PingDefinition(),
		SecurityDefinition(),
		CookiesDefinition(),
	}
}

// Registry returns the validated registry of all tables.
func Registry() *schema.Registry {
	return schema.MustRegistry(Definitions()...)
}
