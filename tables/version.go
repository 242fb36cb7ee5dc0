package tables

import "github.com/syssam/plandb/schema"

// Version table. It holds a single row with the schema version.
const (
	Version        = "plan_version"
	VersionVersion = "version"
)

// VersionDefinition returns the definition of plan_version.
func VersionDefinition() *schema.Table {
	return schema.NewTable(Version,
		schema.Col(VersionVersion, schema.Int).NotNull(),
	)
}
