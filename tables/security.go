package tables

import "github.com/syssam/plandb/schema"

// Security table: web users.
const (
	Security                = "plan_security"
	SecurityID              = "id"
	SecurityUsername        = "username"
	SecurityLinkedToUUID    = "linked_to_uuid"
	SecuritySaltedPassHash  = "salted_pass_hash"
	SecurityPermissionLevel = "permission_level"
)

// SecurityDefinition returns the definition of plan_security.
func SecurityDefinition() *schema.Table {
	return schema.NewTable(Security,
		schema.Col(SecurityID, schema.Int).PrimaryKey(),
		schema.Col(SecurityUsername, schema.Varchar(100)).NotNull().Unique(),
		schema.Col(SecurityLinkedToUUID, schema.Varchar(36)).Default("''"),
		schema.Col(SecuritySaltedPassHash, schema.Varchar(100)).NotNull().Unique(),
		schema.Col(SecurityPermissionLevel, schema.Int).NotNull(),
	)
}
