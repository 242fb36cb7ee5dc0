// Package schema holds the data model of the persistence layer: column types,
// column specifications, table definitions and the ordered table registry.
//
// The package is pure. Rendering a definition into SQL for a given dialect is
// the job of dialect/sql, executing it the job of dialect/sqlschema.
//
// # Defining a table
//
//	users := schema.NewTable("plan_users",
//	    schema.Col("id", schema.Int).PrimaryKey(),
//	    schema.Col("uuid", schema.Varchar(36)).NotNull().Unique(),
//	    schema.Col("registered", schema.Long).NotNull(),
//	)
//
//	sessions := schema.NewTable("plan_sessions",
//	    schema.Col("id", schema.Int).PrimaryKey(),
//	    schema.Col("user_id", schema.Int).NotNull().References("plan_users", "id"),
//	)
//
// # Registry
//
// A Registry fixes the creation order of tables. Every foreign key target must
// be created before the table referencing it; NewRegistry rejects any list
// breaking that rule. Reverse yields the order for safe row deletion.
//
//	reg, err := schema.NewRegistry(users, sessions)
package schema
