package dialect

// Dialect abstracts the database-specific introspection and sampling
// queries used when profiling a live schema. All access is read-only.
type Dialect interface {
	// Metadata Queries (Schema Introspection)
	TablesQuery(schema string) string
	ColumnsQuery(schema string) string
	ForeignKeysQuery(schema string) string

	// SampleQuery returns a bounded non-null value sample for one column.
	SampleQuery(table, column string, limit int) string

	// Helpers
	NormalizeType(sqlType string) string
	SchemaName(input string) string
}
