package dialect

import "strings"

// DefaultNormalizeType is the default type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// DefaultSchemaName is the identity schema-name resolution.
func DefaultSchemaName(input string) string {
	return input
}
