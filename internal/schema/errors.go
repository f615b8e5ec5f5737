package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports a structural problem in the table dependency graph,
// such as a circular foreign-key chain. It is fatal: generation cannot
// proceed with an unresolvable load order.
type SchemaError struct {
	Msg    string
	Tables []string
}

func (e *SchemaError) Error() string {
	if len(e.Tables) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.Tables, ", "))
}

// ConfigurationError reports an invalid schema configuration (duplicate
// names, dangling foreign-key references, bad constraint parameters).
// Raised before any value-level work begins.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}
