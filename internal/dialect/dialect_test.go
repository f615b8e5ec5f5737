package dialect_test

import (
	"fmt"
	"strings"
	"testing"

	"synthcheck/internal/dialect"
)

func TestGetMapsDriverNames(t *testing.T) {
	tests := []struct {
		driver string
		want   dialect.Dialect
	}{
		{"mysql", &dialect.MysqlDialect{}},
		{"postgres", &dialect.PostgresDialect{}},
		{"sqlserver", &dialect.MSSQLDialect{}},
		{"mssql", &dialect.MSSQLDialect{}},
		{"oracle", &dialect.OracleDialect{}},
		{"something-else", &dialect.MysqlDialect{}},
	}
	for _, tt := range tests {
		got := dialect.Get(tt.driver)
		if fmt.Sprintf("%T", got) != fmt.Sprintf("%T", tt.want) {
			t.Errorf("Get(%q) = %T, want %T", tt.driver, got, tt.want)
		}
	}
}

func TestSampleQueryShapes(t *testing.T) {
	tests := []struct {
		name string
		d    dialect.Dialect
		want string
	}{
		{"mysql", &dialect.MysqlDialect{}, "SELECT email FROM users WHERE email IS NOT NULL LIMIT 50"},
		{"postgres", &dialect.PostgresDialect{}, "SELECT email FROM users WHERE email IS NOT NULL LIMIT 50"},
		{"mssql", &dialect.MSSQLDialect{}, "SELECT TOP 50 email FROM users WHERE email IS NOT NULL"},
		{"oracle", &dialect.OracleDialect{}, "SELECT email FROM users WHERE email IS NOT NULL FETCH FIRST 50 ROWS ONLY"},
	}
	for _, tt := range tests {
		if got := tt.d.SampleQuery("users", "email", 50); got != tt.want {
			t.Errorf("%s SampleQuery = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		d       dialect.Dialect
		sqlType string
		want    string
	}{
		{&dialect.MysqlDialect{}, "VARCHAR", "varchar"},
		{&dialect.PostgresDialect{}, "int4", "int"},
		{&dialect.PostgresDialect{}, "character varying", "varchar"},
		{&dialect.MSSQLDialect{}, "NVARCHAR", "varchar"},
		{&dialect.MSSQLDialect{}, "bit", "bool"},
		{&dialect.OracleDialect{}, "VARCHAR2", "varchar"},
		{&dialect.OracleDialect{}, "INTEGER", "int"},
	}
	for _, tt := range tests {
		if got := tt.d.NormalizeType(tt.sqlType); got != tt.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tt.sqlType, got, tt.want)
		}
	}
}

func TestSchemaNameDefaults(t *testing.T) {
	if got := (&dialect.PostgresDialect{}).SchemaName(""); got != "public" {
		t.Errorf("postgres default schema = %q, want public", got)
	}
	if got := (&dialect.MSSQLDialect{}).SchemaName(""); got != "dbo" {
		t.Errorf("mssql default schema = %q, want dbo", got)
	}
	if got := (&dialect.OracleDialect{}).SchemaName("scott"); got != "SCOTT" {
		t.Errorf("oracle schema = %q, want SCOTT", got)
	}
	if got := (&dialect.MysqlDialect{}).SchemaName("sakila"); got != "sakila" {
		t.Errorf("mysql schema = %q, want sakila", got)
	}
}

func TestIntrospectionQueriesCarryBindPlaceholders(t *testing.T) {
	tests := []struct {
		name        string
		d           dialect.Dialect
		placeholder string
	}{
		{"mysql", &dialect.MysqlDialect{}, "?"},
		{"postgres", &dialect.PostgresDialect{}, "$1"},
		{"mssql", &dialect.MSSQLDialect{}, "@p1"},
		{"oracle", &dialect.OracleDialect{}, ":1"},
	}
	for _, tt := range tests {
		for qName, q := range map[string]string{
			"tables":  tt.d.TablesQuery("s"),
			"columns": tt.d.ColumnsQuery("s"),
			"fks":     tt.d.ForeignKeysQuery("s"),
		} {
			if !strings.Contains(q, tt.placeholder) {
				t.Errorf("%s %s query missing placeholder %q", tt.name, qName, tt.placeholder)
			}
		}
	}
}
