package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

// Oracle USER_* views are already scoped to the connected user, so the
// schema bind has no filtering effect. The :1 IS NOT NULL predicate
// consumes the bind argument the caller always supplies.
func (d *OracleDialect) TablesQuery(schema string) string {
	return `SELECT TABLE_NAME FROM USER_TABLES WHERE :1 IS NOT NULL`
}

func (d *OracleDialect) ColumnsQuery(schema string) string {
	return `SELECT
    c.TABLE_NAME,
    c.COLUMN_NAME,
    CASE
        WHEN c.DATA_TYPE = 'NUMBER' AND c.DATA_SCALE = 0 THEN 'INTEGER'
        WHEN c.DATA_TYPE = 'NUMBER' THEN 'DECIMAL'
        ELSE c.DATA_TYPE
    END AS DATA_TYPE,
    c.CHAR_LENGTH,
    CASE WHEN c.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END AS IS_NULLABLE,
    (SELECT 'PRI' FROM USER_CONSTRAINTS uc
     JOIN USER_CONS_COLUMNS ucc ON uc.CONSTRAINT_NAME = ucc.CONSTRAINT_NAME
     WHERE uc.CONSTRAINT_TYPE = 'P'
     AND ucc.TABLE_NAME = c.TABLE_NAME AND ucc.COLUMN_NAME = c.COLUMN_NAME AND ROWNUM = 1) AS COLUMN_KEY,
    (SELECT 'UNIQUE' FROM USER_CONSTRAINTS uc
     JOIN USER_CONS_COLUMNS ucc ON uc.CONSTRAINT_NAME = ucc.CONSTRAINT_NAME
     WHERE uc.CONSTRAINT_TYPE = 'U'
     AND ucc.TABLE_NAME = c.TABLE_NAME AND ucc.COLUMN_NAME = c.COLUMN_NAME AND ROWNUM = 1) AS IS_UNIQUE,
    (SELECT cc.COMMENTS FROM USER_COL_COMMENTS cc
     WHERE cc.TABLE_NAME = c.TABLE_NAME AND cc.COLUMN_NAME = c.COLUMN_NAME) AS COL_COMMENT
FROM USER_TAB_COLUMNS c
WHERE :1 IS NOT NULL
ORDER BY c.TABLE_NAME, c.COLUMN_ID`
}

func (d *OracleDialect) ForeignKeysQuery(schema string) string {
	return `SELECT a.TABLE_NAME, a.COLUMN_NAME, c_pk.TABLE_NAME AS REFERENCED_TABLE_NAME, b.COLUMN_NAME AS REFERENCED_COLUMN_NAME FROM USER_CONS_COLUMNS a JOIN USER_CONSTRAINTS c ON a.CONSTRAINT_NAME = c.CONSTRAINT_NAME JOIN USER_CONSTRAINTS c_pk ON c.R_CONSTRAINT_NAME = c_pk.CONSTRAINT_NAME JOIN USER_CONS_COLUMNS b ON c_pk.CONSTRAINT_NAME = b.CONSTRAINT_NAME AND a.POSITION = b.POSITION WHERE c.CONSTRAINT_TYPE = 'R' AND :1 IS NOT NULL`
}

func (d *OracleDialect) SampleQuery(table, column string, limit int) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NOT NULL FETCH FIRST %d ROWS ONLY", column, table, column, limit)
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "varchar2", "nvarchar2":
		return "varchar"
	case "integer":
		return "int"
	case "binary_float":
		return "float"
	case "binary_double":
		return "double"
	default:
		return t
	}
}

func (d *OracleDialect) SchemaName(input string) string {
	return strings.ToUpper(input)
}
