package profile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"synthcheck/internal/dialect"
	"synthcheck/internal/schema"
)

// Scanner introspects a live database into a DataSchema plus per-column
// profiles. All access is read-only.
type Scanner struct {
	db *sql.DB
	d  dialect.Dialect
}

func NewScanner(db *sql.DB, d dialect.Dialect) *Scanner {
	return &Scanner{db: db, d: d}
}

// Scan reads tables, columns and foreign keys for the given schema and
// samples every column up to MaxSampleSize non-null values.
func (s *Scanner) Scan(ctx context.Context, schemaName string) (*schema.DataSchema, map[string][]*ColumnProfile, error) {
	target := s.d.SchemaName(schemaName)

	ds, err := s.scanStructure(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	profiles := make(map[string][]*ColumnProfile, len(ds.Tables))
	for _, t := range ds.Tables {
		cols := make([]*ColumnProfile, 0, len(t.Fields))
		for _, f := range t.Fields {
			p, err := s.sampleColumn(ctx, t.Name, f)
			if err != nil {
				return nil, nil, err
			}
			cols = append(cols, p)
		}
		profiles[t.Name] = cols
	}
	return ds, profiles, nil
}

func (s *Scanner) scanStructure(ctx context.Context, target string) (*schema.DataSchema, error) {
	// Normalized keys for case-insensitive lookups (Oracle support).
	tableIdx := make(map[string]int)
	ds := &schema.DataSchema{}

	rows, err := s.db.QueryContext(ctx, s.d.TablesQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tableIdx[strings.ToUpper(name)] = len(ds.Tables)
		ds.Tables = append(ds.Tables, schema.TableSchema{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	colRows, err := s.db.QueryContext(ctx, s.d.ColumnsQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer colRows.Close()

	for colRows.Next() {
		var tName, cName, dType, cLen, isNull, cKey, isUnique, comment sql.NullString
		if err := colRows.Scan(&tName, &cName, &dType, &cLen, &isNull, &cKey, &isUnique, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", tName.String, err)
		}
		if !tName.Valid || !cName.Valid {
			continue
		}
		idx, ok := tableIdx[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		t := &ds.Tables[idx]

		f := schema.FieldDefinition{
			Name:     cName.String,
			Type:     s.d.NormalizeType(dType.String),
			Nullable: isNull.String == "YES",
		}
		if !f.Nullable {
			f.Constraints = append(f.Constraints, schema.Constraint{Kind: schema.Required})
		}
		if maxLen, ok := parseLength(cLen); ok {
			f.Constraints = append(f.Constraints, schema.Constraint{Kind: schema.Length, MaxLen: schema.IntPtr(maxLen)})
		}
		if isUnique.Valid && strings.Contains(isUnique.String, "UNIQUE") {
			f.Constraints = append(f.Constraints, schema.Constraint{Kind: schema.Unique})
		}
		if strings.Contains(cKey.String, "PRI") || strings.Contains(cKey.String, "PRIMARY") {
			if t.PrimaryKey == "" {
				t.PrimaryKey = f.Name
			}
		}
		t.Fields = append(t.Fields, f)
	}
	if err := colRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	fkRows, err := s.db.QueryContext(ctx, s.d.ForeignKeysQuery(target), target)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var tName, cName, rTable, rCol sql.NullString
		if err := fkRows.Scan(&tName, &cName, &rTable, &rCol); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !cName.Valid || !rTable.Valid {
			continue
		}
		idx, ok := tableIdx[strings.ToUpper(tName.String)]
		if !ok {
			continue
		}
		// Skip references to tables outside the scanned schema.
		rIdx, ok := tableIdx[strings.ToUpper(rTable.String)]
		if !ok {
			continue
		}
		t := &ds.Tables[idx]
		if f := t.Field(cName.String); f != nil {
			f.Constraints = append(f.Constraints, schema.Constraint{
				Kind:     schema.ForeignKey,
				RefTable: ds.Tables[rIdx].Name,
				RefField: rCol.String,
			})
		}
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}

	return ds, nil
}

func (s *Scanner) sampleColumn(ctx context.Context, table string, f schema.FieldDefinition) (*ColumnProfile, error) {
	rows, err := s.db.QueryContext(ctx, s.d.SampleQuery(table, f.Name, MaxSampleSize))
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s.%s: %w", table, f.Name, err)
	}
	defer rows.Close()

	var values []interface{}
	for rows.Next() {
		var v interface{}
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan sample for %s.%s: %w", table, f.Name, err)
		}
		values = append(values, normalizeValue(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples for %s.%s: %w", table, f.Name, err)
	}

	p := Build(f.Name, f.Type, values)

	// Sampling excludes nulls and is bounded, so fetch the real counts
	// separately. COUNT(*), COUNT(col) and COUNT(DISTINCT col) are portable
	// across all supported databases.
	var total, nonNull, distinct int
	countQuery := fmt.Sprintf("SELECT COUNT(*), COUNT(%s), COUNT(DISTINCT %s) FROM %s", f.Name, f.Name, table)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&total, &nonNull, &distinct); err != nil {
		return nil, fmt.Errorf("failed to count %s.%s: %w", table, f.Name, err)
	}
	p.ApplyTableCounts(total, nonNull, distinct)
	return p, nil
}

func parseLength(v sql.NullString) (int, bool) {
	if !v.Valid || v.String == "" {
		return 0, false
	}
	var length int
	if _, err := fmt.Sscanf(v.String, "%d", &length); err == nil && length > 0 {
		return length, true
	}
	var f float64
	if _, err := fmt.Sscanf(v.String, "%f", &f); err == nil && f > 0 {
		return int(f), true
	}
	return 0, false
}

// normalizeValue maps driver byte slices to strings so samples compare
// and print like regular values.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
