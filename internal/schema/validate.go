package schema

import "regexp"

// Validate checks the schema's structural invariants before any generation
// work: unique table and field names, resolvable foreign keys, compilable
// pattern constraints and an acyclic foreign-key graph. The first violation
// found is returned; value-level problems are never reported here.
func (s *DataSchema) Validate() error {
	tableNames := make(map[string]bool)
	for i := range s.Tables {
		t := &s.Tables[i]
		if tableNames[t.Name] {
			return configErrorf("duplicate table name: %s", t.Name)
		}
		tableNames[t.Name] = true

		fieldNames := make(map[string]bool)
		for _, f := range t.Fields {
			if fieldNames[f.Name] {
				return configErrorf("duplicate field name %s in table %s", f.Name, t.Name)
			}
			fieldNames[f.Name] = true
		}

		if t.PrimaryKey != "" && t.Field(t.PrimaryKey) == nil {
			return configErrorf("table %s declares primary key %s but has no such field", t.Name, t.PrimaryKey)
		}
	}

	for i := range s.Tables {
		t := &s.Tables[i]
		for _, f := range t.Fields {
			if err := s.validateConstraints(t, &f); err != nil {
				return err
			}
		}
	}

	// Cycle check up front so callers fail before generating anything.
	if _, err := s.TopologicalSort(); err != nil {
		return err
	}
	return nil
}

func (s *DataSchema) validateConstraints(t *TableSchema, f *FieldDefinition) error {
	for _, c := range f.Constraints {
		switch c.Kind {
		case Pattern:
			if _, err := regexp.Compile(c.Regex); err != nil {
				return configErrorf("invalid pattern on %s.%s: %v", t.Name, f.Name, err)
			}
		case Range:
			if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
				return configErrorf("range min > max on %s.%s", t.Name, f.Name)
			}
		case Length:
			if c.MinLen != nil && c.MaxLen != nil && *c.MinLen > *c.MaxLen {
				return configErrorf("length min > max on %s.%s", t.Name, f.Name)
			}
		case Enum:
			if len(c.Values) == 0 {
				return configErrorf("empty enum on %s.%s", t.Name, f.Name)
			}
		case ForeignKey:
			target := s.Table(c.RefTable)
			if target == nil {
				return configErrorf("foreign key %s.%s references unknown table %s", t.Name, f.Name, c.RefTable)
			}
			if target.Field(c.RefField) == nil {
				return configErrorf("foreign key %s.%s references unknown field %s.%s", t.Name, f.Name, c.RefTable, c.RefField)
			}
		}
	}
	return nil
}
