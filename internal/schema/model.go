package schema

// ConstraintKind tags the variant carried by a Constraint.
type ConstraintKind string

const (
	Range      ConstraintKind = "range"
	Pattern    ConstraintKind = "pattern"
	Enum       ConstraintKind = "enum"
	Length     ConstraintKind = "length"
	Required   ConstraintKind = "required"
	Unique     ConstraintKind = "unique"
	ForeignKey ConstraintKind = "foreign_key"
)

// Constraint is a tagged variant over the declarable field constraints.
// Only the fields matching Kind are meaningful.
type Constraint struct {
	Kind ConstraintKind `json:"kind"`

	// Range
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// Length
	MinLen *int `json:"min_len,omitempty"`
	MaxLen *int `json:"max_len,omitempty"`

	// Pattern
	Regex string `json:"regex,omitempty"`

	// Enum
	Values []string `json:"values,omitempty"`

	// ForeignKey
	RefTable string `json:"ref_table,omitempty"`
	RefField string `json:"ref_field,omitempty"`
}

// FieldDefinition declares one column of a table schema.
type FieldDefinition struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Nullable    bool         `json:"nullable"`
	Default     interface{}  `json:"default,omitempty"`
}

// TableSchema declares one table: ordered fields plus an optional primary key.
type TableSchema struct {
	Name       string            `json:"name"`
	Fields     []FieldDefinition `json:"fields"`
	PrimaryKey string            `json:"primary_key,omitempty"`
}

// DataSchema is the immutable schema configuration for a generation run.
type DataSchema struct {
	Tables []TableSchema `json:"tables"`
}

// ForeignKeyRelationship is the derived view over a ForeignKey constraint.
type ForeignKeyRelationship struct {
	SourceTable string
	SourceField string
	TargetTable string
	TargetField string
}

// Field returns the named field definition, or nil if absent.
func (t *TableSchema) Field(name string) *FieldDefinition {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// ForeignKeys lists the table's foreign-key relationships in field order.
func (t *TableSchema) ForeignKeys() []ForeignKeyRelationship {
	var fks []ForeignKeyRelationship
	for _, f := range t.Fields {
		for _, c := range f.Constraints {
			if c.Kind == ForeignKey {
				fks = append(fks, ForeignKeyRelationship{
					SourceTable: t.Name,
					SourceField: f.Name,
					TargetTable: c.RefTable,
					TargetField: c.RefField,
				})
			}
		}
	}
	return fks
}

// Table returns the named table schema, or nil if absent.
func (s *DataSchema) Table(name string) *TableSchema {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// FloatPtr builds a *float64 for constraint literals.
func FloatPtr(v float64) *float64 { return &v }

// IntPtr builds an *int for constraint literals.
func IntPtr(v int) *int { return &v }
