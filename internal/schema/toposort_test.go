package schema_test

import (
	"errors"
	"testing"

	"synthcheck/internal/schema"
)

func fkField(name, refTable, refField string) schema.FieldDefinition {
	return schema.FieldDefinition{
		Name: name,
		Type: "integer",
		Constraints: []schema.Constraint{
			{Kind: schema.ForeignKey, RefTable: refTable, RefField: refField},
		},
	}
}

func idField() schema.FieldDefinition {
	return schema.FieldDefinition{Name: "id", Type: "integer"}
}

func TestTopologicalSort_ParentsFirst(t *testing.T) {
	// OrderItems -> Orders -> Users
	s := &schema.DataSchema{Tables: []schema.TableSchema{
		{Name: "order_items", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("order_id", "orders", "id"),
		}},
		{Name: "orders", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("user_id", "users", "id"),
		}},
		{Name: "users", PrimaryKey: "id", Fields: []schema.FieldDefinition{idField()}},
	}}

	order, err := s.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"users", "orders", "order_items"}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("position %d: expected %s, got %s", i, name, order[i])
		}
	}
}

func TestTopologicalSort_IndependentTables(t *testing.T) {
	s := &schema.DataSchema{Tables: []schema.TableSchema{
		{Name: "a", Fields: []schema.FieldDefinition{idField()}},
		{Name: "b", Fields: []schema.FieldDefinition{idField()}},
	}}

	order, err := s.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(order))
	}
}

func TestTopologicalSort_SelfReferenceAllowed(t *testing.T) {
	// employees.manager_id -> employees.id is not a cycle.
	s := &schema.DataSchema{Tables: []schema.TableSchema{
		{Name: "employees", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("manager_id", "employees", "id"),
		}},
	}}

	order, err := s.TopologicalSort()
	if err != nil {
		t.Fatalf("self reference should not be a cycle: %v", err)
	}
	if len(order) != 1 || order[0] != "employees" {
		t.Errorf("expected [employees], got %v", order)
	}
}

func TestTopologicalSort_CycleNamesTables(t *testing.T) {
	// A -> B -> A
	s := &schema.DataSchema{Tables: []schema.TableSchema{
		{Name: "a", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("b_id", "b", "id"),
		}},
		{Name: "b", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("a_id", "a", "id"),
		}},
	}}

	_, err := s.TopologicalSort()
	if err == nil {
		t.Fatal("expected cycle error, got nil")
	}

	var se *schema.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if len(se.Tables) != 2 || se.Tables[0] != "a" || se.Tables[1] != "b" {
		t.Errorf("expected cycle to name [a b], got %v", se.Tables)
	}
}

func TestTopologicalSort_CycleWithIndependentBranch(t *testing.T) {
	// x -> y -> x cycle plus standalone z: error still raised, names only x, y.
	s := &schema.DataSchema{Tables: []schema.TableSchema{
		{Name: "x", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("y_id", "y", "id"),
		}},
		{Name: "y", PrimaryKey: "id", Fields: []schema.FieldDefinition{
			idField(), fkField("x_id", "x", "id"),
		}},
		{Name: "z", Fields: []schema.FieldDefinition{idField()}},
	}}

	_, err := s.TopologicalSort()
	var se *schema.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	for _, name := range se.Tables {
		if name == "z" {
			t.Error("independent table z should not be named in the cycle")
		}
	}
}
