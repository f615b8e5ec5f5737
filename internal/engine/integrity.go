package engine

import (
	"math/rand"

	"synthcheck/internal/schema"
)

// Resolver repairs cross-table referential integrity on generated data:
// every non-null foreign-key value must exist in the referenced table's
// generated target column. Tables must be finalized in topological load
// order so that parent pools exist before dependents are repaired.
type Resolver struct {
	log *RepairLog
	rng *rand.Rand
}

// NewResolver builds a resolver logging into log. seed makes pool draws
// deterministic for tests.
func NewResolver(log *RepairLog, seed int64) *Resolver {
	return &Resolver{log: log, rng: rand.New(rand.NewSource(seed))}
}

// Resolve repairs every table present in generated, in schema load order.
// It fails fast on a cyclic schema before touching any values.
func (r *Resolver) Resolve(s *schema.DataSchema, generated map[string]*TableData) error {
	order, err := s.TopologicalSort()
	if err != nil {
		return err
	}
	for _, name := range order {
		if data, ok := generated[name]; ok {
			r.ResolveTable(s, s.Table(name), data, generated)
		}
	}
	return nil
}

// ResolveTable resamples every foreign-key column of one table from its
// parent's generated values. Must run after the table's required-field
// filling: the referencing side draws only from non-null parent values.
func (r *Resolver) ResolveTable(s *schema.DataSchema, t *schema.TableSchema, data *TableData, generated map[string]*TableData) {
	for _, fk := range t.ForeignKeys() {
		col, ok := data.Columns[fk.SourceField]
		if !ok {
			continue
		}

		parent, ok := generated[fk.TargetTable]
		if !ok {
			r.log.Warnf(t.Name, fk.SourceField, "referenced table %s has no generated data, foreign key left as generated", fk.TargetTable)
			continue
		}

		// Pool is snapshotted before replacement so self-referencing
		// columns draw from the original values.
		pool := nonNullValues(parent.Columns[fk.TargetField])
		if len(pool) == 0 {
			r.log.Warnf(t.Name, fk.SourceField, "no valid foreign-key pool in %s.%s, values left as generated", fk.TargetTable, fk.TargetField)
			continue
		}

		selfRef := fk.TargetTable == t.Name
		for i := range col {
			if selfRef && col[i] == nil {
				// A null self-reference is a legitimate "no parent" row.
				continue
			}
			col[i] = pool[r.rng.Intn(len(pool))]
		}
	}
}

func nonNullValues(col []interface{}) []interface{} {
	var out []interface{}
	for _, v := range col {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
