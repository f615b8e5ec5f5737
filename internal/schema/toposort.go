package schema

import "sort"

// TopologicalSort computes a safe table load order with Kahn's algorithm:
// every referenced (parent) table precedes the tables that depend on it.
// Self-references are legal and do not participate in the graph. A circular
// dependency between distinct tables is unresolvable and yields a
// SchemaError naming the implicated tables.
func (s *DataSchema) TopologicalSort() ([]string, error) {
	// deps[t] = distinct tables t references (excluding itself).
	deps := make(map[string][]string)
	// refCount[t] = number of tables that reference t.
	refCount := make(map[string]int)

	for i := range s.Tables {
		t := &s.Tables[i]
		seen := make(map[string]bool)
		for _, fk := range t.ForeignKeys() {
			if fk.TargetTable == t.Name || seen[fk.TargetTable] {
				continue
			}
			seen[fk.TargetTable] = true
			deps[t.Name] = append(deps[t.Name], fk.TargetTable)
			refCount[fk.TargetTable]++
		}
	}

	// Dequeue tables nobody depends on first, then peel inward.
	// Queue is seeded in declaration order for deterministic output.
	var queue []string
	for _, t := range s.Tables {
		if refCount[t.Name] == 0 {
			queue = append(queue, t.Name)
		}
	}

	var order []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, parent := range deps[name] {
			refCount[parent]--
			if refCount[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}

	if len(order) < len(s.Tables) {
		processed := make(map[string]bool, len(order))
		for _, name := range order {
			processed[name] = true
		}
		var cyclic []string
		for _, t := range s.Tables {
			if !processed[t.Name] {
				cyclic = append(cyclic, t.Name)
			}
		}
		sort.Strings(cyclic)
		return nil, &SchemaError{Msg: "circular foreign-key dependency", Tables: cyclic}
	}

	// Dependents were dequeued first; reverse so parents load first.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
