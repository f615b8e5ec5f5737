package engine

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"synthcheck/internal/schema"
)

// lengthPadFiller is the fixed character used to right-pad strings below a
// minimum length.
const lengthPadFiller = "x"

// requiredFallback fills required values when the column has no usable
// mode.
const requiredFallback = "UNKNOWN"

// ConstraintEngine validates and repairs generated field values against
// their declared constraints, in declaration order. Repairs are silent;
// only pattern mismatches and unique collisions are logged, since neither
// can be repaired safely.
type ConstraintEngine struct {
	log *RepairLog
	rng *rand.Rand
}

// NewConstraintEngine builds an engine logging into log. seed makes enum
// redraws deterministic for tests.
func NewConstraintEngine(log *RepairLog, seed int64) *ConstraintEngine {
	return &ConstraintEngine{log: log, rng: rand.New(rand.NewSource(seed))}
}

// EnforceTable repairs every field of the table in place.
// Foreign-key constraints are left to the integrity resolver.
func (e *ConstraintEngine) EnforceTable(t *schema.TableSchema, data *TableData) {
	for _, f := range t.Fields {
		if col, ok := data.Columns[f.Name]; ok {
			data.Columns[f.Name] = e.EnforceField(t.Name, f, col)
		}
	}
}

// EnforceField applies the field's constraints to values in declaration
// order and returns the repaired slice.
func (e *ConstraintEngine) EnforceField(table string, f schema.FieldDefinition, values []interface{}) []interface{} {
	for _, c := range f.Constraints {
		switch c.Kind {
		case schema.Range:
			values = e.clipRange(table, f.Name, c, values)
		case schema.Length:
			values = e.fixLength(table, f.Name, c, values)
		case schema.Pattern:
			e.checkPattern(table, f.Name, c, values)
		case schema.Enum:
			values = e.redrawEnum(table, f.Name, c, values)
		case schema.Required:
			values = e.fillRequired(table, f.Name, values)
		case schema.Unique:
			e.checkUnique(table, f.Name, values)
		case schema.ForeignKey:
			// resolved by the integrity resolver
		}
	}
	return values
}

func (e *ConstraintEngine) clipRange(table, field string, c schema.Constraint, values []interface{}) []interface{} {
	repaired := 0
	for i, v := range values {
		num, ok := toFloat(v)
		if !ok {
			continue
		}
		clipped := num
		if c.Min != nil && clipped < *c.Min {
			clipped = *c.Min
		}
		if c.Max != nil && clipped > *c.Max {
			clipped = *c.Max
		}
		if clipped != num {
			values[i] = restoreNumeric(v, clipped)
			repaired++
		}
	}
	e.log.CountRepairs(table, repaired)
	return values
}

func (e *ConstraintEngine) fixLength(table, field string, c schema.Constraint, values []interface{}) []interface{} {
	repaired := 0
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		// Declared lengths are character counts; byte slicing would split
		// multibyte runes.
		fixed := s
		if c.MaxLen != nil {
			if r := []rune(fixed); len(r) > *c.MaxLen {
				fixed = string(r[:*c.MaxLen])
			}
		}
		if c.MinLen != nil {
			if n := utf8.RuneCountInString(fixed); n < *c.MinLen {
				fixed += strings.Repeat(lengthPadFiller, *c.MinLen-n)
			}
		}
		if fixed != s {
			values[i] = fixed
			repaired++
		}
	}
	e.log.CountRepairs(table, repaired)
	return values
}

func (e *ConstraintEngine) checkPattern(table, field string, c schema.Constraint, values []interface{}) {
	// A string cannot be auto-repaired into matching an arbitrary regex;
	// mismatches are only reported.
	re, err := regexp.Compile(c.Regex)
	if err != nil {
		return // caught by schema validation before generation
	}
	mismatches := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		if !re.MatchString(fmt.Sprintf("%v", v)) {
			mismatches++
		}
	}
	if mismatches > 0 {
		e.log.Warnf(table, field, "%d values do not match pattern %q", mismatches, c.Regex)
	}
}

func (e *ConstraintEngine) redrawEnum(table, field string, c schema.Constraint, values []interface{}) []interface{} {
	allowed := make(map[string]bool, len(c.Values))
	for _, v := range c.Values {
		allowed[v] = true
	}
	repaired := 0
	for i, v := range values {
		if v == nil {
			continue
		}
		if !allowed[fmt.Sprintf("%v", v)] {
			values[i] = c.Values[e.rng.Intn(len(c.Values))]
			repaired++
		}
	}
	e.log.CountRepairs(table, repaired)
	return values
}

func (e *ConstraintEngine) fillRequired(table, field string, values []interface{}) []interface{} {
	nulls := 0
	for _, v := range values {
		if v == nil {
			nulls++
		}
	}
	if nulls == 0 {
		return values
	}

	filler := columnFiller(values)
	for i, v := range values {
		if v == nil {
			values[i] = filler
		}
	}
	e.log.CountRepairs(table, nulls)
	return values
}

func (e *ConstraintEngine) checkUnique(table, field string, values []interface{}) {
	seen := make(map[string]bool, len(values))
	dups := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		key := fmt.Sprintf("%v", v)
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	if dups > 0 {
		e.log.Warnf(table, field, "%d duplicate values violate unique constraint", dups)
	}
}

// columnFiller picks the replacement for required-null values: the median
// for numeric columns, the mode for everything else, falling back to a
// literal marker when no mode exists.
func columnFiller(values []interface{}) interface{} {
	var nums []float64
	numeric := true
	for _, v := range values {
		if v == nil {
			continue
		}
		if n, ok := toFloat(v); ok {
			nums = append(nums, n)
		} else {
			numeric = false
			break
		}
	}

	if numeric && len(nums) > 0 {
		sort.Float64s(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 1 {
			return nums[mid]
		}
		return (nums[mid-1] + nums[mid]) / 2
	}

	counts := make(map[string]int)
	var mode interface{}
	best := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		key := fmt.Sprintf("%v", v)
		counts[key]++
		if counts[key] > best {
			best = counts[key]
			mode = v
		}
	}
	if mode == nil {
		return requiredFallback
	}
	return mode
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// restoreNumeric keeps integer columns integer after clipping.
func restoreNumeric(original interface{}, clipped float64) interface{} {
	switch original.(type) {
	case int:
		return int(clipped)
	case int32:
		return int32(clipped)
	case int64:
		return int64(clipped)
	case float32:
		return float32(clipped)
	default:
		return clipped
	}
}
