package engine

import (
	"fmt"
	"log"
	"sync"
)

// Warning records one logged anomaly: a pattern mismatch, a missing
// foreign-key pool, or another condition that could not be auto-repaired.
type Warning struct {
	Table   string `json:"table"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RepairLog collects warnings and silent-repair counts for a generation
// run. Repairs are successes and only counted; warnings are the anomalies
// a caller should look at. Safe for concurrent use.
type RepairLog struct {
	mu       sync.Mutex
	warnings []Warning
	repairs  map[string]int // per table
	total    int
}

func NewRepairLog() *RepairLog {
	return &RepairLog{repairs: make(map[string]int)}
}

// Warnf records and logs a warning for table.field.
func (l *RepairLog) Warnf(table, field, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.warnings = append(l.warnings, Warning{Table: table, Field: field, Message: msg})
	l.mu.Unlock()
	log.Printf("[WARN] %s.%s: %s", table, field, msg)
}

// CountRepairs adds n silent repairs for a table.
func (l *RepairLog) CountRepairs(table string, n int) {
	if n == 0 {
		return
	}
	l.mu.Lock()
	l.repairs[table] += n
	l.total += n
	l.mu.Unlock()
}

// Warnings returns a copy of the recorded warnings.
func (l *RepairLog) Warnings() []Warning {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Warning, len(l.warnings))
	copy(out, l.warnings)
	return out
}

// TableWarnings counts warnings recorded against one table.
func (l *RepairLog) TableWarnings(table string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, w := range l.warnings {
		if w.Table == table {
			n++
		}
	}
	return n
}

// TableRepairs returns the silent-repair count for one table.
func (l *RepairLog) TableRepairs(table string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repairs[table]
}

// TotalRepairs returns the run-wide silent-repair count.
func (l *RepairLog) TotalRepairs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
