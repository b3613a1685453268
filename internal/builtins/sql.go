package builtins

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/recmo/olus/internal/eval"
)

// Tracer backs the trace built-in: every call it forwards appends one
// row (the continuation's procedure id, and how many operands it was
// handed) to a "steps" table, the same call-logging idiom
// mcgru-funxy/internal/evaluator/builtins_sql.go wraps a *sql.DB for,
// narrowed from that file's general query/exec surface down to the one
// append-only insert a CPS trace needs.
type Tracer struct {
	db   *sql.DB
	step int64
}

// OpenTracer opens (creating if needed) a sqlite database at path and
// prepares its steps table.
func OpenTracer(path string) (*Tracer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("builtins: opening trace db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		step INTEGER NOT NULL,
		procedure_id INTEGER,
		operand_count INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("builtins: preparing trace db: %w", err)
	}
	return &Tracer{db: db}, nil
}

// record logs one evaluator step: cont is the closure the trace call is
// about to forward operandCount values to (a non-closure cont, e.g. a
// built-in, logs a NULL procedure id).
func (t *Tracer) record(cont eval.Value[Tag], operandCount int) {
	if t == nil || t.db == nil {
		return
	}
	t.step++
	var procID any
	if cont.Kind == eval.ValueClosure {
		procID = int64(cont.Closure)
	}
	_, _ = t.db.Exec(`INSERT INTO steps (step, procedure_id, operand_count) VALUES (?, ?, ?)`,
		t.step, procID, operandCount)
}

// Close releases the underlying sqlite connection.
func (t *Tracer) Close() error {
	if t == nil || t.db == nil {
		return nil
	}
	return t.db.Close()
}
