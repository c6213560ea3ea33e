package baserepo

import "context"

// Kind tells the engine what shape of result a statement produces.
type Kind int

const (
	// KindQuery statements return a row set.
	KindQuery Kind = iota
	// KindExec statements report an affected-row count.
	KindExec
	// KindInsert statements report an affected-row count and a generated id.
	KindInsert
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindExec:
		return "exec"
	case KindInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// Statement is one unit of SQL handed to an Engine.
type Statement struct {
	SQL  string
	Args []any
	Kind Kind

	// Returning is set on inserts whose generated ids come back as a row set
	// (one row per inserted row, id in the first column).
	Returning bool
}

// Result is everything an Engine reports back for a Statement.
type Result struct {
	Rows         []Row
	RowsAffected int64
	LastInsertID int64
	Err          error
}

// Success reports whether the statement executed.
func (r Result) Success() bool {
	return r.Err == nil
}

// Engine executes synthesized SQL. Implementations must be safe for
// concurrent use; repositories hold no state of their own.
type Engine interface {
	Run(ctx context.Context, stmt Statement) Result
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, stmt Statement) Result

// Run implements Engine.
func (f EngineFunc) Run(ctx context.Context, stmt Statement) Result {
	return f(ctx, stmt)
}
