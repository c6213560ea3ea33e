package baserepo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrazmi/repogen/core/scaffolding/dialect"
)

type score struct {
	ID    int64
	Name  string
	Score int32
	At    int64
}

func scoreSpec() TableSpec {
	return TableSpec{
		Table:      "scores",
		PrimaryKey: "id",
		Columns: []ColumnSpec{
			{Name: "id"},
			{Name: "name"},
			{Name: "score"},
			{Name: "at", Time: true},
		},
	}
}

func scoreDescriptor(t *testing.T, name string) Descriptor[score] {
	t.Helper()
	st, err := BuildStatements(dialect.MustLookup(name), scoreSpec())
	require.NoError(t, err)
	return Descriptor[score]{
		Table:      "scores",
		PrimaryKey: "id",
		Columns:    []string{"id", "name", "score", "at"},
		Statements: st,
		Scan: func(row Row) score {
			return score{
				ID:    Int[int64](row.Cell(0)),
				Name:  String(row.Cell(1)),
				Score: Int[int32](row.Cell(2)),
				At:    Int[int64](row.Cell(3)),
			}
		},
		Values: func(e score) []any { return []any{e.ID, e.Name, e.Score, NullableUnix(e.At)} },
		ID:     func(e score) int64 { return e.ID },
		SetID:  func(e *score, id int64) { e.ID = id },
	}
}

func scoreTable(t *testing.T, name string) *Table[score] {
	t.Helper()
	tbl, err := NewTable(scoreDescriptor(t, name))
	require.NoError(t, err)
	return tbl
}

// recorder captures every statement and answers with a canned result.
type recorder struct {
	mu     sync.Mutex
	stmts  []Statement
	result Result
}

func (r *recorder) Run(_ context.Context, s Statement) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, s)
	return r.result
}

func (r *recorder) last(t *testing.T) Statement {
	t.Helper()
	require.NotEmpty(t, r.stmts, "no statement was run")
	return r.stmts[len(r.stmts)-1]
}
