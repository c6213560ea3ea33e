// Package baserepo implements the operation set every generated base
// repository exposes. Generated code supplies a Descriptor (column order,
// pre-synthesized statements, scan and value functions) and delegates each
// method to a Table built from it.
package baserepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrazmi/repogen/core/scaffolding/dialect"
)

// Descriptor binds an entity type to its table. Columns, the Scan positions
// and the Values order must all follow the same column order.
type Descriptor[E any] struct {
	Table      string
	PrimaryKey string
	Columns    []string
	Statements Statements

	Scan   func(row Row) E
	Values func(e E) []any
	ID     func(e E) int64
	SetID  func(e *E, id int64)
}

// Table runs the base repository operations for one entity type. It is
// immutable after construction and safe for concurrent use.
type Table[E any] struct {
	desc    Descriptor[E]
	dialect dialect.Dialect
	pk      int
}

// NewTable validates d and returns a Table for it.
func NewTable[E any](d Descriptor[E]) (*Table[E], error) {
	if d.Scan == nil || d.Values == nil || d.ID == nil || d.SetID == nil {
		return nil, fmt.Errorf("table %s: descriptor is missing scan/value functions", d.Table)
	}
	dl, err := dialect.Lookup(d.Statements.Dialect)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", d.Table, err)
	}
	pk := -1
	for i, c := range d.Columns {
		if c == d.PrimaryKey {
			pk = i
			break
		}
	}
	if pk < 0 {
		return nil, fmt.Errorf("table %s: primary key %q is not a column", d.Table, d.PrimaryKey)
	}
	return &Table[E]{desc: d, dialect: dl, pk: pk}, nil
}

// MustNewTable is like NewTable but panics on an invalid descriptor. It is
// meant for package-level variables in generated code.
func MustNewTable[E any](d Descriptor[E]) *Table[E] {
	t, err := NewTable(d)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the table name.
func (t *Table[E]) Name() string {
	return t.desc.Table
}

// Columns returns a copy of the column names in declaration order.
func (t *Table[E]) Columns() []string {
	return append([]string(nil), t.desc.Columns...)
}

// NewEntity returns the zero-valued entity used as the not-found fallback.
func (t *Table[E]) NewEntity() E {
	var e E
	return e
}

// Pick returns the first entity in entries whose primary key equals id, or
// NewEntity when there is none.
func (t *Table[E]) Pick(entries []E, id int64) E {
	for _, e := range entries {
		if t.desc.ID(e) == id {
			return e
		}
	}
	return t.NewEntity()
}

// FindOne returns the row with primary key id, or NewEntity when no row matches.
func (t *Table[E]) FindOne(ctx context.Context, db Engine, id int64) (E, error) {
	res := db.Run(ctx, Statement{SQL: t.desc.Statements.FindOne, Args: []any{id}, Kind: KindQuery})
	if !res.Success() {
		return t.NewEntity(), t.fail("FindOne", res.Err)
	}
	if len(res.Rows) == 0 {
		return t.NewEntity(), nil
	}
	return t.desc.Scan(res.Rows[0]), nil
}

// All returns every row in the table.
func (t *Table[E]) All(ctx context.Context, db Engine) ([]E, error) {
	return t.query(ctx, db, "All", t.desc.Statements.Select, Filter{})
}

// GetWhere returns the rows matching filter.
func (t *Table[E]) GetWhere(ctx context.Context, db Engine, filter Filter) ([]E, error) {
	return t.query(ctx, db, "GetWhere", t.desc.Statements.Select, filter)
}

// InsertOne inserts e and returns it with the generated primary key. A zero
// primary key is left to the database to assign. On failure NewEntity is
// returned.
func (t *Table[E]) InsertOne(ctx context.Context, db Engine, e E) (E, error) {
	st := t.desc.Statements
	stmt := Statement{Kind: KindInsert, Returning: st.Returning != ""}
	values := t.desc.Values(e)
	if t.desc.ID(e) == 0 {
		stmt.SQL = st.InsertOneAuto
		stmt.Args = t.withoutPK(values)
	} else {
		stmt.SQL = st.InsertOne
		stmt.Args = values
	}

	res := db.Run(ctx, stmt)
	if !res.Success() {
		return t.NewEntity(), t.fail("InsertOne", res.Err)
	}
	if res.LastInsertID != 0 {
		t.desc.SetID(&e, res.LastInsertID)
	}
	return e, nil
}

// InsertMany inserts entries with a single multi-row statement and returns
// the affected-row count. The primary key column is omitted only when every
// entry has a zero key. In a batch that mixes zero and non-zero keys the
// zero keys are written literally, so sqlite and postgres store a row with
// id 0 instead of assigning one. Generated ids are not copied back.
func (t *Table[E]) InsertMany(ctx context.Context, db Engine, entries []E) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	st := t.desc.Statements

	auto := st.TupleAuto != ""
	for _, e := range entries {
		if t.desc.ID(e) != 0 {
			auto = false
			break
		}
	}

	prefix, tuple := st.InsertPrefix, st.Tuple
	if auto {
		prefix, tuple = st.InsertPrefixAuto, st.TupleAuto
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(prefix)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tuple)
		values := t.desc.Values(e)
		if auto {
			values = t.withoutPK(values)
		}
		args = append(args, values...)
	}
	sb.WriteString(st.Returning)

	res := db.Run(ctx, Statement{
		SQL:       t.dialect.Rebind(sb.String()),
		Args:      args,
		Kind:      KindInsert,
		Returning: st.Returning != "",
	})
	if !res.Success() {
		return 0, t.fail("InsertMany", res.Err)
	}
	return res.RowsAffected, nil
}

// UpdateOne rewrites every non-key column of the row identified by e's
// primary key and returns the affected-row count.
func (t *Table[E]) UpdateOne(ctx context.Context, db Engine, e E) (int64, error) {
	if t.desc.Statements.Update == "" {
		return 0, nil
	}
	args := append(t.withoutPK(t.desc.Values(e)), t.desc.ID(e))
	return t.exec(ctx, db, "UpdateOne", Statement{SQL: t.desc.Statements.Update, Args: args, Kind: KindExec})
}

// DeleteOne deletes the row with primary key id.
func (t *Table[E]) DeleteOne(ctx context.Context, db Engine, id int64) (int64, error) {
	return t.exec(ctx, db, "DeleteOne", Statement{SQL: t.desc.Statements.DeleteOne, Args: []any{id}, Kind: KindExec})
}

// DeleteWhere deletes the rows matching filter.
func (t *Table[E]) DeleteWhere(ctx context.Context, db Engine, filter Filter) (int64, error) {
	if filter.IsEmpty() {
		return 0, t.fail("DeleteWhere", fmt.Errorf("empty filter: use Truncate to empty the table"))
	}
	return t.exec(ctx, db, "DeleteWhere", t.where(t.desc.Statements.Delete, filter, KindExec))
}

// Truncate removes every row. The affected count is whatever the engine
// reports for the dialect's truncate statement.
func (t *Table[E]) Truncate(ctx context.Context, db Engine) (int64, error) {
	return t.exec(ctx, db, "Truncate", Statement{SQL: t.desc.Statements.Truncate, Kind: KindExec})
}

// Count returns the number of rows matching all filters, or of the whole
// table when none are given.
func (t *Table[E]) Count(ctx context.Context, db Engine, filters ...Filter) (int64, error) {
	return t.scalar(ctx, db, "Count", t.where(t.desc.Statements.Count, and(filters), KindQuery))
}

// GetMaxID returns the largest primary key in the table, or 0 when it is empty.
func (t *Table[E]) GetMaxID(ctx context.Context, db Engine) (int64, error) {
	return t.scalar(ctx, db, "GetMaxID", Statement{SQL: t.desc.Statements.MaxID, Kind: KindQuery})
}

func (t *Table[E]) query(ctx context.Context, db Engine, op, base string, filter Filter) ([]E, error) {
	res := db.Run(ctx, t.where(base, filter, KindQuery))
	if !res.Success() {
		return []E{}, t.fail(op, res.Err)
	}
	entries := make([]E, 0, len(res.Rows))
	for _, row := range res.Rows {
		entries = append(entries, t.desc.Scan(row))
	}
	return entries, nil
}

func (t *Table[E]) exec(ctx context.Context, db Engine, op string, stmt Statement) (int64, error) {
	res := db.Run(ctx, stmt)
	if !res.Success() {
		return 0, t.fail(op, res.Err)
	}
	return res.RowsAffected, nil
}

func (t *Table[E]) scalar(ctx context.Context, db Engine, op string, stmt Statement) (int64, error) {
	res := db.Run(ctx, stmt)
	if !res.Success() {
		return 0, t.fail(op, res.Err)
	}
	if len(res.Rows) == 0 {
		return 0, nil
	}
	return Int[int64](res.Rows[0].Cell(0)), nil
}

// where appends filter to base. The filter text is never escaped; only
// statements that carry filter args are rebound.
func (t *Table[E]) where(base string, filter Filter, kind Kind) Statement {
	if filter.IsEmpty() {
		return Statement{SQL: base, Kind: kind}
	}
	sql := base + " WHERE " + filter.Expr
	if len(filter.Args) > 0 {
		sql = t.dialect.Rebind(sql)
	}
	return Statement{SQL: sql, Args: filter.Args, Kind: kind}
}

func (t *Table[E]) withoutPK(values []any) []any {
	out := make([]any, 0, len(values))
	out = append(out, values[:t.pk]...)
	return append(out, values[t.pk+1:]...)
}

func (t *Table[E]) fail(op string, err error) error {
	return &ExecError{Table: t.desc.Table, Op: op, Err: err}
}
