package postgresdb

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jrazmi/repogen/core/scaffolding/baserepo"
)

// Engine runs base repository statements on a pgx pool.
type Engine struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ baserepo.Engine = (*Engine)(nil)

// NewEngine wraps an existing pool.
func NewEngine(pool *pgxpool.Pool, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{pool: pool, log: log}
}

// Pool returns the underlying pool.
func (e *Engine) Pool() *pgxpool.Pool {
	return e.pool
}

// Close closes the pool.
func (e *Engine) Close() {
	e.pool.Close()
}

// Run implements baserepo.Engine. Errors are mapped with HandlePgError.
func (e *Engine) Run(ctx context.Context, stmt baserepo.Statement) baserepo.Result {
	if stmt.Kind == baserepo.KindQuery || stmt.Returning {
		rows, err := e.query(ctx, stmt)
		if err != nil {
			return baserepo.Result{Err: HandlePgError(err)}
		}
		res := baserepo.Result{Rows: rows}
		if stmt.Kind == baserepo.KindInsert {
			res.RowsAffected = int64(len(rows))
			if len(rows) > 0 {
				res.LastInsertID = baserepo.Int[int64](rows[len(rows)-1].Cell(0))
			}
		}
		return res
	}

	tag, err := e.pool.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return baserepo.Result{Err: HandlePgError(err)}
	}
	return baserepo.Result{RowsAffected: tag.RowsAffected()}
}

func (e *Engine) query(ctx context.Context, stmt baserepo.Statement) ([]baserepo.Row, error) {
	rows, err := e.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []baserepo.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("values: %w", err)
		}
		row := make(baserepo.Row, len(values))
		for i, v := range values {
			row[i] = textCell(v)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// textCell renders a decoded pgx value as the text the marshal helpers parse.
func textCell(v any) *string {
	var s string
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		s = x
	case []byte:
		s = string(x)
	case bool:
		s = "0"
		if x {
			s = "1"
		}
	case int64:
		s = strconv.FormatInt(x, 10)
	case int32:
		s = strconv.FormatInt(int64(x), 10)
	case int16:
		s = strconv.FormatInt(int64(x), 10)
	case float64:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case time.Time:
		s = strconv.FormatInt(x.Unix(), 10)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		s = strconv.FormatFloat(f.Float64, 'g', -1, 64)
	default:
		s = fmt.Sprint(x)
	}
	return &s
}
