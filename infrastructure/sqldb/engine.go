package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/jrazmi/repogen/core/scaffolding/baserepo"
	"github.com/jrazmi/repogen/core/scaffolding/dialect"
	"github.com/jrazmi/repogen/sdk/telemetry"
)

// Engine runs base repository statements over database/sql.
type Engine struct {
	db      *sqlx.DB
	dialect dialect.Dialect
	log     *slog.Logger
	trace   bool
}

var _ baserepo.Engine = (*Engine)(nil)

// NewEngine wraps an already opened handle. driverName selects the dialect.
func NewEngine(db *sql.DB, driverName string, opts ...Option) (*Engine, error) {
	d, err := dialect.Lookup(driverName)
	if err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return newEngine(sqlx.NewDb(db, driverName), d, o), nil
}

func newEngine(db *sqlx.DB, d dialect.Dialect, o *options) *Engine {
	log := o.logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{db: db, dialect: d, log: log, trace: o.logQueries}
}

// DB returns the underlying handle.
func (e *Engine) DB() *sqlx.DB {
	return e.db
}

// Dialect returns the dialect the engine was opened with.
func (e *Engine) Dialect() dialect.Dialect {
	return e.dialect
}

// Close closes the underlying handle.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Run implements baserepo.Engine.
func (e *Engine) Run(ctx context.Context, stmt baserepo.Statement) baserepo.Result {
	log := e.log
	if id, ok := telemetry.TraceID(ctx); ok {
		log = log.With(slog.String("trace_id", id))
	}
	if e.trace {
		log.InfoContext(ctx, "query start",
			slog.String("kind", stmt.Kind.String()),
			slog.String("sql", stmt.SQL),
			slog.Any("args", stmt.Args),
		)
	}

	res := e.run(ctx, stmt)

	if res.Err != nil {
		log.ErrorContext(ctx, "query end", slog.String("sql", stmt.SQL), slog.String("error", res.Err.Error()))
	} else if e.trace {
		log.InfoContext(ctx, "query end", slog.Int64("rows_affected", res.RowsAffected), slog.Int("rows", len(res.Rows)))
	}
	return res
}

func (e *Engine) run(ctx context.Context, stmt baserepo.Statement) baserepo.Result {
	switch {
	case stmt.Kind == baserepo.KindQuery:
		rows, err := e.query(ctx, stmt)
		return baserepo.Result{Rows: rows, Err: err}

	case stmt.Kind == baserepo.KindInsert && stmt.Returning:
		rows, err := e.query(ctx, stmt)
		if err != nil {
			return baserepo.Result{Err: err}
		}
		res := baserepo.Result{Rows: rows, RowsAffected: int64(len(rows))}
		if len(rows) > 0 {
			res.LastInsertID = baserepo.Int[int64](rows[len(rows)-1].Cell(0))
		}
		return res

	default:
		r, err := e.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return baserepo.Result{Err: err}
		}
		var res baserepo.Result
		if res.RowsAffected, err = r.RowsAffected(); err != nil {
			return baserepo.Result{Err: fmt.Errorf("rows affected: %w", err)}
		}
		if stmt.Kind == baserepo.KindInsert {
			// Drivers without last-insert-id support leave the key as supplied.
			if id, err := r.LastInsertId(); err == nil {
				res.LastInsertID = id
			}
		}
		return res
	}
}

// query reads every cell as text so marshalling sees the same shape for
// every driver.
func (e *Engine) query(ctx context.Context, stmt baserepo.Statement) ([]baserepo.Row, error) {
	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []baserepo.Row
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(baserepo.Row, len(cols))
		for i, c := range cells {
			if c.Valid {
				v := c.String
				row[i] = &v
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
