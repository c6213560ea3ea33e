package postgresdb

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jrazmi/repogen/sdk/telemetry"
)

// MultiQueryTracer fans trace events out to several tracers.
type MultiQueryTracer struct {
	Tracers []pgx.QueryTracer
}

func NewMultiQueryTracer(tracers ...pgx.QueryTracer) *MultiQueryTracer {
	return &MultiQueryTracer{Tracers: tracers}
}

func (m *MultiQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, t := range m.Tracers {
		ctx = t.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (m *MultiQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, t := range m.Tracers {
		t.TraceQueryEnd(ctx, conn, data)
	}
}

// LoggingQueryTracer logs every statement and its duration.
type LoggingQueryTracer struct {
	logger *slog.Logger
}

func NewLoggingQueryTracer(logger *slog.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{logger: logger}
}

type startKey struct{}

func (l *LoggingQueryTracer) log(ctx context.Context) *slog.Logger {
	if id, ok := telemetry.TraceID(ctx); ok {
		return l.logger.With(slog.String("trace_id", id))
	}
	return l.logger
}

var (
	collapseSpace = regexp.MustCompile(`\s+`)
	openParen     = regexp.MustCompile(`\(\s+`)
	closeParen    = regexp.MustCompile(`\s+\)`)
)

// prettyPrintSQL flattens statement text onto one line.
func prettyPrintSQL(sql string) string {
	pretty := collapseSpace.ReplaceAllString(sql, " ")
	pretty = openParen.ReplaceAllString(pretty, "(")
	pretty = closeParen.ReplaceAllString(pretty, ")")
	return strings.TrimSpace(pretty)
}

func (l *LoggingQueryTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	l.log(ctx).DebugContext(ctx, "query start",
		slog.String("sql", prettyPrintSQL(data.SQL)),
		slog.Any("args", data.Args),
	)
	return context.WithValue(ctx, startKey{}, time.Now())
}

func (l *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	attrs := []any{slog.String("command_tag", data.CommandTag.String())}
	if start, ok := ctx.Value(startKey{}).(time.Time); ok {
		attrs = append(attrs, slog.Duration("took", time.Since(start)))
	}

	if data.Err != nil {
		l.log(ctx).ErrorContext(ctx, "query end", append(attrs, slog.String("error", data.Err.Error()))...)
		return
	}
	l.log(ctx).InfoContext(ctx, "query end", attrs...)
}
