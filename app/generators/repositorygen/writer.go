package repositorygen

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jrazmi/repogen/app/generators/schema"
	"github.com/jrazmi/repogen/sdk/logger"
	"github.com/jrazmi/repogen/sdk/telemetry"
)

// Generator writes repository packages for a batch of tables.
type Generator struct {
	cfg Config
	log *logger.Logger
}

// New returns a Generator. A nil log discards output.
func New(cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.NewDefault(logger.WithOutput(io.Discard))
	}
	return &Generator{cfg: cfg, log: log}
}

// Run generates every table, at most Config.Workers at a time. A table that
// fails is reported in its Result and does not stop the others. Results are
// sorted by table name; the returned error joins every per-table failure.
func (g *Generator) Run(ctx context.Context, tables []*schema.TableSchema) ([]Result, error) {
	ctx = telemetry.EnsureTraceID(ctx)
	log := g.log.With("run_id", telemetry.GetTraceID(ctx))
	start := time.Now()
	log.InfoContext(ctx, "generate started",
		"tables", len(tables),
		"dialect", g.cfg.Dialect,
		"output", g.cfg.Output,
	)

	results := make([]Result, len(tables))
	owners := make(map[string]string, len(tables))

	var eg errgroup.Group
	eg.SetLimit(g.cfg.workers())
	for i, ts := range tables {
		pkg := schema.PackageName(ts.Name)
		if other, ok := owners[pkg]; ok {
			results[i] = Result{
				Table:   ts.Name,
				Package: pkg,
				Err:     fmt.Errorf("table %s: package %s is already generated for table %s", ts.Name, pkg, other),
			}
			continue
		}
		owners[pkg] = ts.Name

		eg.Go(func() error {
			results[i] = g.write(ctx, ts)
			return nil
		})
	}
	_ = eg.Wait()

	slices.SortStableFunc(results, func(a, b Result) int { return cmp.Compare(a.Table, b.Table) })

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			log.ErrorContext(ctx, "table skipped", "table", r.Table, "err", r.Err)
			errs = append(errs, r.Err)
			continue
		}
		log.InfoContext(ctx, "table generated",
			"table", r.Table,
			"package", r.Package,
			"base_changed", r.BaseChanged,
			"scaffold_created", r.ScaffoldCreated,
		)
	}

	log.InfoContext(ctx, "generate completed",
		"tables", len(results),
		"failed", len(errs),
		"duration", time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}

func (g *Generator) write(ctx context.Context, ts *schema.TableSchema) Result {
	res := Result{Table: ts.Name, Package: schema.PackageName(ts.Name)}
	if res.Err = ctx.Err(); res.Err != nil {
		return res
	}

	base, err := Generate(ts, g.cfg)
	if err != nil {
		res.Err = err
		return res
	}
	res.BaseFile = base.Path()
	res.ScaffoldFile = filepath.Join(base.Dir, ScaffoldFile)

	if err := os.MkdirAll(base.Dir, 0o755); err != nil {
		res.Err = fmt.Errorf("create directory: %w", err)
		return res
	}

	if res.BaseChanged, err = writeIfChanged(base, g.cfg.Force); err != nil {
		res.Err = err
		return res
	}

	if fileExists(res.ScaffoldFile) {
		return res
	}
	scaffold, err := Scaffold(ts, g.cfg)
	if err != nil {
		res.Err = err
		return res
	}
	if res.ScaffoldCreated, err = writeNew(scaffold); err != nil {
		res.Err = err
	}
	return res
}

// writeIfChanged writes u unless the file already holds the same bytes.
func writeIfChanged(u SourceUnit, force bool) (bool, error) {
	current, err := os.ReadFile(u.Path())
	switch {
	case err == nil && !force && bytes.Equal(current, u.Source):
		return false, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("read %s: %w", u.Path(), err)
	}
	if err := os.WriteFile(u.Path(), u.Source, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", u.Path(), err)
	}
	return true, nil
}

// writeNew writes u only if the file does not exist.
func writeNew(u SourceUnit) (bool, error) {
	f, err := os.OpenFile(u.Path(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", u.Path(), err)
	}
	if _, err := f.Write(u.Source); err != nil {
		f.Close()
		return false, fmt.Errorf("write %s: %w", u.Path(), err)
	}
	return true, f.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
