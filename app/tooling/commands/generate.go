package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/jrazmi/repogen/app/generators/repositorygen"
	"github.com/jrazmi/repogen/app/generators/schema"
	"github.com/jrazmi/repogen/core/scaffolding/dialect"
	"github.com/jrazmi/repogen/sdk/environment"
	"github.com/jrazmi/repogen/sdk/logger"
)

// GenerateOptions are the environment defaults for the generate flags.
type GenerateOptions struct {
	Output  string `env:"GEN_OUTPUT" default:"core/repositories"`
	Dialect string `env:"GEN_DIALECT" default:"mysql"`
	Workers int    `env:"GEN_WORKERS" default:"0"`
}

// Generate writes base repositories for one or every table in a descriptor.
func Generate(ctx context.Context, log *logger.Logger, args []string) error {
	var defaults GenerateOptions
	if err := environment.ParseEnvTags(environment.Prefix, &defaults); err != nil {
		return fmt.Errorf("parsing generate config: %w", err)
	}

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	schemaFile := fs.String("schema", "", "Path to a reflected JSON or YAML schema descriptor (required)")
	table := fs.String("table", "", "Table to generate (required unless -all)")
	all := fs.Bool("all", false, "Generate every table in the descriptor")
	output := fs.String("output", defaults.Output, "Directory that receives one package per table")
	module := fs.String("module", "", "Go module path (detected from go.mod when empty)")
	dialectName := fs.String("dialect", defaults.Dialect, "SQL dialect: mysql, postgres or sqlite")
	workers := fs.Int("workers", defaults.Workers, "Tables generated in parallel (0 uses GOMAXPROCS)")
	force := fs.Bool("force", false, "Rewrite base_gen.go even when unchanged")
	watch := fs.Bool("watch", false, "Regenerate whenever the descriptor changes")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	switch {
	case *schemaFile == "":
		return errors.New("-schema is required")
	case *table == "" && !*all:
		return errors.New("-table is required (or use -all to generate every table)")
	case *table != "" && *all:
		return errors.New("-table and -all are mutually exclusive")
	}
	if _, err := dialect.Lookup(*dialectName); err != nil {
		return err
	}

	if *module == "" {
		m, err := detectModule()
		if err != nil {
			return fmt.Errorf("detect module (use -module): %w", err)
		}
		*module = m
	}

	g := repositorygen.New(repositorygen.Config{
		Module:  *module,
		Output:  *output,
		Dialect: *dialectName,
		Workers: *workers,
		Force:   *force,
	}, log)

	load := func(path string) ([]*schema.TableSchema, error) {
		if *all {
			return schema.Load(path)
		}
		ts, err := schema.LoadTable(path, *table)
		if err != nil {
			return nil, err
		}
		return []*schema.TableSchema{ts}, nil
	}

	if *watch {
		return g.Watch(ctx, *schemaFile, load)
	}

	tables, err := load(*schemaFile)
	if err != nil {
		return err
	}
	_, err = g.Run(ctx, tables)
	return err
}

// detectModule reads the module path from the nearest go.mod at or above the
// working directory.
func detectModule() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			if m := modfile.ModulePath(data); m != "" {
				return m, nil
			}
			return "", fmt.Errorf("%s has no module directive", filepath.Join(dir, "go.mod"))
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}
