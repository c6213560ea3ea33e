package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jrazmi/repogen/app/generators/schema"
)

type tableSummary struct {
	Table      string   `json:"table"`
	Entity     string   `json:"entity"`
	Package    string   `json:"package"`
	PrimaryKey string   `json:"primary_key"`
	Columns    int      `json:"columns"`
	Problems   []string `json:"problems,omitempty"`
}

// Tables prints every table of a descriptor as JSON, including any
// validation problems that would make generate skip it.
func Tables(_ context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("tables", flag.ContinueOnError)
	schemaFile := fs.String("schema", "", "Path to a reflected JSON or YAML schema descriptor (required)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}
	if *schemaFile == "" {
		return errors.New("-schema is required")
	}

	tables, err := schema.Load(*schemaFile)
	if err != nil {
		return err
	}

	summaries := make([]tableSummary, len(tables))
	for i, ts := range tables {
		naming := schema.Derive(ts)
		summaries[i] = tableSummary{
			Table:      ts.Name,
			Entity:     naming.Entity,
			Package:    naming.Package,
			PrimaryKey: ts.PrimaryKey,
			Columns:    len(ts.Columns),
		}
		var se *schema.SchemaError
		if errors.As(schema.Validate(ts), &se) {
			summaries[i].Problems = se.Problems
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}
