package schema

import (
	"errors"
	"fmt"
	"go/token"
	"regexp"
	"strings"
)

// SchemaError reports every problem found in one table's descriptor.
type SchemaError struct {
	Table    string
	Problems []string
}

func (e *SchemaError) Error() string {
	table := e.Table
	if table == "" {
		table = "<unnamed>"
	}
	return fmt.Sprintf("schema %s: %s", table, strings.Join(e.Problems, "; "))
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks ts and returns a *SchemaError listing every problem, or nil.
func Validate(ts *TableSchema) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if ts.Name == "" {
		add("table name is required")
	} else if !identifier.MatchString(ts.Name) {
		add("table name %q is not a valid identifier", ts.Name)
	} else {
		if e := EntityName(ts.Name); !token.IsIdentifier(e) {
			add("table %q does not produce a Go type name (got %q)", ts.Name, e)
		}
		if p := PackageName(ts.Name); !token.IsIdentifier(p) {
			add("table %q does not produce a Go package name (got %q)", ts.Name, p)
		}
	}

	if len(ts.Columns) == 0 {
		add("table must have at least one column")
	}

	seen := make(map[string]bool, len(ts.Columns))
	fields := make(map[string]string, len(ts.Columns))
	for i, c := range ts.Columns {
		switch {
		case c.Name == "":
			add("column %d has no name", i)
			continue
		case !identifier.MatchString(c.Name):
			add("column %q is not a valid identifier", c.Name)
		}
		if seen[c.Name] {
			add("duplicate column %q", c.Name)
		}
		seen[c.Name] = true

		if !c.Type.Valid() {
			add("column %q has unknown type %q", c.Name, c.Type)
		}

		f := FieldName(c.Name)
		if !token.IsIdentifier(f) {
			add("column %q does not produce a Go field name (got %q)", c.Name, f)
		}
		if other, ok := fields[f]; ok && other != c.Name {
			add("columns %q and %q both map to field %s", other, c.Name, f)
		}
		fields[f] = c.Name
	}

	switch pk, ok := ts.Column(ts.PrimaryKey); {
	case ts.PrimaryKey == "":
		add("table must have a primary key")
	case !ok:
		add("primary key %q is not a column", ts.PrimaryKey)
	case !pk.Type.IsInteger():
		add("primary key %q must have an integer type, got %q", pk.Name, pk.Type)
	}

	if len(problems) == 0 {
		return nil
	}
	return &SchemaError{Table: ts.Name, Problems: problems}
}
