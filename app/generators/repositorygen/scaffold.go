package repositorygen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jrazmi/repogen/app/generators/schema"
)

// scaffoldTemplate renders repository.go. It is written only when the file is
// missing; after that it belongs to the user.
var scaffoldTemplate = template.Must(template.New("repository").Parse(`// This file is only generated if it doesn't already exist.
// Once created, you can customize this file freely - it will NOT be overwritten.

package {{.Package}}

// Repository provides access to {{.Table}}. It embeds BaseRepository for the
// generated operations; add queries the base operations do not cover below.
//
// For example:
//
//	func (r Repository) FindBy{{.Field}}(ctx context.Context, db baserepo.Engine, v {{.FieldType}}) ([]{{.Entity}}, error) {
//		return r.GetWhere(ctx, db, baserepo.Unchecked("{{.Column}} = ?", v))
//	}
type Repository struct {
	BaseRepository
}

// NewRepository returns a {{.Entity}} repository.
func NewRepository() Repository {
	return Repository{}
}
`))

type scaffoldData struct {
	Package   string
	Table     string
	Entity    string
	Column    string
	Field     string
	FieldType string
}

// Scaffold renders repository.go for ts.
func Scaffold(ts *schema.TableSchema, cfg Config) (SourceUnit, error) {
	if err := validate(ts); err != nil {
		return SourceUnit{}, err
	}

	unit := newUnit(ts, cfg, ScaffoldFile)
	naming := schema.Derive(ts)

	// The example query uses the first non-key column when there is one.
	example := ts.Columns[0]
	for _, c := range ts.Columns {
		if c.Name != ts.PrimaryKey {
			example = c
			break
		}
	}

	var buf bytes.Buffer
	err := scaffoldTemplate.Execute(&buf, scaffoldData{
		Package:   unit.Package,
		Table:     ts.Name,
		Entity:    naming.Entity,
		Column:    example.Name,
		Field:     schema.FieldName(example.Name),
		FieldType: example.Type.GoType(),
	})
	if err != nil {
		return SourceUnit{}, fmt.Errorf("execute template: %w", err)
	}

	if unit.Source, err = format(unit.Path(), buf.Bytes()); err != nil {
		return SourceUnit{}, err
	}
	return unit, nil
}
