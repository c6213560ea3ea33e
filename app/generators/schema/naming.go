package schema

import (
	"strings"

	"github.com/go-openapi/inflect"
)

var rules = inflect.NewDefaultRuleset()

// acronyms are rendered fully upper-case in Go identifiers.
var acronyms = map[string]bool{
	"ACL": true, "API": true, "CPU": true, "CSS": true, "DB": true,
	"DNS": true, "HTML": true, "HTTP": true, "ID": true, "IP": true,
	"JSON": true, "SQL": true, "TCP": true, "TTL": true, "UI": true,
	"UID": true, "URI": true, "URL": true, "UUID": true, "XML": true,
}

// Naming holds the identifiers derived from a table name.
type Naming struct {
	Table   string // character_bind
	Entity  string // CharacterBind
	Package string // characterbindrepo
	PKField string // ID
}

// Derive returns the naming for ts.
func Derive(ts *TableSchema) Naming {
	return Naming{
		Table:   ts.Name,
		Entity:  EntityName(ts.Name),
		Package: PackageName(ts.Name),
		PKField: FieldName(ts.PrimaryKey),
	}
}

// EntityName singularizes the last word of a snake_case table name and
// returns it in PascalCase: "api_keys" -> "APIKey".
func EntityName(table string) string {
	words := strings.Split(strings.ToLower(table), "_")
	last := len(words) - 1
	words[last] = rules.Singularize(words[last])
	return pascal(words)
}

// FieldName returns the exported Go field name for a column.
func FieldName(column string) string {
	return pascal(strings.Split(column, "_"))
}

// PackageName returns the package that holds a table's repositories.
func PackageName(table string) string {
	return strings.ToLower(strings.ReplaceAll(table, "_", "")) + "repo"
}

func pascal(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		if upper := strings.ToUpper(w); acronyms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(rules.Capitalize(strings.ToLower(w)))
	}
	return b.String()
}
