package reflector

import (
	"regexp"
	"strings"
)

var typeParams = regexp.MustCompile(`\(.*?\)`)

// SemanticType maps a declared column type onto the generator's semantic
// types. Unknown types map to "string".
func SemanticType(source, dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	unsigned := strings.Contains(t, "unsigned")

	if source == "mysql" && strings.HasPrefix(t, "tinyint(1)") {
		return "bool"
	}

	base := strings.TrimSpace(typeParams.ReplaceAllString(t, ""))
	base = strings.TrimSpace(strings.NewReplacer("unsigned", "", "zerofill", "").Replace(base))

	if source == "sqlite" {
		return sqliteAffinity(base)
	}

	switch base {
	case "bool", "boolean", "bit":
		return "bool"
	case "tinyint":
		return signed("int8", unsigned)
	case "smallint", "int2", "smallserial", "serial2", "year":
		return signed("int16", unsigned)
	case "mediumint", "int", "integer", "int4", "serial", "serial4":
		return signed("int32", unsigned)
	case "bigint", "int8", "bigserial", "serial8":
		return signed("int64", unsigned)
	case "real", "float", "float4":
		return "float32"
	case "double", "double precision", "float8", "numeric", "decimal", "money":
		return "float64"
	case "date", "datetime", "timestamp", "timestamptz",
		"timestamp with time zone", "timestamp without time zone":
		return "time"
	}
	return "string"
}

func signed(name string, unsigned bool) string {
	if unsigned {
		return "u" + name
	}
	return name
}

// sqliteAffinity follows SQLite's declared-type affinity rules, with
// booleans and dates split out.
func sqliteAffinity(base string) string {
	switch {
	case strings.Contains(base, "bool"):
		return "bool"
	case strings.Contains(base, "int"):
		return "int64"
	case strings.Contains(base, "char"), strings.Contains(base, "clob"), strings.Contains(base, "text"):
		return "string"
	case strings.Contains(base, "real"), strings.Contains(base, "floa"), strings.Contains(base, "doub"),
		strings.Contains(base, "numeric"), strings.Contains(base, "decimal"):
		return "float64"
	case strings.Contains(base, "date"), strings.Contains(base, "time"):
		return "time"
	}
	return "string"
}
