// Package dialect holds the per-database rules used when synthesizing SQL:
// identifier quoting, placeholder binding, time conversions and the few
// statements whose form differs between engines.
package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Supported dialect names.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Dialect describes how a single database flavour spells the statements a
// base repository needs.
type Dialect struct {
	name string
}

var registry = map[string]Dialect{
	MySQL:    {name: MySQL},
	Postgres: {name: Postgres},
	SQLite:   {name: SQLite},
}

// aliases maps driver names onto dialects.
var aliases = map[string]string{
	"pgx":     Postgres,
	"pq":      Postgres,
	"sqlite3": SQLite,
	"mariadb": MySQL,
}

// Lookup returns the dialect registered under name or one of its driver aliases.
func Lookup(name string) (Dialect, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[n]; ok {
		n = alias
	}
	d, ok := registry[n]
	if !ok {
		return Dialect{}, fmt.Errorf("unknown dialect %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// MustLookup is like Lookup but panics on an unknown name.
func MustLookup(name string) Dialect {
	d, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Names returns the supported dialect names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the dialect name.
func (d Dialect) Name() string {
	return d.name
}

// Quote quotes a single identifier. A dotted name is quoted segment by segment.
func (d Dialect) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		switch d.name {
		case MySQL:
			parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
		case Postgres:
			parts[i] = pq.QuoteIdentifier(p)
		default:
			parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Rebind rewrites the `?` placeholders of query into the dialect's bind style.
func (d Dialect) Rebind(query string) string {
	if d.name == Postgres {
		return sqlx.Rebind(sqlx.DOLLAR, query)
	}
	return sqlx.Rebind(sqlx.QUESTION, query)
}

// SelectTime returns the SELECT expression that reads a time column as Unix seconds.
func (d Dialect) SelectTime(column string) string {
	q := d.Quote(column)
	switch d.name {
	case MySQL:
		return fmt.Sprintf("UNIX_TIMESTAMP(%s)", q)
	case Postgres:
		// Read through timestamptz so plain timestamp columns invert to_timestamp
		// in any session time zone.
		return fmt.Sprintf("CAST(EXTRACT(EPOCH FROM CAST(%s AS timestamptz)) AS BIGINT)", q)
	default:
		return fmt.Sprintf("CAST(strftime('%%s', %s) AS INTEGER)", q)
	}
}

// WriteTime returns the placeholder expression that stores Unix seconds into a time column.
func (d Dialect) WriteTime() string {
	switch d.name {
	case MySQL:
		return "FROM_UNIXTIME(?)"
	case Postgres:
		return "to_timestamp(?)"
	default:
		return "datetime(?, 'unixepoch')"
	}
}

// Truncate returns the statement that empties table.
func (d Dialect) Truncate(table string) string {
	if d.name == SQLite {
		return "DELETE FROM " + d.Quote(table)
	}
	return "TRUNCATE TABLE " + d.Quote(table)
}

// Returning reports whether generated ids are read back with RETURNING
// instead of the driver's last-insert-id.
func (d Dialect) Returning() bool {
	return d.name == Postgres
}
