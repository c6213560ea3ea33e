package baserepo

import (
	"fmt"
	"strings"

	"github.com/jrazmi/repogen/core/scaffolding/dialect"
)

// ColumnSpec is the part of a column definition that shapes SQL text.
type ColumnSpec struct {
	Name string
	// Time columns are read and written as Unix seconds through the
	// dialect's conversion expressions.
	Time bool
}

// TableSpec is the part of a table definition that shapes SQL text.
type TableSpec struct {
	Table      string
	PrimaryKey string
	Columns    []ColumnSpec
}

// Statements is the call-time-invariant SQL for one table. The generator
// fills it at generation time; fields are already rebound for the dialect
// except InsertPrefix*, Tuple* and Returning, which are assembled per call by
// InsertMany.
type Statements struct {
	Dialect string

	Select    string
	FindOne   string
	Update    string
	DeleteOne string
	Delete    string
	Truncate  string
	Count     string
	MaxID     string

	InsertOne     string
	InsertOneAuto string

	InsertPrefix     string
	InsertPrefixAuto string
	Tuple            string
	TupleAuto        string
	Returning        string
}

// SelectExprs returns the SELECT list expressions for spec in column order.
func SelectExprs(d dialect.Dialect, spec TableSpec) []string {
	exprs := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		if c.Time {
			exprs[i] = d.SelectTime(c.Name)
			continue
		}
		exprs[i] = d.Quote(c.Name)
	}
	return exprs
}

// BuildStatements synthesizes every statement a base repository runs for spec.
func BuildStatements(d dialect.Dialect, spec TableSpec) (Statements, error) {
	if len(spec.Columns) == 0 {
		return Statements{}, fmt.Errorf("table %s: no columns", spec.Table)
	}
	pkIndex := -1
	for i, c := range spec.Columns {
		if c.Name == spec.PrimaryKey {
			pkIndex = i
		}
	}
	if pkIndex < 0 {
		return Statements{}, fmt.Errorf("table %s: primary key %q is not a column", spec.Table, spec.PrimaryKey)
	}

	table := d.Quote(spec.Table)
	pk := d.Quote(spec.PrimaryKey)

	var (
		all, auto        []string
		tuple, tupleAuto []string
		sets             []string
	)
	for i, c := range spec.Columns {
		bind := "?"
		if c.Time {
			bind = d.WriteTime()
		}
		all = append(all, d.Quote(c.Name))
		tuple = append(tuple, bind)
		if i == pkIndex {
			continue
		}
		auto = append(auto, d.Quote(c.Name))
		tupleAuto = append(tupleAuto, bind)
		sets = append(sets, d.Quote(c.Name)+" = "+bind)
	}

	st := Statements{Dialect: d.Name()}
	st.Select = fmt.Sprintf("SELECT %s FROM %s", strings.Join(SelectExprs(d, spec), ", "), table)
	st.FindOne = d.Rebind(fmt.Sprintf("%s WHERE %s = ? LIMIT 1", st.Select, pk))
	if len(sets) > 0 {
		st.Update = d.Rebind(fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(sets, ", "), pk))
	}
	st.DeleteOne = d.Rebind(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, pk))
	st.Delete = "DELETE FROM " + table
	st.Truncate = d.Truncate(spec.Table)
	st.Count = "SELECT COUNT(*) FROM " + table
	st.MaxID = fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", pk, table)

	if d.Returning() {
		st.Returning = " RETURNING " + pk
	}
	st.InsertPrefix = fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(all, ", "))
	st.Tuple = "(" + strings.Join(tuple, ", ") + ")"
	st.InsertOne = d.Rebind(st.InsertPrefix + st.Tuple + st.Returning)

	if len(auto) > 0 {
		st.InsertPrefixAuto = fmt.Sprintf("INSERT INTO %s (%s) VALUES ", table, strings.Join(auto, ", "))
		st.TupleAuto = "(" + strings.Join(tupleAuto, ", ") + ")"
		st.InsertOneAuto = d.Rebind(st.InsertPrefixAuto + st.TupleAuto + st.Returning)
	} else if d.Name() == dialect.MySQL {
		st.InsertOneAuto = fmt.Sprintf("INSERT INTO %s () VALUES ()", table)
	} else {
		st.InsertOneAuto = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES%s", table, st.Returning)
	}

	return st, nil
}
