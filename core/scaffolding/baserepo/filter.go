package baserepo

import "strings"

// Filter is a raw SQL predicate appended verbatim after WHERE.
//
// Nothing in this package validates or escapes the expression. Build filters
// from trusted text only and pass values through Args, which are bound as
// statement parameters.
type Filter struct {
	Expr string
	Args []any
}

// Unchecked wraps a caller-supplied predicate. Placeholders are written as `?`
// and rebound for the target dialect when args are present.
func Unchecked(expr string, args ...any) Filter {
	return Filter{Expr: expr, Args: args}
}

// IsEmpty reports whether the filter has no expression.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Expr) == ""
}

// and combines non-empty filters into one conjunction.
func and(filters []Filter) Filter {
	var (
		exprs []string
		args  []any
	)
	for _, f := range filters {
		if f.IsEmpty() {
			continue
		}
		exprs = append(exprs, f.Expr)
		args = append(args, f.Args...)
	}
	switch len(exprs) {
	case 0:
		return Filter{}
	case 1:
		return Filter{Expr: exprs[0], Args: args}
	}
	return Filter{Expr: "(" + strings.Join(exprs, ") AND (") + ")", Args: args}
}
