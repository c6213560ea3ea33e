package baserepo

import (
	"math"
	"strconv"
	"strings"
)

// Row is one raw result row: a textual cell per column position, nil for NULL.
type Row []*string

// Cell returns the cell at position i, or nil when the row is shorter.
func (r Row) Cell(i int) *string {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Text builds a Row from plain strings. Mostly useful in tests and fakes.
func Text(cells ...string) Row {
	row := make(Row, len(cells))
	for i := range cells {
		row[i] = &cells[i]
	}
	return row
}

// Signed is the set of signed integer field types.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int
}

// Unsigned is the set of unsigned integer field types.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Floating is the set of floating point field types.
type Floating interface {
	~float32 | ~float64
}

// Int parses a cell into a signed integer field. NULL and unparsable text
// yield 0; narrowing wraps.
func Int[T Signed](cell *string) T {
	n, ok := parseInt(cell)
	if !ok {
		return 0
	}
	return T(n)
}

// Uint parses a cell into an unsigned integer field. NULL, negative and
// unparsable text yield 0; narrowing wraps.
func Uint[T Unsigned](cell *string) T {
	if cell == nil {
		return 0
	}
	s := strings.TrimSpace(*cell)
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return T(u)
	}
	n, ok := parseInt(cell)
	if !ok || n < 0 {
		return 0
	}
	return T(n)
}

// Float parses a cell into a floating point field. NULL and unparsable text yield 0.
func Float[T Floating](cell *string) T {
	if cell == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*cell), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return T(f)
}

// String returns the cell text, or "" for NULL.
func String(cell *string) string {
	if cell == nil {
		return ""
	}
	return *cell
}

// Bool parses a cell into the narrow integer used for boolean columns. The
// stored value is kept as is, so a tinyint holding 2 reads back as 2.
func Bool(cell *string) uint8 {
	return Uint[uint8](cell)
}

// NullableUnix returns nil for a zero Unix timestamp so nullable time
// columns are written as NULL.
func NullableUnix(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func parseInt(cell *string) (int64, bool) {
	if cell == nil {
		return 0, false
	}
	s := strings.TrimSpace(*cell)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	switch strings.ToLower(s) {
	case "true", "t":
		return 1, true
	case "false", "f":
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
