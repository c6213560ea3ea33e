package schema

import "slices"

// SemanticType is the column type vocabulary of a Schema Descriptor.
type SemanticType string

const (
	Int8    SemanticType = "int8"
	Int16   SemanticType = "int16"
	Int32   SemanticType = "int32"
	Int64   SemanticType = "int64"
	Uint8   SemanticType = "uint8"
	Uint16  SemanticType = "uint16"
	Uint32  SemanticType = "uint32"
	Uint64  SemanticType = "uint64"
	Float32 SemanticType = "float32"
	Float64 SemanticType = "float64"
	String  SemanticType = "string"
	Bool    SemanticType = "bool"
	Time    SemanticType = "time"
)

var semanticTypes = []SemanticType{
	Int8, Int16, Int32, Int64,
	Uint8, Uint16, Uint32, Uint64,
	Float32, Float64, String, Bool, Time,
}

// SemanticTypes returns every known semantic type.
func SemanticTypes() []SemanticType {
	return slices.Clone(semanticTypes)
}

// Valid reports whether t is a known semantic type.
func (t SemanticType) Valid() bool {
	return slices.Contains(semanticTypes, t)
}

// IsInteger reports whether t is stored as an integer field.
func (t SemanticType) IsInteger() bool {
	switch t {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// IsUnsigned reports whether t is an unsigned integer.
func (t SemanticType) IsUnsigned() bool {
	switch t {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// GoType returns the entity field type for t. Booleans are narrow integers
// and times are Unix seconds.
func (t SemanticType) GoType() string {
	switch t {
	case Bool:
		return "uint8"
	case Time:
		return "int64"
	}
	return string(t)
}

// Column is one column of a Schema Descriptor. Order within a table is
// significant.
type Column struct {
	Name     string       `yaml:"name" json:"name"`
	Type     SemanticType `yaml:"type" json:"type"`
	Nullable bool         `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	DBType   string       `yaml:"db_type,omitempty" json:"db_type,omitempty"`
	Comment  string       `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// TableSchema is the Schema Descriptor for one table.
type TableSchema struct {
	Name       string   `yaml:"name" json:"name"`
	Comment    string   `yaml:"comment,omitempty" json:"comment,omitempty"`
	PrimaryKey string   `yaml:"primary_key" json:"primary_key"`
	Columns    []Column `yaml:"columns" json:"columns"`
}

// Column returns the column called name.
func (ts *TableSchema) Column(name string) (Column, bool) {
	for _, c := range ts.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order.
func (ts *TableSchema) ColumnNames() []string {
	names := make([]string, len(ts.Columns))
	for i, c := range ts.Columns {
		names[i] = c.Name
	}
	return names
}
