package reflector

import (
	"context"
	"time"
)

// ReflectedSchema is the JSON document written by reflect-schema and read by
// the generator.
type ReflectedSchema struct {
	Version     string                `json:"version"`
	Source      string                `json:"source"` // mysql, postgres, sqlite
	Database    string                `json:"database"`
	SchemaName  string                `json:"schema_name"`
	ReflectedAt time.Time             `json:"reflected_at"`
	Tables      map[string]*TableInfo `json:"tables"`
}

// TableInfo represents a single table's metadata
type TableInfo struct {
	TableName  string          `json:"table_name"`
	Schema     string          `json:"schema"`
	PrimaryKey *PrimaryKeyInfo `json:"primary_key"`
	Columns    []ColumnInfo    `json:"columns"`
	Comment    string          `json:"comment,omitempty"`
}

// ColumnInfo represents a single column's metadata
type ColumnInfo struct {
	Name         string `json:"name"`
	DBType       string `json:"db_type"` // as declared, e.g. "varchar(255)", "int unsigned"
	Type         string `json:"type"`    // semantic type, e.g. "uint32"
	IsNullable   bool   `json:"is_nullable"`
	IsPrimaryKey bool   `json:"is_primary_key"`
	HasDefault   bool   `json:"has_default"`
	DefaultValue string `json:"default_value,omitempty"`
	Comment      string `json:"comment,omitempty"`
}

// PrimaryKeyInfo represents primary key metadata
type PrimaryKeyInfo struct {
	Column      string `json:"column"`
	DBType      string `json:"db_type"`
	HasDefault  bool   `json:"has_default"`
	DefaultExpr string `json:"default_expr,omitempty"`
}

// Store queries one database flavour for table metadata.
type Store interface {
	// GetTables returns all base table names in the schema, sorted.
	GetTables(ctx context.Context, schemaName string) ([]string, error)

	// GetColumns returns column metadata in ordinal order.
	GetColumns(ctx context.Context, schemaName, tableName string) ([]ColumnInfo, error)

	// GetPrimaryKey returns the primary key column. Tables without a key or
	// with a composite key yield an error.
	GetPrimaryKey(ctx context.Context, schemaName, tableName string, columns []ColumnInfo) (*PrimaryKeyInfo, error)

	GetTableComment(ctx context.Context, schemaName, tableName string) (string, error)

	GetDatabaseName() string

	// GetSourceType returns the dialect name.
	GetSourceType() string
}
