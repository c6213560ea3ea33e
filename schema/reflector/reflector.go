// Package reflector reads table metadata from a live database and writes it
// as a ReflectedSchema JSON document for the generator.
package reflector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"
)

// FormatVersion is written into every ReflectedSchema.
const FormatVersion = "1.0"

// Reflector orchestrates schema reflection over a Store.
type Reflector struct {
	store Store
	log   *slog.Logger
}

// NewReflector creates a new Reflector with the given store
func NewReflector(store Store, log *slog.Logger) *Reflector {
	if log == nil {
		log = slog.Default()
	}
	return &Reflector{store: store, log: log}
}

// Reflect returns the metadata of every table in schemaName. Tables without
// a single-column primary key are kept with a nil PrimaryKey and rejected
// later by the generator.
func (r *Reflector) Reflect(ctx context.Context, schemaName string) (*ReflectedSchema, error) {
	schema := &ReflectedSchema{
		Version:     FormatVersion,
		Source:      r.store.GetSourceType(),
		Database:    r.store.GetDatabaseName(),
		SchemaName:  schemaName,
		ReflectedAt: time.Now().UTC(),
		Tables:      make(map[string]*TableInfo),
	}

	tables, err := r.store.GetTables(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("get tables: %w", err)
	}

	for _, tableName := range tables {
		columns, err := r.store.GetColumns(ctx, schemaName, tableName)
		if err != nil {
			return nil, fmt.Errorf("get columns for %s: %w", tableName, err)
		}
		info := &TableInfo{
			TableName: tableName,
			Schema:    schemaName,
			Columns:   columns,
		}

		pk, err := r.store.GetPrimaryKey(ctx, schemaName, tableName, columns)
		if err != nil {
			r.log.WarnContext(ctx, "primary key skipped", slog.String("table", tableName), slog.String("error", err.Error()))
		} else {
			info.PrimaryKey = pk
			for i := range info.Columns {
				info.Columns[i].IsPrimaryKey = info.Columns[i].Name == pk.Column
			}
		}

		comment, err := r.store.GetTableComment(ctx, schemaName, tableName)
		if err != nil {
			return nil, fmt.Errorf("get comment for %s: %w", tableName, err)
		}
		info.Comment = comment

		schema.Tables[tableName] = info
	}

	return schema, nil
}

// TableNames returns the reflected table names sorted alphabetically.
func (s *ReflectedSchema) TableNames() []string {
	return slices.Sorted(maps.Keys(s.Tables))
}

// WriteJSON writes the schema to a JSON file
func WriteJSON(schema *ReflectedSchema, filePath string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return os.WriteFile(filePath, append(data, '\n'), 0o644)
}

// ReadJSON reads a schema written by WriteJSON.
func ReadJSON(filePath string) (*ReflectedSchema, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var schema ReflectedSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", filePath, err)
	}
	if schema.Tables == nil {
		schema.Tables = map[string]*TableInfo{}
	}
	return &schema, nil
}
