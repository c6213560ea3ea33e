package schema

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jrazmi/repogen/schema/reflector"
)

// File is the hand-written descriptor format:
//
//	tables:
//	  - name: character_bind
//	    primary_key: id
//	    columns:
//	      - {name: id, type: uint32}
//	      - {name: zone_id, type: uint16}
type File struct {
	Tables []TableSchema `yaml:"tables"`
}

// Load reads every table from a descriptor file. ".json" files are read as
// reflected schemas; ".yaml" and ".yml" as File. Tables come back sorted by
// name and are not validated.
func Load(path string) ([]*TableSchema, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		reflected, err := reflector.ReadJSON(path)
		if err != nil {
			return nil, err
		}
		return FromReflected(reflected), nil
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported descriptor file %s: want .json, .yaml or .yml", path)
	}
}

// LoadTable returns the table called name from a descriptor file.
func LoadTable(path, name string) (*TableSchema, error) {
	tables, err := Load(path)
	if err != nil {
		return nil, err
	}
	for _, ts := range tables {
		if ts.Name == name {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("table %s not found in %s (available tables: %v)", name, path, tableNames(tables))
}

// ListTables returns the sorted table names in a descriptor file.
func ListTables(path string) ([]string, error) {
	tables, err := Load(path)
	if err != nil {
		return nil, err
	}
	return tableNames(tables), nil
}

// FromReflected converts a reflected schema into descriptors.
func FromReflected(rs *reflector.ReflectedSchema) []*TableSchema {
	tables := make([]*TableSchema, 0, len(rs.Tables))
	for _, name := range rs.TableNames() {
		info := rs.Tables[name]
		ts := &TableSchema{
			Name:    info.TableName,
			Comment: info.Comment,
			Columns: make([]Column, len(info.Columns)),
		}
		if info.PrimaryKey != nil {
			ts.PrimaryKey = info.PrimaryKey.Column
		}
		for i, c := range info.Columns {
			ts.Columns[i] = Column{
				Name:     c.Name,
				Type:     SemanticType(c.Type),
				Nullable: c.IsNullable,
				DBType:   c.DBType,
				Comment:  c.Comment,
			}
		}
		tables = append(tables, ts)
	}
	return tables
}

func loadYAML(path string) ([]*TableSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}

	tables := make([]*TableSchema, len(f.Tables))
	for i := range f.Tables {
		tables[i] = &f.Tables[i]
	}
	slices.SortStableFunc(tables, func(a, b *TableSchema) int { return cmp.Compare(a.Name, b.Name) })
	return tables, nil
}

func tableNames(tables []*TableSchema) []string {
	names := make([]string, len(tables))
	for i, ts := range tables {
		names[i] = ts.Name
	}
	return names
}
