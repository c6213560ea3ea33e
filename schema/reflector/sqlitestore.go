package reflector

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/jrazmi/repogen/core/scaffolding/dialect"
)

// SQLiteStore implements Store for SQLite. Schema names are ignored; SQLite
// has no comments, so table comments are always empty.
type SQLiteStore struct {
	db     *sqlx.DB
	dbName string
}

func NewSQLiteStore(db *sqlx.DB, dbName string) *SQLiteStore {
	return &SQLiteStore{db: db, dbName: dbName}
}

func (s *SQLiteStore) GetDatabaseName() string { return s.dbName }

func (s *SQLiteStore) GetSourceType() string { return "sqlite" }

func (s *SQLiteStore) GetTables(ctx context.Context, _ string) ([]string, error) {
	var tables []string
	err := s.db.SelectContext(ctx, &tables, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	return tables, err
}

type pragmaColumn struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func (s *SQLiteStore) GetColumns(ctx context.Context, _ string, tableName string) ([]ColumnInfo, error) {
	var rows []pragmaColumn
	q := "PRAGMA table_info(" + dialect.MustLookup(dialect.SQLite).Quote(tableName) + ")"
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		col := ColumnInfo{
			Name: r.Name,
			// Key columns are never read back as NULL.
			IsNullable:   r.NotNull == 0 && r.PK == 0,
			DBType:       r.Type,
			Type:         SemanticType("sqlite", r.Type),
			IsPrimaryKey: r.PK > 0,
			HasDefault:   r.Default.Valid,
			DefaultValue: r.Default.String,
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func (s *SQLiteStore) GetPrimaryKey(_ context.Context, _, _ string, columns []ColumnInfo) (*PrimaryKeyInfo, error) {
	pk, err := singlePrimaryKey(keyColumns(columns), columns)
	if err != nil {
		return nil, err
	}
	if SemanticType("sqlite", pk.DBType) == "int64" {
		pk.HasDefault = true
		pk.DefaultExpr = "rowid"
	}
	return pk, nil
}

func (s *SQLiteStore) GetTableComment(context.Context, string, string) (string, error) {
	return "", nil
}
