package reflector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// MySQLStore implements Store for MySQL and MariaDB. The schema name is the
// database name.
type MySQLStore struct {
	db     *sqlx.DB
	dbName string
}

// NewMySQLStore takes the DSN the handle was opened with so the database
// name can be used as the default schema.
func NewMySQLStore(db *sqlx.DB, dsn string) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	return &MySQLStore{db: db, dbName: cfg.DBName}, nil
}

func (s *MySQLStore) GetDatabaseName() string { return s.dbName }

func (s *MySQLStore) GetSourceType() string { return "mysql" }

func (s *MySQLStore) schema(name string) string {
	if name == "" {
		return s.dbName
	}
	return name
}

func (s *MySQLStore) GetTables(ctx context.Context, schemaName string) ([]string, error) {
	var tables []string
	err := s.db.SelectContext(ctx, &tables, `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`, s.schema(schemaName))
	return tables, err
}

type mysqlColumn struct {
	Name     string         `db:"COLUMN_NAME"`
	Type     string         `db:"COLUMN_TYPE"`
	Nullable string         `db:"IS_NULLABLE"`
	Default  sql.NullString `db:"COLUMN_DEFAULT"`
	Key      string         `db:"COLUMN_KEY"`
	Extra    string         `db:"EXTRA"`
	Comment  string         `db:"COLUMN_COMMENT"`
}

func (s *MySQLStore) GetColumns(ctx context.Context, schemaName, tableName string) ([]ColumnInfo, error) {
	var rows []mysqlColumn
	err := s.db.SelectContext(ctx, &rows, `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY, EXTRA, COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`, s.schema(schemaName), tableName)
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		col := ColumnInfo{
			Name:         r.Name,
			DBType:       r.Type,
			Type:         SemanticType("mysql", r.Type),
			IsNullable:   r.Nullable == "YES",
			IsPrimaryKey: r.Key == "PRI",
			Comment:      r.Comment,
		}
		switch {
		case r.Default.Valid:
			col.HasDefault = true
			col.DefaultValue = r.Default.String
		case r.Extra == "auto_increment":
			col.HasDefault = true
			col.DefaultValue = r.Extra
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func (s *MySQLStore) GetPrimaryKey(_ context.Context, _, _ string, columns []ColumnInfo) (*PrimaryKeyInfo, error) {
	return singlePrimaryKey(keyColumns(columns), columns)
}

func (s *MySQLStore) GetTableComment(ctx context.Context, schemaName, tableName string) (string, error) {
	var comment sql.NullString
	err := s.db.GetContext(ctx, &comment, `
		SELECT TABLE_COMMENT
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`, s.schema(schemaName), tableName)
	if err != nil {
		return "", err
	}
	return comment.String, nil
}
