package reflector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store for PostgreSQL using pgx.
type PostgresStore struct {
	pool   *pgxpool.Pool
	dbName string
}

// NewPostgresStore creates a new PostgreSQL store from an existing connection pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		dbName: pool.Config().ConnConfig.Database,
	}
}

func (s *PostgresStore) GetDatabaseName() string { return s.dbName }

func (s *PostgresStore) GetSourceType() string { return "postgres" }

func (s *PostgresStore) GetTables(ctx context.Context, schemaName string) ([]string, error) {
	const query = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := s.pool.Query(ctx, query, schemaName)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (s *PostgresStore) GetColumns(ctx context.Context, schemaName, tableName string) ([]ColumnInfo, error) {
	const query = `
		SELECT
			c.column_name,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			pgd.description
		FROM information_schema.columns c
		LEFT JOIN pg_catalog.pg_statio_all_tables pst
			ON c.table_schema = pst.schemaname
			AND c.table_name = pst.relname
		LEFT JOIN pg_catalog.pg_description pgd
			ON pgd.objoid = pst.relid
			AND pgd.objsubid = c.ordinal_position
		WHERE c.table_schema = $1
		  AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var (
			col                     ColumnInfo
			udtName, isNullable     string
			defaultValue, comment   *string
			maxLen, precision, scal *int64
		)
		if err := rows.Scan(&col.Name, &udtName, &isNullable, &defaultValue, &maxLen, &precision, &scal, &comment); err != nil {
			return nil, err
		}

		col.DBType = normalizePostgresType(udtName, maxLen, precision, scal)
		col.Type = SemanticType("postgres", col.DBType)
		col.IsNullable = isNullable == "YES"
		if defaultValue != nil {
			col.HasDefault = true
			col.DefaultValue = cleanDefaultValue(*defaultValue)
		}
		if comment != nil {
			col.Comment = *comment
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (s *PostgresStore) GetPrimaryKey(ctx context.Context, schemaName, tableName string, columns []ColumnInfo) (*PrimaryKeyInfo, error) {
	const query = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = $1
		  AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return singlePrimaryKey(names, columns)
}

func (s *PostgresStore) GetTableComment(ctx context.Context, schemaName, tableName string) (string, error) {
	const query = `
		SELECT pg_catalog.obj_description(c.oid, 'pg_class')
		FROM pg_catalog.pg_class c
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
	`

	var comment *string
	if err := s.pool.QueryRow(ctx, query, schemaName, tableName).Scan(&comment); err != nil {
		return "", err
	}
	if comment != nil {
		return *comment, nil
	}
	return "", nil
}

var (
	errNoPrimaryKey        = errors.New("no primary key found")
	errCompositePrimaryKey = errors.New("composite primary key")
)

// singlePrimaryKey accepts exactly one key column. A composite key cannot
// address a single row by id, so it is reported as an error.
func singlePrimaryKey(names []string, columns []ColumnInfo) (*PrimaryKeyInfo, error) {
	switch len(names) {
	case 0:
		return nil, errNoPrimaryKey
	case 1:
		return primaryKeyFrom(names[0], columns)
	default:
		return nil, fmt.Errorf("%w (%s)", errCompositePrimaryKey, strings.Join(names, ", "))
	}
}

// keyColumns returns the names of the columns flagged as primary key.
func keyColumns(columns []ColumnInfo) []string {
	var names []string
	for _, c := range columns {
		if c.IsPrimaryKey {
			names = append(names, c.Name)
		}
	}
	return names
}

func primaryKeyFrom(columnName string, columns []ColumnInfo) (*PrimaryKeyInfo, error) {
	for _, c := range columns {
		if c.Name == columnName {
			return &PrimaryKeyInfo{
				Column:      c.Name,
				DBType:      c.DBType,
				HasDefault:  c.HasDefault,
				DefaultExpr: c.DefaultValue,
			}, nil
		}
	}
	return nil, fmt.Errorf("primary key column %s not found in columns list", columnName)
}

func normalizePostgresType(udtName string, maxLength, precision, scale *int64) string {
	switch udtName {
	case "varchar":
		if maxLength != nil && *maxLength > 0 {
			return fmt.Sprintf("varchar(%d)", *maxLength)
		}
		return "varchar"
	case "bpchar":
		if maxLength != nil && *maxLength > 0 {
			return fmt.Sprintf("char(%d)", *maxLength)
		}
		return "char"
	case "numeric":
		if precision != nil && scale != nil && *precision > 0 && *scale > 0 {
			return fmt.Sprintf("numeric(%d,%d)", *precision, *scale)
		}
		return "numeric"
	default:
		return udtName
	}
}

var castSuffix = regexp.MustCompile(`::[\w\s]+(\[\])?`)

func cleanDefaultValue(defaultVal string) string {
	defaultVal = castSuffix.ReplaceAllString(defaultVal, "")
	defaultVal = strings.TrimSpace(defaultVal)
	return strings.Trim(defaultVal, "'")
}
