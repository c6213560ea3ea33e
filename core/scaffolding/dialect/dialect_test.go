package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mysql", MySQL},
		{"MySQL", MySQL},
		{"mariadb", MySQL},
		{"postgres", Postgres},
		{"pgx", Postgres},
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := Lookup("oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql, postgres, sqlite")
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "`zone_id`", MustLookup(MySQL).Quote("zone_id"))
	assert.Equal(t, "`we``ird`", MustLookup(MySQL).Quote("we`ird"))
	assert.Equal(t, `"zone_id"`, MustLookup(Postgres).Quote("zone_id"))
	assert.Equal(t, `"public"."tasks"`, MustLookup(Postgres).Quote("public.tasks"))
	assert.Equal(t, `"zone_id"`, MustLookup(SQLite).Quote("zone_id"))
}

func TestRebind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", MustLookup(Postgres).Rebind(q))
	assert.Equal(t, q, MustLookup(MySQL).Rebind(q))
	assert.Equal(t, q, MustLookup(SQLite).Rebind(q))
}

func TestTimeExpressions(t *testing.T) {
	assert.Equal(t, "UNIX_TIMESTAMP(`created`)", MustLookup(MySQL).SelectTime("created"))
	assert.Equal(t, `CAST(EXTRACT(EPOCH FROM CAST("created" AS timestamptz)) AS BIGINT)`, MustLookup(Postgres).SelectTime("created"))
	assert.Equal(t, `CAST(strftime('%s', "created") AS INTEGER)`, MustLookup(SQLite).SelectTime("created"))

	assert.Equal(t, "FROM_UNIXTIME(?)", MustLookup(MySQL).WriteTime())
	assert.Equal(t, "to_timestamp(?)", MustLookup(Postgres).WriteTime())
	assert.Equal(t, "datetime(?, 'unixepoch')", MustLookup(SQLite).WriteTime())
}

func TestTruncateAndReturning(t *testing.T) {
	assert.Equal(t, "TRUNCATE TABLE `t`", MustLookup(MySQL).Truncate("t"))
	assert.Equal(t, `DELETE FROM "t"`, MustLookup(SQLite).Truncate("t"))
	assert.True(t, MustLookup(Postgres).Returning())
	assert.False(t, MustLookup(MySQL).Returning())
}
