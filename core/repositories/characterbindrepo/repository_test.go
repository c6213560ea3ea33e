package characterbindrepo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/repogen/core/repositories/characterbindrepo"
	"github.com/jrazmi/repogen/infrastructure/sqldb"
)

func openDB(t *testing.T) *sqldb.Engine {
	t.Helper()
	db, err := sqldb.NewTestDB("sqlite", filepath.Join(t.TempDir(), "binds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.DB().Exec(`CREATE TABLE character_bind (
		id INTEGER PRIMARY KEY,
		is_home INTEGER NOT NULL DEFAULT 0,
		zone_id INTEGER NOT NULL DEFAULT 0,
		x REAL NOT NULL DEFAULT 0,
		y REAL NOT NULL DEFAULT 0,
		z REAL NOT NULL DEFAULT 0,
		heading REAL NOT NULL DEFAULT 0
	)`)
	require.NoError(t, err)
	return db
}

func TestColumns(t *testing.T) {
	assert.Equal(t, "character_bind", characterbindrepo.TableName)
	assert.Equal(t, "id", characterbindrepo.PrimaryKey)
	assert.Equal(t, []string{"id", "is_home", "zone_id", "x", "y", "z", "heading"}, characterbindrepo.Columns())
	assert.Equal(t, `"id", "is_home", "zone_id", "x", "y", "z", "heading"`, characterbindrepo.SelectColumns())
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := characterbindrepo.NewRepository()

	home, err := repo.InsertOne(ctx, db, characterbindrepo.CharacterBind{IsHome: 1, ZoneID: 202, X: 1.5, Y: -2.25, Z: 3, Heading: 128})
	require.NoError(t, err)
	require.NotZero(t, home.ID)

	n, err := repo.InsertMany(ctx, db, []characterbindrepo.CharacterBind{
		{ZoneID: 202, X: 10},
		{ZoneID: 9, Heading: 64},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.FindOne(ctx, db, int64(home.ID))
	require.NoError(t, err)
	assert.Equal(t, home, got)

	inZone, err := repo.FindByZone(ctx, db, 202)
	require.NoError(t, err)
	require.Len(t, inZone, 2)
	assert.Equal(t, home.ID, inZone[0].ID)
	assert.Equal(t, float32(10), characterbindrepo.GetCharacterBind(inZone, int64(inZone[1].ID)).X)

	homes, err := repo.HomeCount(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), homes)

	home.ZoneID = 9
	updated, err := repo.UpdateOne(ctx, db, home)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	maxID, err := repo.GetMaxID(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), maxID)

	deleted, err := repo.DeleteOne(ctx, db, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	missing, err := repo.FindOne(ctx, db, 3)
	require.NoError(t, err)
	assert.Equal(t, repo.NewEntity(), missing)

	total, err := repo.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	truncated, err := repo.Truncate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), truncated)

	all, err := repo.All(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, all)
}
