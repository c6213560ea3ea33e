package baserepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableRejectsBadDescriptor(t *testing.T) {
	d := scoreDescriptor(t, "sqlite")

	missing := d
	missing.Scan = nil
	_, err := NewTable(missing)
	assert.Error(t, err)

	badPK := d
	badPK.PrimaryKey = "uuid"
	_, err = NewTable(badPK)
	assert.ErrorContains(t, err, `primary key "uuid"`)

	badDialect := d
	badDialect.Statements.Dialect = "oracle"
	_, err = NewTable(badDialect)
	assert.ErrorContains(t, err, "unknown dialect")

	assert.Panics(t, func() { MustNewTable(badPK) })
}

func TestFindOne(t *testing.T) {
	ctx := context.Background()
	tbl := scoreTable(t, "sqlite")

	t.Run("found", func(t *testing.T) {
		db := &recorder{result: Result{Rows: []Row{Text("7", "ann", "12", "1700000000")}}}
		got, err := tbl.FindOne(ctx, db, 7)
		require.NoError(t, err)
		assert.Equal(t, score{ID: 7, Name: "ann", Score: 12, At: 1700000000}, got)

		stmt := db.last(t)
		assert.Equal(t, KindQuery, stmt.Kind)
		assert.Equal(t, []any{int64(7)}, stmt.Args)
	})

	t.Run("not found", func(t *testing.T) {
		got, err := tbl.FindOne(ctx, &recorder{}, 7)
		require.NoError(t, err)
		assert.Equal(t, tbl.NewEntity(), got)
	})

	t.Run("engine failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		got, err := tbl.FindOne(ctx, &recorder{result: Result{Err: boom}}, 7)
		assert.Equal(t, tbl.NewEntity(), got)
		assert.ErrorIs(t, err, boom)
		assert.True(t, IsExecError(err))

		var ee *ExecError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "scores", ee.Table)
		assert.Equal(t, "FindOne", ee.Op)
		assert.Equal(t, "scores.FindOne: connection reset", err.Error())
	})
}

func TestNullCellsMarshalToZero(t *testing.T) {
	db := &recorder{result: Result{Rows: []Row{{nil, nil, nil, nil}, Text("2", "b", "oops", "")}}}
	got, err := scoreTable(t, "sqlite").All(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, score{}, got[0])
	assert.Equal(t, score{ID: 2, Name: "b"}, got[1])
}

func TestGetWhere(t *testing.T) {
	ctx := context.Background()

	t.Run("text only", func(t *testing.T) {
		db := &recorder{}
		got, err := scoreTable(t, "sqlite").GetWhere(ctx, db, Unchecked("score > 10"))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)

		stmt := db.last(t)
		assert.Equal(t, `SELECT "id", "name", "score", CAST(strftime('%s', "at") AS INTEGER) FROM "scores" WHERE score > 10`, stmt.SQL)
		assert.Empty(t, stmt.Args)
	})

	t.Run("postgres args are rebound", func(t *testing.T) {
		db := &recorder{}
		_, err := scoreTable(t, "postgres").GetWhere(ctx, db, Unchecked("name = ? AND score > ?", "ann", 3))
		require.NoError(t, err)

		stmt := db.last(t)
		assert.Contains(t, stmt.SQL, `WHERE name = $1 AND score > $2`)
		assert.Equal(t, []any{"ann", 3}, stmt.Args)
	})

	t.Run("failure gives empty slice", func(t *testing.T) {
		got, err := scoreTable(t, "sqlite").GetWhere(ctx, &recorder{result: Result{Err: errors.New("syntax")}}, Unchecked("nope"))
		assert.Error(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestInsertOne(t *testing.T) {
	ctx := context.Background()
	tbl := scoreTable(t, "sqlite")

	t.Run("zero key is omitted", func(t *testing.T) {
		db := &recorder{result: Result{RowsAffected: 1, LastInsertID: 41}}
		got, err := tbl.InsertOne(ctx, db, score{Name: "a", Score: 5})
		require.NoError(t, err)
		assert.Equal(t, score{ID: 41, Name: "a", Score: 5}, got)

		stmt := db.last(t)
		assert.Equal(t, KindInsert, stmt.Kind)
		assert.Equal(t, tbl.desc.Statements.InsertOneAuto, stmt.SQL)
		assert.Equal(t, []any{"a", int32(5), nil}, stmt.Args)
	})

	t.Run("explicit key is kept", func(t *testing.T) {
		db := &recorder{result: Result{RowsAffected: 1}}
		got, err := tbl.InsertOne(ctx, db, score{ID: 9, Name: "b", At: 1700000000})
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.ID)

		stmt := db.last(t)
		assert.Equal(t, tbl.desc.Statements.InsertOne, stmt.SQL)
		assert.Equal(t, []any{int64(9), "b", int32(0), int64(1700000000)}, stmt.Args)
	})

	t.Run("postgres reads the key back", func(t *testing.T) {
		db := &recorder{result: Result{RowsAffected: 1, LastInsertID: 3}}
		got, err := scoreTable(t, "postgres").InsertOne(ctx, db, score{Name: "c"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
		assert.True(t, db.last(t).Returning)
	})

	t.Run("failure gives new entity", func(t *testing.T) {
		got, err := tbl.InsertOne(ctx, &recorder{result: Result{Err: errors.New("duplicate")}}, score{ID: 1, Name: "x"})
		assert.Error(t, err)
		assert.Equal(t, tbl.NewEntity(), got)
	})
}

func TestInsertMany(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input skips the engine", func(t *testing.T) {
		db := &recorder{}
		n, err := scoreTable(t, "sqlite").InsertMany(ctx, db, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, db.stmts)
	})

	t.Run("all zero keys", func(t *testing.T) {
		db := &recorder{result: Result{RowsAffected: 2}}
		n, err := scoreTable(t, "postgres").InsertMany(ctx, db, []score{{Name: "a"}, {Name: "b", Score: 1}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		stmt := db.last(t)
		assert.Equal(t, `INSERT INTO "scores" ("name", "score", "at") VALUES ($1, $2, to_timestamp($3)), ($4, $5, to_timestamp($6)) RETURNING "id"`, stmt.SQL)
		assert.Equal(t, []any{"a", int32(0), nil, "b", int32(1), nil}, stmt.Args)
	})

	t.Run("any explicit key keeps the column", func(t *testing.T) {
		db := &recorder{result: Result{RowsAffected: 2}}
		_, err := scoreTable(t, "sqlite").InsertMany(ctx, db, []score{{Name: "a"}, {ID: 5, Name: "b"}})
		require.NoError(t, err)

		stmt := db.last(t)
		assert.Equal(t, `INSERT INTO "scores" ("id", "name", "score", "at") VALUES (?, ?, ?, datetime(?, 'unixepoch')), (?, ?, ?, datetime(?, 'unixepoch'))`, stmt.SQL)
		assert.Len(t, stmt.Args, 8)
		assert.Equal(t, int64(0), stmt.Args[0], "zero key is written literally")
		assert.Equal(t, int64(5), stmt.Args[4])
	})
}

func TestUpdateOne(t *testing.T) {
	db := &recorder{result: Result{RowsAffected: 1}}
	n, err := scoreTable(t, "sqlite").UpdateOne(context.Background(), db, score{ID: 4, Name: "d", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []any{"d", int32(9), nil, int64(4)}, db.last(t).Args)
}

func TestDeleteWhere(t *testing.T) {
	ctx := context.Background()
	tbl := scoreTable(t, "sqlite")

	db := &recorder{}
	_, err := tbl.DeleteWhere(ctx, db, Unchecked("  "))
	assert.ErrorContains(t, err, "empty filter")
	assert.Empty(t, db.stmts)

	db = &recorder{result: Result{RowsAffected: 3}}
	n, err := tbl.DeleteWhere(ctx, db, Unchecked("score < ?", 0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, `DELETE FROM "scores" WHERE score < ?`, db.last(t).SQL)
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	tbl := scoreTable(t, "postgres")

	db := &recorder{result: Result{Rows: []Row{Text("12")}}}
	n, err := tbl.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, `SELECT COUNT(*) FROM "scores"`, db.last(t).SQL)

	_, err = tbl.Count(ctx, db, Unchecked("score > ?", 1), Filter{}, Unchecked("name <> ?", "x"))
	require.NoError(t, err)
	stmt := db.last(t)
	assert.Equal(t, `SELECT COUNT(*) FROM "scores" WHERE (score > $1) AND (name <> $2)`, stmt.SQL)
	assert.Equal(t, []any{1, "x"}, stmt.Args)

	n, err = tbl.Count(ctx, &recorder{result: Result{Err: errors.New("down")}})
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestGetMaxID(t *testing.T) {
	tbl := scoreTable(t, "mysql")

	n, err := tbl.GetMaxID(context.Background(), &recorder{result: Result{Rows: []Row{Text("88")}}})
	require.NoError(t, err)
	assert.Equal(t, int64(88), n)

	n, err = tbl.GetMaxID(context.Background(), &recorder{result: Result{Rows: []Row{{nil}}}})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPick(t *testing.T) {
	tbl := scoreTable(t, "sqlite")
	entries := []score{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 2, Name: "dup"}}

	assert.Equal(t, "b", tbl.Pick(entries, 2).Name)
	assert.Equal(t, tbl.NewEntity(), tbl.Pick(entries, 3))
	assert.Equal(t, tbl.NewEntity(), tbl.Pick(nil, 1))
}

func TestEngineFunc(t *testing.T) {
	var got Statement
	db := EngineFunc(func(_ context.Context, s Statement) Result {
		got = s
		return Result{RowsAffected: 1}
	})
	n, err := scoreTable(t, "sqlite").DeleteOne(context.Background(), db, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, KindExec, got.Kind)
	assert.Equal(t, "exec", got.Kind.String())
}
