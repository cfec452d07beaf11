package localstorage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE local_storage (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSQLite_SetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "user", []byte(`{"name":"Jordan"}`)))

	v, err := r.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"name":"Jordan"}`), v)
}

func TestSQLite_GetMissingReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSQLite_Replace(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Replace(ctx, "user", []byte("first")))
	require.NoError(t, r.Replace(ctx, "user", []byte("second")))

	v, err := r.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), v)
}

func TestSQLite_ListDeleteClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": {0xAA}, "b": {0xBB}}, m)

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))
	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSQLite_ClosedDBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get local_storage[k]")

	require.ErrorContains(t, r.Set(ctx, "k", []byte("v")), "failed to set local_storage[k]")
	require.ErrorContains(t, r.Replace(ctx, "k", []byte("v")), "failed to replace local_storage[k]")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete local_storage[k]")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear local_storage")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list local_storage")
}

func TestSQLite_ReplaceRollsBackWhenInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM local_storage WHERE key = \?`).
		WithArgs("user").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO local_storage`).
		WithArgs("user", []byte("v")).
		WillReturnError(boom)
	mock.ExpectRollback()

	r := NewSQLiteRepository(db)
	err = r.Replace(context.Background(), "user", []byte("v"))
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ListScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("a", []byte("1")).
		RowError(0, errors.New("row broken"))
	mock.ExpectQuery(`SELECT key, value FROM local_storage`).WillReturnRows(rows)

	r := NewSQLiteRepository(db)
	_, err = r.List(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
