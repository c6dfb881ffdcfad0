package registry

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/doctor/errors"
	doctortest "github.com/teranos/doctor/internal/testing"
)

func TestStore_SaveLoad(t *testing.T) {
	db := doctortest.CreateTestDB(t)
	store := NewStore(db, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()

	src := animals(t)
	require.NoError(t, store.Save(ctx, src))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, src.Types(), got.Types())
	assert.True(t, got.IsSubtypeOf(`App\Puppy`, `App\Animal`))
}

func TestStore_SaveReplaces(t *testing.T) {
	db := doctortest.CreateTestDB(t)
	store := NewStore(db, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, animals(t)))

	small, err := NewIndex([]Type{{Name: "Only", Kind: KindClass}})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, small))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.False(t, got.IsKnownType(`App\Dog`))

	var parents int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM type_parents").Scan(&parents))
	assert.Equal(t, 0, parents, "old parent rows are cascaded away")
}

func TestStore_LoadEmpty(t *testing.T) {
	store := NewStore(doctortest.CreateTestDB(t), nil)

	idx, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestStore_Save_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	idx, err := NewIndex([]Type{{Name: "Dog", Kind: KindClass, Extends: []string{"Animal"}}})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM types`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO types`).
		WithArgs("Dog", "class").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO type_parents`).
		WithArgs("Dog", "extends", 0, "Animal").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewStore(db, nil).Save(context.Background(), idx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Save_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	idx, err := NewIndex([]Type{{Name: "Dog"}})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM types`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO types`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewStore(db, nil).Save(context.Background(), idx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert type Dog")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Load_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT name, kind FROM types`).WillReturnError(errors.New("no such table"))

	_, err = NewStore(db, nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query types")
}

func TestStore_Load_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT name, kind FROM types`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "kind"}).
			AddRow("Animal", "interface").
			AddRow("Dog", "class"))
	mock.ExpectQuery(`SELECT type_name, relation, parent FROM type_parents`).
		WillReturnRows(sqlmock.NewRows([]string{"type_name", "relation", "parent"}).
			AddRow("Dog", "implements", "Animal"))

	idx, err := NewStore(db, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, idx.IsSubtypeOf("Dog", "Animal"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
