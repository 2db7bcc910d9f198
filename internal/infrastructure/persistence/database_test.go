package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGorm opens GORM on a sqlmock connection using the postgres dialect
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestDatabase_Ping(t *testing.T) {
	gormDB, _, mockDB := newMockGorm(t)
	defer mockDB.Close()

	db := &Database{DB: gormDB}
	assert.NoError(t, db.Ping(context.Background()))
}

func TestDatabase_Stats(t *testing.T) {
	gormDB, _, mockDB := newMockGorm(t)
	defer mockDB.Close()

	db := &Database{DB: gormDB}
	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}

func TestDatabase_Transaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "technicians"`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		db := &Database{DB: gormDB}
		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return tx.Exec(`UPDATE "technicians" SET active = true`).Error
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		db := &Database{DB: gormDB}
		err := db.Transaction(context.Background(), func(tx *gorm.DB) error {
			return errors.New("abort")
		})
		assert.EqualError(t, err, "abort")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("close releases the pool", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		mock.ExpectClose()
		db := &Database{DB: gormDB}
		assert.NoError(t, db.Close())
	})
}
