package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormWorkOrderRepository_FindByID(t *testing.T) {
	t.Run("finds work order with technician name", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormWorkOrderRepository(db)

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "order_no", "service_date", "status", "driver", "technician_name"}).
			AddRow(id, "A-100", "2024-06-10", "flagged", `{"name":"Sam"}`, "Jordan")

		mock.ExpectQuery(`SELECT work_orders\.\*, COALESCE\(technicians\.name, ''\) AS technician_name FROM "work_orders" LEFT JOIN technicians ON technicians\.id = work_orders\.technician_id WHERE work_orders\.id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		wo, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, wo.ID)
		assert.Equal(t, "A-100", wo.OrderNo)
		assert.Equal(t, workorder.StatusFlagged, wo.Status)
		assert.Equal(t, "Jordan", wo.TechnicianName)
		assert.Equal(t, "Sam", wo.DriverName())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormWorkOrderRepository(db)

		id := uuid.New()
		mock.ExpectQuery(`SELECT work_orders\.\*.* FROM "work_orders" .*WHERE work_orders\.id = \$1`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		wo, err := repo.FindByID(context.Background(), id)
		assert.Nil(t, wo)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWorkOrderRepository_FindByExternalID(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormWorkOrderRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "work_orders" WHERE external_id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("opt-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "external_id", "order_no"}).AddRow(id, "opt-1", "A-1"))

	wo, err := repo.FindByExternalID(context.Background(), "opt-1")
	require.NoError(t, err)
	assert.Equal(t, "opt-1", wo.GetExternalID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWorkOrderRepository_FindAll(t *testing.T) {
	t.Run("applies filters, pagination and default ordering", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormWorkOrderRepository(db)

		filter := workorder.Filter{
			Filter:   shared.Filter{Page: 1, PageSize: 20},
			Status:   workorder.StatusFlagged,
			DateFrom: "2024-06-01",
		}

		mock.ExpectQuery(`SELECT count\(\*\) FROM "work_orders" WHERE work_orders\.status = \$1 AND work_orders\.service_date >= \$2`).
			WithArgs("flagged", "2024-06-01").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		mock.ExpectQuery(`SELECT work_orders\.\*.* LEFT JOIN technicians .* WHERE work_orders\.status = \$1 AND work_orders\.service_date >= \$2 ORDER BY work_orders\.service_date DESC LIMIT \$3`).
			WithArgs("flagged", "2024-06-01", 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_no", "status"}).
				AddRow(uuid.New(), "A-2", "flagged").
				AddRow(uuid.New(), "A-1", "flagged"))

		orders, total, err := repo.FindAll(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, orders, 2)
		assert.Equal(t, "A-2", orders[0].OrderNo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips the row query when nothing matches", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormWorkOrderRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "work_orders"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		orders, total, err := repo.FindAll(context.Background(), workorder.Filter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormWorkOrderRepository_CountByStatus(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormWorkOrderRepository(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "work_orders" GROUP BY .*status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("approved", 3).
			AddRow("flagged", 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []workorder.StatusCount{
		{Status: workorder.StatusApproved, Count: 3},
		{Status: workorder.StatusFlagged, Count: 1},
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormWorkOrderRepository_Delete(t *testing.T) {
	t.Run("removes images then the work order", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormWorkOrderRepository(db)

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "work_order_images" WHERE work_order_id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM "work_orders" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the work order does not exist", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormWorkOrderRepository(db)

		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "work_order_images"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "work_orders"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
