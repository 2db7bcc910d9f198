package material

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fieldops/backend/internal/domain/material"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*material.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*material.Item), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter material.Filter) ([]material.Item, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]material.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Save(ctx context.Context, item *material.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type recordingSpreadsheet struct {
	items   []ItemResponse
	summary []SummaryResponse
	err     error
}

func (r *recordingSpreadsheet) WriteMaterials(w io.Writer, items []ItemResponse, summary []SummaryResponse) error {
	r.items, r.summary = items, summary
	if r.err != nil {
		return r.err
	}
	_, err := w.Write([]byte("xlsx"))
	return err
}

func newItem(t *testing.T, typ string, qty int64) material.Item {
	t.Helper()
	item, err := material.NewItem(typ, nil, decimal.NewFromInt(qty))
	require.NoError(t, err)
	return *item
}

func TestMaterialService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewMaterialService(repo, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*material.Item")).Return(nil)

		nilID := uuid.Nil
		resp, err := svc.Create(ctx, ItemRequest{Type: "FREEZER-1", WorkOrderID: &nilID, Quantity: decimal.NewFromInt(3)})
		require.NoError(t, err)
		assert.Equal(t, "Freezer Filter", resp.Label)
		assert.Nil(t, resp.WorkOrderID)
		assert.Equal(t, material.UnknownWorkOrder, resp.WorkOrder)
	})

	t.Run("negative quantity", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewMaterialService(repo, nil)

		_, err := svc.Create(ctx, ItemRequest{Type: "belt", Quantity: decimal.NewFromInt(-1)})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestMaterialService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewMaterialService(repo, nil)
	item := newItem(t, "belt", 1)
	woID := uuid.New()

	repo.On("FindByID", ctx, item.ID).Return(&item, nil)
	repo.On("Save", ctx, &item).Return(nil)

	resp, err := svc.Update(ctx, item.ID, ItemRequest{Type: "P-TRAP", WorkOrderID: &woID, Quantity: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, "P-Trap", resp.Label)
	assert.Equal(t, woID.String(), resp.WorkOrder)

	missing := uuid.New()
	repo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	_, err = svc.Update(ctx, missing, ItemRequest{Type: "x"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMaterialService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewMaterialService(repo, nil)
	woID := uuid.New()

	repo.On("FindAll", ctx, mock.MatchedBy(func(f material.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.WorkOrderID != nil && *f.WorkOrderID == woID
	})).Return([]material.Item{newItem(t, "G1", 1)}, int64(1), nil)

	items, total, err := svc.List(ctx, ListFilter{WorkOrderID: woID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Standard Filter", items[0].Label)

	_, _, err = svc.List(ctx, ListFilter{WorkOrderID: "bogus"})
	assert.Error(t, err)
}

func TestMaterialService_Summary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewMaterialService(repo, nil)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f material.Filter) bool {
		return f.PageSize == 0 && f.OrderBy == "type"
	})).Return([]material.Item{newItem(t, "G1", 2), newItem(t, "S1", 1), newItem(t, "G2", 4)}, int64(3), nil)

	summary, err := svc.Summary(ctx, ListFilter{Page: 3, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "Standard Filter", summary[0].Label)
	assert.True(t, summary[0].Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 2, summary[0].ItemCount)
}

func TestMaterialService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("writes workbook", func(t *testing.T) {
		repo := new(MockRepository)
		sheet := &recordingSpreadsheet{}
		svc := NewMaterialService(repo, sheet)
		repo.On("FindAll", ctx, mock.Anything).Return([]material.Item{newItem(t, "COOLER", 1)}, int64(1), nil)

		var buf bytes.Buffer
		require.NoError(t, svc.Export(ctx, ListFilter{}, &buf))
		assert.Equal(t, "xlsx", buf.String())
		require.Len(t, sheet.items, 1)
		assert.Equal(t, "Cooler Filter", sheet.summary[0].Label)
	})

	t.Run("writer failure", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewMaterialService(repo, &recordingSpreadsheet{err: errors.New("disk full")})
		repo.On("FindAll", ctx, mock.Anything).Return([]material.Item{}, int64(0), nil)

		assert.EqualError(t, svc.Export(ctx, ListFilter{}, io.Discard), "disk full")
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewMaterialService(new(MockRepository), nil)
		err := svc.Export(ctx, ListFilter{}, io.Discard)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "EXPORT_UNAVAILABLE", de.Code)
	})
}
