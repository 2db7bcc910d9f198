package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	workorderapp "github.com/fieldops/backend/internal/application/workorder"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/fieldops/backend/internal/infrastructure/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWorkOrders struct {
	byID map[uuid.UUID]*workorder.WorkOrder
}

func (m *memWorkOrders) FindByID(_ context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	wo, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return wo, nil
}

func (m *memWorkOrders) FindByExternalID(context.Context, string) (*workorder.WorkOrder, error) {
	return nil, shared.ErrNotFound
}

func (m *memWorkOrders) FindAll(context.Context, workorder.Filter) ([]workorder.WorkOrder, int64, error) {
	out := make([]workorder.WorkOrder, 0, len(m.byID))
	for _, wo := range m.byID {
		out = append(out, *wo)
	}
	return out, int64(len(out)), nil
}

func (m *memWorkOrders) CountByStatus(context.Context) ([]workorder.StatusCount, error) {
	return nil, nil
}

func (m *memWorkOrders) Save(_ context.Context, wo *workorder.WorkOrder) error {
	m.byID[wo.ID] = wo
	return nil
}

func (m *memWorkOrders) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

type memImages struct {
	byOrder map[uuid.UUID][]workorder.Image
}

func (m *memImages) FindByWorkOrder(_ context.Context, id uuid.UUID) ([]workorder.Image, error) {
	return m.byOrder[id], nil
}

func (m *memImages) Save(_ context.Context, img *workorder.Image) error {
	m.byOrder[img.WorkOrderID] = append(m.byOrder[img.WorkOrderID], *img)
	return nil
}

func (m *memImages) SaveLinked(context.Context, uuid.UUID, []string) (int, error) {
	return 0, nil
}

type workOrderFixture struct {
	router  *gin.Engine
	orders  *memWorkOrders
	images  *memImages
	objects *storage.MemoryObjectStorage
}

func newWorkOrderFixture(t *testing.T) *workOrderFixture {
	t.Helper()
	f := &workOrderFixture{
		orders:  &memWorkOrders{byID: map[uuid.UUID]*workorder.WorkOrder{}},
		images:  &memImages{byOrder: map[uuid.UUID][]workorder.Image{}},
		objects: storage.NewMemoryObjectStorage(),
	}
	svc := workorderapp.NewWorkOrderService(f.orders, f.images, f.objects, nil, storage.NewZipArchiver(), workorderapp.ServiceConfig{})
	h := NewWorkOrderHandler(svc)

	r := gin.New()
	r.GET("/work-orders/:id", h.GetByID)
	r.POST("/work-orders/:id/approve", h.Approve)
	r.POST("/work-orders/navigate", h.Navigate)
	r.POST("/work-orders/sort-state", h.SortState)
	r.GET("/work-orders/:id/images/archive", h.DownloadImages)
	f.router = r
	return f
}

func (f *workOrderFixture) addOrder(t *testing.T, orderNo string) *workorder.WorkOrder {
	t.Helper()
	wo, err := workorder.NewWorkOrder(orderNo, "2026-03-02")
	require.NoError(t, err)
	f.orders.byID[wo.ID] = wo
	return wo
}

func TestWorkOrderHandler_GetByID(t *testing.T) {
	f := newWorkOrderFixture(t)
	wo := f.addOrder(t, "WO-1")

	w := get(f.router, "/work-orders/"+wo.ID.String())
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "WO-1", resp.Data.(map[string]any)["order_no"])

	w = get(f.router, "/work-orders/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(f.router, "/work-orders/nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkOrderHandler_Approve(t *testing.T) {
	f := newWorkOrderFixture(t)
	wo := f.addOrder(t, "WO-1")

	w := postJSON(f.router, "/work-orders/"+wo.ID.String()+"/approve", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, workorder.StatusApproved, f.orders.byID[wo.ID].Status)
}

func TestWorkOrderHandler_Navigate(t *testing.T) {
	f := newWorkOrderFixture(t)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	body := fmt.Sprintf(`{"current_id":%q,"ordered_ids":[%q,%q,%q]}`, b, a, b, c)
	w := postJSON(f.router, "/work-orders/navigate", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data workorderapp.NavigateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Index)
	assert.Equal(t, "Order 2 of 3", resp.Data.Label)
	require.NotNil(t, resp.Data.PreviousID)
	assert.Equal(t, a, *resp.Data.PreviousID)
	require.NotNil(t, resp.Data.NextID)
	assert.Equal(t, c, *resp.Data.NextID)

	body = fmt.Sprintf(`{"current_id":%q,"ordered_ids":[%q]}`, uuid.New(), a)
	w = postJSON(f.router, "/work-orders/navigate", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkOrderHandler_SortState(t *testing.T) {
	f := newWorkOrderFixture(t)

	tests := []struct {
		body          string
		wantField     string
		wantDirection string
	}{
		{`{"field":"order_no"}`, "order_no", "asc"},
		{`{"field":"order_no","current_field":"order_no","current_direction":"asc"}`, "order_no", "desc"},
		{`{"field":"order_no","current_field":"order_no","current_direction":"desc"}`, "", ""},
		{`{"field":"status","current_field":"order_no","current_direction":"desc"}`, "status", "asc"},
	}
	for _, tt := range tests {
		w := postJSON(f.router, "/work-orders/sort-state", tt.body)
		require.Equal(t, http.StatusOK, w.Code, tt.body)

		var resp struct {
			Data workorderapp.SortStateResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, tt.wantField, resp.Data.Field, tt.body)
		assert.Equal(t, tt.wantDirection, resp.Data.Direction, tt.body)
	}

	w := postJSON(f.router, "/work-orders/sort-state", `{"field":"colour"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkOrderHandler_DownloadImages(t *testing.T) {
	f := newWorkOrderFixture(t)
	wo := f.addOrder(t, "WO 7/A")

	key := "work-orders/" + wo.ID.String() + "/front.jpg"
	require.NoError(t, f.objects.Upload(context.Background(), key, []byte("jpeg-bytes"), "image/jpeg"))
	img, err := workorder.NewStoredImage(wo.ID, key)
	require.NoError(t, err)
	require.NoError(t, f.images.Save(context.Background(), img))

	w := get(f.router, "/work-orders/"+wo.ID.String()+"/images/archive")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="work-order-WO-7-A-images.zip"`, w.Header().Get("Content-Disposition"))

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "front.jpg", zr.File[0].Name)
}

func TestWorkOrderHandler_DownloadImages_NoImages(t *testing.T) {
	f := newWorkOrderFixture(t)
	wo := f.addOrder(t, "WO-1")

	w := get(f.router, "/work-orders/"+wo.ID.String()+"/images/archive")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_IMAGES")
}
