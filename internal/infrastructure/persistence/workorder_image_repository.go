package persistence

import (
	"context"

	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkOrderImageRepository implements workorder.ImageRepository using GORM
type GormWorkOrderImageRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderImageRepository creates a new GormWorkOrderImageRepository
func NewGormWorkOrderImageRepository(db *gorm.DB) *GormWorkOrderImageRepository {
	return &GormWorkOrderImageRepository{db: db}
}

// FindByWorkOrder lists the images of a work order, oldest first
func (r *GormWorkOrderImageRepository) FindByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]workorder.Image, error) {
	images := []workorder.Image{}
	if err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Save creates or updates an image
func (r *GormWorkOrderImageRepository) Save(ctx context.Context, image *workorder.Image) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// SaveLinked stores linked images, skipping URLs already attached to the work order
func (r *GormWorkOrderImageRepository) SaveLinked(ctx context.Context, workOrderID uuid.UUID, urls []string) (int, error) {
	if len(urls) == 0 {
		return 0, nil
	}

	var existing []string
	if err := r.db.WithContext(ctx).
		Model(&workorder.Image{}).
		Where("work_order_id = ? AND image_url IN ?", workOrderID, urls).
		Pluck("image_url", &existing).Error; err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(existing)+len(urls))
	for _, u := range existing {
		seen[u] = true
	}

	images := make([]*workorder.Image, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		img, err := workorder.NewLinkedImage(workOrderID, u)
		if err != nil {
			continue
		}
		seen[u] = true
		images = append(images, img)
	}
	if len(images) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).Create(images).Error; err != nil {
		return 0, err
	}
	return len(images), nil
}

var _ workorder.ImageRepository = (*GormWorkOrderImageRepository)(nil)
