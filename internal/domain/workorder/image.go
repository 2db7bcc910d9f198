package workorder

import (
	"path"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Image is a photo attached to a work order.
// Images come either from object storage (StorageKey) or from the routing
// system's completion form (ImageURL).
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey  string    `gorm:"type:varchar(500)"`
	ImageURL    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Image) TableName() string {
	return "work_order_images"
}

// NewStoredImage creates an image backed by an object storage key
func NewStoredImage(workOrderID uuid.UUID, storageKey string) (*Image, error) {
	storageKey = strings.TrimSpace(storageKey)
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	return &Image{
		ID:          uuid.New(),
		WorkOrderID: workOrderID,
		StorageKey:  storageKey,
		CreatedAt:   shared.Now(),
	}, nil
}

// NewLinkedImage creates an image that points at an external URL
func NewLinkedImage(workOrderID uuid.UUID, imageURL string) (*Image, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot be empty")
	}
	return &Image{
		ID:          uuid.New(),
		WorkOrderID: workOrderID,
		ImageURL:    imageURL,
		CreatedAt:   shared.Now(),
	}, nil
}

// IsStored reports whether the image lives in object storage
func (i *Image) IsStored() bool {
	return i.StorageKey != ""
}

// FileName returns a file name suitable for archive entries
func (i *Image) FileName() string {
	src := i.StorageKey
	if src == "" {
		src = strings.SplitN(i.ImageURL, "?", 2)[0]
	}
	name := path.Base(src)
	if name == "" || name == "." || name == "/" {
		return i.ID.String() + ".jpg"
	}
	return name
}

// ImageStorageKey builds the object key for a new upload
func ImageStorageKey(workOrderID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return "work-orders/" + workOrderID.String() + "/" + uuid.NewString() + ext
}
