package workorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workorder"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceConfig tunes image handling
type ServiceConfig struct {
	PresignExpiration time.Duration
	MaxArchiveImages  int
}

// DefaultServiceConfig returns the defaults used when no configuration is given
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		PresignExpiration: 15 * time.Minute,
		MaxArchiveImages:  200,
	}
}

// WorkOrderService handles work order review operations
type WorkOrderService struct {
	repo           workorder.Repository
	imageRepo      workorder.ImageRepository
	storage        ImageStorage
	fetcher        ImageFetcher
	archiver       ArchiveWriter
	eventPublisher shared.EventPublisher
	config         ServiceConfig
}

// NewWorkOrderService creates a new WorkOrderService
func NewWorkOrderService(
	repo workorder.Repository,
	imageRepo workorder.ImageRepository,
	storage ImageStorage,
	fetcher ImageFetcher,
	archiver ArchiveWriter,
	config ServiceConfig,
) *WorkOrderService {
	defaults := DefaultServiceConfig()
	if config.PresignExpiration <= 0 {
		config.PresignExpiration = defaults.PresignExpiration
	}
	if config.MaxArchiveImages <= 0 {
		config.MaxArchiveImages = defaults.MaxArchiveImages
	}
	return &WorkOrderService{
		repo:      repo,
		imageRepo: imageRepo,
		storage:   storage,
		fetcher:   fetcher,
		archiver:  archiver,
		config:    config,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *WorkOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a work order awaiting review
func (s *WorkOrderService) Create(ctx context.Context, req CreateWorkOrderRequest) (*WorkOrderResponse, error) {
	if ext := strings.TrimSpace(req.ExternalID); ext != "" {
		_, err := s.repo.FindByExternalID(ctx, ext)
		if err == nil {
			return nil, shared.AlreadyExists("Work order with this external id already exists")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	wo, err := workorder.NewWorkOrder(req.OrderNo, req.ServiceDate)
	if err != nil {
		return nil, err
	}
	wo.SetExternalID(req.ExternalID)
	wo.SetDetails(req.Driver, req.Location, req.Notes)
	if req.TechnicianID != nil {
		wo.AssignTechnician(req.TechnicianID)
	}

	if err := s.repo.Save(ctx, wo); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, wo)

	response := ToWorkOrderResponse(wo)
	return &response, nil
}

// GetByID retrieves a work order with its technician name
func (s *WorkOrderService) GetByID(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWorkOrderResponse(wo)
	return &response, nil
}

// List returns one page of work orders matching the filter, in table sort order.
// Sorting happens before pagination so pages follow the column sort.
func (s *WorkOrderService) List(ctx context.Context, filter ListWorkOrdersFilter) ([]WorkOrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	state, err := workorder.NewSortState(filter.SortField, filter.SortDirection)
	if err != nil {
		return nil, 0, err
	}

	domainFilter := workorder.Filter{
		Filter:   shared.Filter{Search: strings.TrimSpace(filter.Search)},
		Status:   workorder.Status(filter.Status),
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}
	if filter.TechnicianID != "" {
		techID, err := uuid.Parse(filter.TechnicianID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_TECHNICIAN_ID", "Technician id must be a UUID")
		}
		domainFilter.TechnicianID = &techID
	}

	orders, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	workorder.Sort(orders, state)

	start := min((filter.Page-1)*filter.PageSize, len(orders))
	end := min(start+filter.PageSize, len(orders))
	return ToWorkOrderResponses(orders[start:end]), total, nil
}

// Delete removes a work order and its image records
func (s *WorkOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UpdateStatus changes the review status
func (s *WorkOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*WorkOrderResponse, error) {
	return s.mutate(ctx, id, func(wo *workorder.WorkOrder) error {
		return wo.UpdateStatus(workorder.Status(status))
	})
}

// Approve marks a work order approved
func (s *WorkOrderService) Approve(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	return s.mutate(ctx, id, (*workorder.WorkOrder).Approve)
}

// Flag marks a work order for follow-up
func (s *WorkOrderService) Flag(ctx context.Context, id uuid.UUID) (*WorkOrderResponse, error) {
	return s.mutate(ctx, id, (*workorder.WorkOrder).Flag)
}

// UpdateResolutionNotes saves the resolution notes
func (s *WorkOrderService) UpdateResolutionNotes(ctx context.Context, id uuid.UUID, notes string) (*WorkOrderResponse, error) {
	return s.mutate(ctx, id, func(wo *workorder.WorkOrder) error {
		return wo.UpdateResolutionNotes(notes)
	})
}

func (s *WorkOrderService) mutate(ctx context.Context, id uuid.UUID, fn func(*workorder.WorkOrder) error) (*WorkOrderResponse, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(wo); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, wo); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, wo)

	response := ToWorkOrderResponse(wo)
	return &response, nil
}

// StatusCounts returns the number of work orders per status
func (s *WorkOrderService) StatusCounts(ctx context.Context) (*StatusCountsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var resp StatusCountsResponse
	for _, c := range counts {
		switch c.Status {
		case workorder.StatusApproved:
			resp.Approved = c.Count
		case workorder.StatusPendingReview:
			resp.PendingReview = c.Count
		case workorder.StatusFlagged:
			resp.Flagged = c.Count
		}
		resp.Total += c.Count
	}
	return &resp, nil
}

// Navigate locates the current work order in the list the supervisor is reviewing
func (s *WorkOrderService) Navigate(req NavigateRequest) (*NavigateResponse, error) {
	pos, err := workorder.Locate(req.OrderedIDs, req.CurrentID)
	if err != nil {
		return nil, err
	}
	response := ToNavigateResponse(pos)
	return &response, nil
}

// NextSortState returns the table sort after a click on req.Field
func (s *WorkOrderService) NextSortState(req SortStateRequest) (*SortStateResponse, error) {
	current, err := workorder.NewSortState(req.CurrentField, req.CurrentDirection)
	if err != nil {
		return nil, err
	}
	field := workorder.SortField(req.Field)
	if field == workorder.SortFieldNone || !field.IsValid() {
		return nil, shared.NewDomainError("INVALID_SORT_FIELD", "Unknown sort field: "+req.Field)
	}

	next := current.Next(field)
	return &SortStateResponse{Field: string(next.Field), Direction: string(next.Direction)}, nil
}

// ListImages returns the photos of a work order with loadable URLs
func (s *WorkOrderService) ListImages(ctx context.Context, id uuid.UUID) ([]ImageResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	images, err := s.imageRepo.FindByWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		img := &images[i]
		resp := ImageResponse{
			ID:         img.ID,
			FileName:   img.FileName(),
			URL:        img.ImageURL,
			StorageKey: img.StorageKey,
			CreatedAt:  img.CreatedAt,
		}
		if img.IsStored() {
			url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, img.StorageKey, s.config.PresignExpiration)
			if err != nil {
				return nil, fmt.Errorf("presign image %s: %w", img.ID, err)
			}
			resp.URL = url
			resp.ExpiresAt = &expiresAt
		}
		out = append(out, resp)
	}
	return out, nil
}

// CreateUploadURL registers a new photo and returns a presigned upload target for it
func (s *WorkOrderService) CreateUploadURL(ctx context.Context, id uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key := workorder.ImageStorageKey(id, req.FileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.config.PresignExpiration)
	if err != nil {
		return nil, err
	}

	img, err := workorder.NewStoredImage(id, key)
	if err != nil {
		return nil, err
	}
	if err := s.imageRepo.Save(ctx, img); err != nil {
		return nil, err
	}

	return &UploadURLResponse{
		ImageID:    img.ID,
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresAt:  expiresAt,
	}, nil
}

// ImageArchive is a prepared zip download of a work order's photos
type ImageArchive struct {
	FileName string
	entries  []ArchiveEntry
	writer   ArchiveWriter
}

// Len returns the number of photos the archive will try to write
func (a *ImageArchive) Len() int {
	return len(a.entries)
}

// WriteTo streams the archive to w
func (a *ImageArchive) WriteTo(ctx context.Context, w io.Writer) (ArchiveSummary, error) {
	return a.writer.WriteArchive(ctx, w, a.entries)
}

// PrepareImageArchive collects a work order's photos for a zip download.
// Nothing is fetched until the archive is written.
func (s *WorkOrderService) PrepareImageArchive(ctx context.Context, id uuid.UUID) (*ImageArchive, error) {
	wo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.FindByWorkOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, shared.NewDomainError("NO_IMAGES", "Work order has no images")
	}
	if len(images) > s.config.MaxArchiveImages {
		logger.L(ctx).Warn("Image archive truncated",
			zap.String("work_order_id", id.String()),
			zap.Int("images", len(images)),
			zap.Int("limit", s.config.MaxArchiveImages),
		)
		images = images[:s.config.MaxArchiveImages]
	}

	entries := make([]ArchiveEntry, 0, len(images))
	for _, img := range images {
		entries = append(entries, s.archiveEntry(img))
	}

	return &ImageArchive{
		FileName: archiveFileName(wo.OrderNo),
		entries:  entries,
		writer:   s.archiver,
	}, nil
}

func (s *WorkOrderService) archiveEntry(img workorder.Image) ArchiveEntry {
	entry := ArchiveEntry{Name: img.FileName()}
	if img.IsStored() {
		key := img.StorageKey
		entry.Open = func(ctx context.Context) (io.ReadCloser, error) {
			return s.storage.OpenObject(ctx, key)
		}
		return entry
	}
	url := img.ImageURL
	entry.Open = func(ctx context.Context) (io.ReadCloser, error) {
		return s.fetcher.Fetch(ctx, url)
	}
	return entry
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func archiveFileName(orderNo string) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(orderNo, "-"), "-")
	if name == "" {
		name = "order"
	}
	return "work-order-" + name + "-images.zip"
}

// publishDomainEvents publishes and clears the work order's pending events
func (s *WorkOrderService) publishDomainEvents(ctx context.Context, wo *workorder.WorkOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := wo.PullDomainEvents()
	if len(events) == 0 {
		return
	}
	// errors are logged by the event bus
	_ = s.eventPublisher.Publish(ctx, events...)
}
