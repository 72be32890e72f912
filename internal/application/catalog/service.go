package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
	"github.com/storefront-api/internal/pkg/validate"
)

type ItemStore interface {
	Put(ctx context.Context, it *domain.Item) error
	Get(ctx context.Context, itemID string) (*domain.Item, error)
	ListActive(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, itemID string, updates map[string]interface{}) error
	Delist(ctx context.Context, itemID string) error
}

// AssetStore holds item images.
type AssetStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	// ListPublic returns listed items for the public shop page.
	ListPublic(ctx context.Context) ([]domain.Item, error)
	// GetPublic returns a single item; delisted items read as not found.
	GetPublic(ctx context.Context, itemID string) (*domain.Item, error)

	Create(ctx context.Context, req domain.CreateItemRequest) (*domain.Item, error)
	Update(ctx context.Context, itemID string, req domain.UpdateItemRequest) (*domain.Item, error)
	Delist(ctx context.Context, itemID string) error
	UploadImage(ctx context.Context, itemID, filename, contentType string, r io.Reader) (*domain.Item, error)
	ImageURL(ctx context.Context, itemID string) (string, error)
}

type service struct {
	itemRepo ItemStore
	assets   AssetStore
}

func NewService(itemRepo ItemStore, assets AssetStore) Service {
	return &service{itemRepo: itemRepo, assets: assets}
}

func (s *service) ListPublic(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.ListActive(ctx)
}

func (s *service) GetPublic(ctx context.Context, itemID string) (*domain.Item, error) {
	it, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.Active != 1 {
		return nil, fmt.Errorf("item delisted: %w", domain.ErrNotFound)
	}
	return it, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateItemRequest) (*domain.Item, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	it := &domain.Item{
		ItemID:      id.New(),
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Active:      1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.itemRepo.Put(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, itemID string, req domain.UpdateItemRequest) (*domain.Item, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PriceCents != nil {
		updates["price_cents"] = *req.PriceCents
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := s.itemRepo.Update(ctx, itemID, updates); err != nil {
			return nil, err
		}
	}
	return s.itemRepo.Get(ctx, itemID)
}

func (s *service) Delist(ctx context.Context, itemID string) error {
	if _, err := s.itemRepo.Get(ctx, itemID); err != nil {
		return err
	}
	return s.itemRepo.Delist(ctx, itemID)
}

func (s *service) UploadImage(ctx context.Context, itemID, filename, contentType string, r io.Reader) (*domain.Item, error) {
	it, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("items/%s/%s", it.ItemID, filename)
	if _, err := s.assets.Upload(ctx, key, r, contentType); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Update(ctx, itemID, map[string]interface{}{"image_key": key}); err != nil {
		return nil, err
	}
	it.ImageKey = key
	return it, nil
}

func (s *service) ImageURL(ctx context.Context, itemID string) (string, error) {
	it, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return "", err
	}
	if it.ImageKey == "" {
		return "", fmt.Errorf("item has no image: %w", domain.ErrNotFound)
	}
	return s.assets.PresignedURL(ctx, it.ImageKey, 15*time.Minute)
}
