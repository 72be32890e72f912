package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/validate"
)

type ThemeStore interface {
	Get(ctx context.Context, themeID string) (*domain.Theme, error)
	Update(ctx context.Context, themeID string, updates map[string]interface{}) error
}

// AssetStore holds the shop logo.
type AssetStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	// Get returns the shop theme; a never-customized shop gets defaults.
	Get(ctx context.Context) (*domain.Theme, error)
	Update(ctx context.Context, req domain.UpdateThemeRequest) (*domain.Theme, error)
	UploadLogo(ctx context.Context, filename, contentType string, r io.Reader) (*domain.Theme, error)
	LogoURL(ctx context.Context) (string, error)
}

type service struct {
	themeRepo ThemeStore
	assets    AssetStore
}

func NewService(themeRepo ThemeStore, assets AssetStore) Service {
	return &service{themeRepo: themeRepo, assets: assets}
}

func (s *service) Get(ctx context.Context) (*domain.Theme, error) {
	t, err := s.themeRepo.Get(ctx, domain.DefaultThemeID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Theme{
			ThemeID:      domain.DefaultThemeID,
			PrimaryColor: "#1a1a2e",
			AccentColor:  "#e94560",
		}, nil
	}
	return t, err
}

func (s *service) Update(ctx context.Context, req domain.UpdateThemeRequest) (*domain.Theme, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.PrimaryColor != nil {
		updates["primary_color"] = *req.PrimaryColor
	}
	if req.AccentColor != nil {
		updates["accent_color"] = *req.AccentColor
	}
	if len(updates) > 0 {
		if err := s.themeRepo.Update(ctx, domain.DefaultThemeID, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx)
}

func (s *service) UploadLogo(ctx context.Context, filename, contentType string, r io.Reader) (*domain.Theme, error) {
	key := "theme/logo/" + filename
	if _, err := s.assets.Upload(ctx, key, r, contentType); err != nil {
		return nil, err
	}
	if err := s.themeRepo.Update(ctx, domain.DefaultThemeID, map[string]interface{}{"logo_key": key}); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}

func (s *service) LogoURL(ctx context.Context) (string, error) {
	t, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if t.LogoKey == "" {
		return "", fmt.Errorf("no logo uploaded: %w", domain.ErrNotFound)
	}
	return s.assets.PresignedURL(ctx, t.LogoKey, 15*time.Minute)
}
