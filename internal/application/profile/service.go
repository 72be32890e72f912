package profile

import (
	"context"
	"fmt"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/validate"
)

type ProfileStore interface {
	Get(ctx context.Context, phone string) (*domain.Profile, error)
	Update(ctx context.Context, phone string, updates map[string]interface{}) error
}

type Service interface {
	Get(ctx context.Context, phone string) (*domain.Profile, error)
	Update(ctx context.Context, phone string, req domain.UpdateProfileRequest) (*domain.Profile, error)
}

type service struct {
	profileRepo ProfileStore
}

func NewService(profileRepo ProfileStore) Service {
	return &service{profileRepo: profileRepo}
}

func (s *service) Get(ctx context.Context, phone string) (*domain.Profile, error) {
	return s.profileRepo.Get(ctx, phone)
}

func (s *service) Update(ctx context.Context, phone string, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if len(updates) > 0 {
		if err := s.profileRepo.Update(ctx, phone, updates); err != nil {
			return nil, err
		}
	}
	return s.profileRepo.Get(ctx, phone)
}
