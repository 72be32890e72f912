package session

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-api/internal/domain"
	pkgtoken "github.com/storefront-api/internal/pkg/token"
)

// SessionStore is the persistence adapter for customer sessions.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionToken string) (*domain.Session, error)
	Update(ctx context.Context, sessionToken string, updates map[string]interface{}) error
	Delete(ctx context.Context, sessionToken string) error
}

// JWTSigner mints bearers on refresh.
type JWTSigner interface {
	Sign(phone, role, sessionToken string) (string, error)
}

type RefreshResult struct {
	Bearer       string
	SessionToken string
}

type Service interface {
	// Resolve maps an opaque session token back to its session. Expired or
	// disabled sessions resolve to "no session" (ErrUnauthorized), never to
	// an infrastructure error.
	Resolve(ctx context.Context, sessionToken string) (*domain.Session, error)
	// Refresh exchanges a live session token for a fresh bearer, rotating
	// the token and renewing the session TTL.
	Refresh(ctx context.Context, sessionToken string) (*RefreshResult, error)
	// Logout disables the session. Idempotent from the caller's view.
	Logout(ctx context.Context, sessionToken string) error
}

type ServiceDeps struct {
	SessionRepo SessionStore
	JWTProvider JWTSigner
	SessionTTL  time.Duration
	Now         func() time.Time
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{deps: deps}
}

func (s *service) Resolve(ctx context.Context, sessionToken string) (*domain.Session, error) {
	sess, err := s.deps.SessionRepo.Get(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !sess.Active(s.deps.Now()) {
		return nil, fmt.Errorf("session expired or disabled: %w", domain.ErrUnauthorized)
	}
	return sess, nil
}

func (s *service) Refresh(ctx context.Context, sessionToken string) (*RefreshResult, error) {
	sess, err := s.Resolve(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	newToken, err := pkgtoken.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := s.deps.Now().UTC()
	rotated := &domain.Session{
		SessionToken: newToken,
		Phone:        sess.Phone,
		Role:         sess.Role,
		Enable:       true,
		ExpiresAt:    now.Add(s.deps.SessionTTL).Unix(),
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    now,
	}
	if err := s.deps.SessionRepo.Put(ctx, rotated); err != nil {
		return nil, err
	}
	if err := s.deps.SessionRepo.Delete(ctx, sessionToken); err != nil {
		return nil, err
	}

	bearer, err := s.deps.JWTProvider.Sign(rotated.Phone, rotated.Role, newToken)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{Bearer: bearer, SessionToken: newToken}, nil
}

func (s *service) Logout(ctx context.Context, sessionToken string) error {
	return s.deps.SessionRepo.Update(ctx, sessionToken, map[string]interface{}{"enable": false})
}
