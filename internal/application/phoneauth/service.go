package phoneauth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
	"github.com/storefront-api/internal/pkg/otp"
	pkgtoken "github.com/storefront-api/internal/pkg/token"
	"github.com/storefront-api/internal/pkg/validate"
)

// VerificationStore is the persistence adapter for phone verification records.
type VerificationStore interface {
	Put(ctx context.Context, v *domain.PhoneVerification) error
	ClaimCooldown(ctx context.Context, phone string, now time.Time, cooldown time.Duration) error
	ReleaseCooldown(ctx context.Context, phone string) error
	LatestUnverified(ctx context.Context, phone string) (*domain.PhoneVerification, error)
	IncrementAttempts(ctx context.Context, phone, verificationID string, maxAttempts int) error
	MarkVerified(ctx context.Context, phone, verificationID string, maxAttempts int) error
	MarkSuperseded(ctx context.Context, phone, verificationID string) error
	Delete(ctx context.Context, phone, verificationID string) error
}

// SessionStore persists customer sessions.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
}

// ProfileStore creates the customer profile on first login.
type ProfileStore interface {
	EnsureExists(ctx context.Context, phone string, now time.Time) error
}

// SMSSender dispatches the code out-of-band.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// JWTSigner mints the short-lived bearer issued next to the session token.
type JWTSigner interface {
	Sign(phone, role, sessionToken string) (string, error)
}

// Policy holds the verification policy constants. All of them are
// configuration; nothing here is hardcoded behavior.
type Policy struct {
	CodeLength    int
	CodeTTL       time.Duration
	MaxAttempts   int
	IssueCooldown time.Duration
	SessionTTL    time.Duration
	AdminPhones   []string
}

// LoginResult is returned on successful code verification.
type LoginResult struct {
	Bearer  string
	Session *domain.Session
}

type Service interface {
	// RequestCode issues a fresh verification code for phone and dispatches
	// it by SMS. Fails with ErrInvalidPhone, ErrRateLimited or
	// ErrDispatchFailed.
	RequestCode(ctx context.Context, phone string) error
	// VerifyCode validates a submitted code and, on success, establishes a
	// session for the phone. Fails with ErrNotFound, ErrCodeExpired,
	// ErrAttemptsExceeded or ErrInvalidCode.
	VerifyCode(ctx context.Context, phone, code string) (*LoginResult, error)
}

type ServiceDeps struct {
	VerificationRepo VerificationStore
	SessionRepo      SessionStore
	ProfileRepo      ProfileStore
	SMSSender        SMSSender
	JWTProvider      JWTSigner
	Policy           Policy
	// Now is the clock; defaults to time.Now. Tests pin it.
	Now func() time.Time
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

func (s *service) RequestCode(ctx context.Context, phone string) error {
	if err := validate.Var(phone, "required,e164"); err != nil {
		return fmt.Errorf("phone %q: %w", phone, domain.ErrInvalidPhone)
	}
	now := s.deps.Now().UTC()

	// Atomic claim: at most one issuance per phone per cooldown window,
	// even under concurrent requests.
	if err := s.deps.VerificationRepo.ClaimCooldown(ctx, phone, now, s.deps.Policy.IssueCooldown); err != nil {
		return err
	}

	// Retire the previous outstanding code so "latest" is an explicit state.
	if prev, err := s.deps.VerificationRepo.LatestUnverified(ctx, phone); err == nil {
		if err := s.deps.VerificationRepo.MarkSuperseded(ctx, phone, prev.VerificationID); err != nil {
			slog.Warn("failed to supersede prior verification", "phone", phone, "verification_id", prev.VerificationID, "err", err)
		}
	}

	code, err := otp.Generate(s.deps.Policy.CodeLength)
	if err != nil {
		return err
	}
	v := &domain.PhoneVerification{
		Phone:          phone,
		VerificationID: id.New(),
		Code:           code,
		ExpiresAt:      now.Add(s.deps.Policy.CodeTTL).Unix(),
		Attempts:       0,
		Verified:       false,
		Superseded:     false,
		CreatedAt:      now,
	}
	if err := s.deps.VerificationRepo.Put(ctx, v); err != nil {
		return err
	}

	if err := s.deps.SMSSender.SendSMS(ctx, phone, "Your verification code: "+code); err != nil {
		// The record must not stay validatable when the user was never sent
		// the code, and the cooldown must not block an immediate retry.
		if delErr := s.deps.VerificationRepo.Delete(ctx, phone, v.VerificationID); delErr != nil {
			slog.Warn("failed to roll back verification after dispatch failure", "phone", phone, "err", delErr)
		}
		if relErr := s.deps.VerificationRepo.ReleaseCooldown(ctx, phone); relErr != nil {
			slog.Warn("failed to release cooldown after dispatch failure", "phone", phone, "err", relErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, phone, code string) (*LoginResult, error) {
	if err := validate.Var(phone, "required,e164"); err != nil {
		return nil, fmt.Errorf("phone %q: %w", phone, domain.ErrInvalidPhone)
	}
	now := s.deps.Now().UTC()

	v, err := s.deps.VerificationRepo.LatestUnverified(ctx, phone)
	if err != nil {
		return nil, err
	}
	if now.Unix() > v.ExpiresAt {
		return nil, fmt.Errorf("code issued at %s: %w", v.CreatedAt.Format(time.RFC3339), domain.ErrCodeExpired)
	}
	if v.Attempts >= s.deps.Policy.MaxAttempts {
		return nil, fmt.Errorf("%d failed attempts: %w", v.Attempts, domain.ErrAttemptsExceeded)
	}
	if v.Code != code {
		// The increment must land before we answer, so an immediate retry
		// sees the updated count. It is conditional on the cap at the store,
		// so racing mismatches cannot overshoot it.
		if err := s.deps.VerificationRepo.IncrementAttempts(ctx, phone, v.VerificationID, s.deps.Policy.MaxAttempts); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("code mismatch: %w", domain.ErrInvalidCode)
	}

	// Single-use: the conditional flip fails if the record was consumed or
	// superseded since the read above.
	if err := s.deps.VerificationRepo.MarkVerified(ctx, phone, v.VerificationID, s.deps.Policy.MaxAttempts); err != nil {
		return nil, err
	}

	if err := s.deps.ProfileRepo.EnsureExists(ctx, phone, now); err != nil {
		slog.Warn("failed to create profile on first login", "phone", phone, "err", err)
	}

	return s.createSession(ctx, phone, now)
}

// createSession runs only on the verified path; it is not reachable from any
// exported entry point with an unverified phone.
func (s *service) createSession(ctx context.Context, phone string, now time.Time) (*LoginResult, error) {
	sessionToken, err := pkgtoken.NewSessionToken()
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		SessionToken: sessionToken,
		Phone:        phone,
		Role:         s.roleFor(phone),
		Enable:       true,
		ExpiresAt:    now.Add(s.deps.Policy.SessionTTL).Unix(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deps.SessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	bearer, err := s.deps.JWTProvider.Sign(phone, sess.Role, sessionToken)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Bearer: bearer, Session: sess}, nil
}

func (s *service) roleFor(phone string) string {
	for _, p := range s.deps.Policy.AdminPhones {
		if p == phone {
			return domain.RoleAdmin
		}
	}
	return domain.RoleCustomer
}
