package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/pkg/id"
	"github.com/storefront-api/internal/pkg/validate"
)

type BookingStore interface {
	Put(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListByPhone(ctx context.Context, phone string) ([]domain.Booking, error)
	ListConfirmedOverlapping(ctx context.Context, start, end time.Time) ([]domain.Booking, error)
	Update(ctx context.Context, bookingID string, updates map[string]interface{}) error
}

type Service interface {
	// Create reserves a slot in pending state. Slots colliding with a
	// confirmed booking are rejected.
	Create(ctx context.Context, phone string, req domain.CreateBookingRequest) (*domain.Booking, error)
	ListMine(ctx context.Context, phone string) ([]domain.Booking, error)
	GetMine(ctx context.Context, phone, bookingID string) (*domain.Booking, error)
	CancelMine(ctx context.Context, phone, bookingID string) (*domain.Booking, error)

	// Admin operations. Confirming re-checks the slot against other
	// confirmed bookings.
	Confirm(ctx context.Context, bookingID string) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*domain.Booking, error)
}

type ServiceDeps struct {
	BookingRepo BookingStore
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

func (s *service) Create(ctx context.Context, phone string, req domain.CreateBookingRequest) (*domain.Booking, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	now := s.deps.Now().UTC()
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("end must be after start: %w", domain.ErrBadRequest)
	}
	if req.StartsAt.Before(now) {
		return nil, fmt.Errorf("slot is in the past: %w", domain.ErrBadRequest)
	}
	if err := s.checkSlotFree(ctx, req.StartsAt, req.EndsAt, ""); err != nil {
		return nil, err
	}

	b := &domain.Booking{
		BookingID: id.New(),
		Phone:     phone,
		StartsAt:  req.StartsAt.UTC(),
		EndsAt:    req.EndsAt.UTC(),
		Status:    domain.BookingPending,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.deps.BookingRepo.Put(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListMine(ctx context.Context, phone string) ([]domain.Booking, error) {
	return s.deps.BookingRepo.ListByPhone(ctx, phone)
}

func (s *service) GetMine(ctx context.Context, phone, bookingID string) (*domain.Booking, error) {
	b, err := s.deps.BookingRepo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Phone != phone {
		return nil, fmt.Errorf("booking not found: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (s *service) CancelMine(ctx context.Context, phone, bookingID string) (*domain.Booking, error) {
	b, err := s.GetMine(ctx, phone, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, b)
}

func (s *service) Confirm(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.deps.BookingRepo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, fmt.Errorf("booking is %s: %w", b.Status, domain.ErrConflict)
	}
	if err := s.checkSlotFree(ctx, b.StartsAt, b.EndsAt, b.BookingID); err != nil {
		return nil, err
	}
	if err := s.deps.BookingRepo.Update(ctx, bookingID, map[string]interface{}{"status": domain.BookingConfirmed}); err != nil {
		return nil, err
	}
	b.Status = domain.BookingConfirmed
	return b, nil
}

func (s *service) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.deps.BookingRepo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, b)
}

func (s *service) cancel(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if b.Status == domain.BookingCancelled {
		return b, nil
	}
	if err := s.deps.BookingRepo.Update(ctx, b.BookingID, map[string]interface{}{"status": domain.BookingCancelled}); err != nil {
		return nil, err
	}
	b.Status = domain.BookingCancelled
	return b, nil
}

func (s *service) checkSlotFree(ctx context.Context, start, end time.Time, excludeID string) error {
	overlapping, err := s.deps.BookingRepo.ListConfirmedOverlapping(ctx, start, end)
	if err != nil {
		return err
	}
	for i := range overlapping {
		if overlapping[i].BookingID != excludeID {
			return fmt.Errorf("slot already booked: %w", domain.ErrConflict)
		}
	}
	return nil
}
