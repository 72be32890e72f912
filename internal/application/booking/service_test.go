package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) Put(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookingStore) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if b, _ := args.Get(0).(*domain.Booking); b != nil {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBookingStore) ListByPhone(ctx context.Context, phone string) ([]domain.Booking, error) {
	args := m.Called(ctx, phone)
	if l, _ := args.Get(0).([]domain.Booking); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBookingStore) ListConfirmedOverlapping(ctx context.Context, start, end time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, start, end)
	if l, _ := args.Get(0).([]domain.Booking); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBookingStore) Update(ctx context.Context, bookingID string, updates map[string]interface{}) error {
	return m.Called(ctx, bookingID, updates).Error(0)
}

const testPhone = "+15550001111"

var testNow = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func newTestService(bs *mockBookingStore) Service {
	return NewService(ServiceDeps{
		BookingRepo: bs,
		Now:         func() time.Time { return testNow },
	})
}

func slot(offset, length time.Duration) (time.Time, time.Time) {
	start := testNow.Add(offset)
	return start, start.Add(length)
}

func TestCreate_FreeSlot(t *testing.T) {
	bs := &mockBookingStore{}
	start, end := slot(24*time.Hour, time.Hour)

	bs.On("ListConfirmedOverlapping", mock.Anything, start, end).Return([]domain.Booking{}, nil)
	bs.On("Put", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Phone == testPhone && b.Status == domain.BookingPending && b.BookingID != ""
	})).Return(nil)

	svc := newTestService(bs)
	b, err := svc.Create(context.Background(), testPhone, domain.CreateBookingRequest{
		StartsAt: start,
		EndsAt:   end,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	bs.AssertExpectations(t)
}

func TestCreate_EndBeforeStart_BadRequest(t *testing.T) {
	svc := newTestService(nil)
	start, end := slot(24*time.Hour, time.Hour)

	_, err := svc.Create(context.Background(), testPhone, domain.CreateBookingRequest{
		StartsAt: end,
		EndsAt:   start,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_PastSlot_BadRequest(t *testing.T) {
	svc := newTestService(nil)
	start, end := slot(-2*time.Hour, time.Hour)

	_, err := svc.Create(context.Background(), testPhone, domain.CreateBookingRequest{
		StartsAt: start,
		EndsAt:   end,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_SlotTakenByConfirmedBooking_Conflict(t *testing.T) {
	bs := &mockBookingStore{}
	start, end := slot(24*time.Hour, time.Hour)

	bs.On("ListConfirmedOverlapping", mock.Anything, start, end).Return([]domain.Booking{
		{BookingID: "b-other", Status: domain.BookingConfirmed},
	}, nil)

	svc := newTestService(bs)
	_, err := svc.Create(context.Background(), testPhone, domain.CreateBookingRequest{
		StartsAt: start,
		EndsAt:   end,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	bs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestGetMine_OtherCustomersBooking_ReadsAsNotFound(t *testing.T) {
	bs := &mockBookingStore{}
	bs.On("Get", mock.Anything, "b1").Return(&domain.Booking{
		BookingID: "b1",
		Phone:     "+15559998888",
	}, nil)

	svc := newTestService(bs)
	_, err := svc.GetMine(context.Background(), testPhone, "b1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConfirm_PendingBooking(t *testing.T) {
	bs := &mockBookingStore{}
	start, end := slot(24*time.Hour, time.Hour)

	bs.On("Get", mock.Anything, "b1").Return(&domain.Booking{
		BookingID: "b1",
		Phone:     testPhone,
		StartsAt:  start,
		EndsAt:    end,
		Status:    domain.BookingPending,
	}, nil)
	bs.On("ListConfirmedOverlapping", mock.Anything, start, end).Return([]domain.Booking{}, nil)
	bs.On("Update", mock.Anything, "b1", map[string]interface{}{"status": domain.BookingConfirmed}).Return(nil)

	svc := newTestService(bs)
	b, err := svc.Confirm(context.Background(), "b1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestConfirm_SlotTakenSinceCreation_Conflict(t *testing.T) {
	bs := &mockBookingStore{}
	start, end := slot(24*time.Hour, time.Hour)

	bs.On("Get", mock.Anything, "b1").Return(&domain.Booking{
		BookingID: "b1",
		StartsAt:  start,
		EndsAt:    end,
		Status:    domain.BookingPending,
	}, nil)
	// Another pending booking for the overlapping window got confirmed first.
	bs.On("ListConfirmedOverlapping", mock.Anything, start, end).Return([]domain.Booking{
		{BookingID: "b-winner", Status: domain.BookingConfirmed},
	}, nil)

	svc := newTestService(bs)
	_, err := svc.Confirm(context.Background(), "b1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	bs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_AlreadyCancelled_Conflict(t *testing.T) {
	bs := &mockBookingStore{}
	bs.On("Get", mock.Anything, "b1").Return(&domain.Booking{
		BookingID: "b1",
		Status:    domain.BookingCancelled,
	}, nil)

	svc := newTestService(bs)
	_, err := svc.Confirm(context.Background(), "b1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCancelMine_Idempotent(t *testing.T) {
	bs := &mockBookingStore{}
	bs.On("Get", mock.Anything, "b1").Return(&domain.Booking{
		BookingID: "b1",
		Phone:     testPhone,
		Status:    domain.BookingCancelled,
	}, nil)

	svc := newTestService(bs)
	b, err := svc.CancelMine(context.Background(), testPhone, "b1")

	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	bs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestOverlaps(t *testing.T) {
	start, end := slot(24*time.Hour, time.Hour)
	b := &domain.Booking{StartsAt: start, EndsAt: end}

	assert.True(t, b.Overlaps(start.Add(30*time.Minute), end.Add(30*time.Minute)))
	assert.True(t, b.Overlaps(start.Add(-30*time.Minute), start.Add(time.Minute)))
	assert.False(t, b.Overlaps(end, end.Add(time.Hour)))
	assert.False(t, b.Overlaps(start.Add(-time.Hour), start))
}
