package domain

import "time"

// Booking lifecycle states.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a reserved time slot, joined to the customer by phone.
type Booking struct {
	BookingID string    `json:"id" dynamodbav:"booking_id"`
	Phone     string    `json:"phone" dynamodbav:"phone"`
	StartsAt  time.Time `json:"starts_at" dynamodbav:"starts_at"`
	EndsAt    time.Time `json:"ends_at" dynamodbav:"ends_at"`
	Status    string    `json:"status" dynamodbav:"status"`
	Note      string    `json:"note,omitempty" dynamodbav:"note"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateBookingRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required"`
	Note     string    `json:"note"`
}

// Overlaps reports whether two time ranges intersect.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && start.Before(b.EndsAt)
}
