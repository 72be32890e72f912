package domain

import "time"

// Profile is the customer-facing record keyed by verified phone number.
// Created lazily on first successful phone verification.
type Profile struct {
	Phone     string    `json:"phone" dynamodbav:"phone"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}
