package domain

import "time"

// Item is a catalog entry on the public shop page.
// Active is stored as 1/0 so it can back the active-index GSI.
type Item struct {
	ItemID      string    `json:"id" dynamodbav:"item_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	PriceCents  int64     `json:"price_cents" dynamodbav:"price_cents"`
	Currency    string    `json:"currency" dynamodbav:"currency"`
	ImageKey    string    `json:"image_key,omitempty" dynamodbav:"image_key"`
	Active      int       `json:"active" dynamodbav:"active"` // 1 = listed, 0 = delisted
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateItemRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" validate:"required,gt=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
}

type UpdateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,gt=0"`
	Currency    *string `json:"currency" validate:"omitempty,len=3"`
	Active      *int    `json:"active" validate:"omitempty,oneof=0 1"`
}
