package domain

import "time"

// DefaultThemeID keys the single theme record of the shop.
const DefaultThemeID = "default"

// Theme holds the storefront customization settings.
type Theme struct {
	ThemeID      string    `json:"-" dynamodbav:"theme_id"`
	DisplayName  string    `json:"display_name" dynamodbav:"display_name"`
	PrimaryColor string    `json:"primary_color" dynamodbav:"primary_color"`
	AccentColor  string    `json:"accent_color" dynamodbav:"accent_color"`
	LogoKey      string    `json:"logo_key,omitempty" dynamodbav:"logo_key"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type UpdateThemeRequest struct {
	DisplayName  *string `json:"display_name"`
	PrimaryColor *string `json:"primary_color" validate:"omitempty,hexcolor"`
	AccentColor  *string `json:"accent_color" validate:"omitempty,hexcolor"`
}
