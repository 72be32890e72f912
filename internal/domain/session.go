package domain

import "time"

// Roles carried in the bearer claims.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Session is an authenticated customer session bound to a verified phone.
// SessionToken is an opaque random credential; the phone is the join key to
// profiles, orders and bookings.
type Session struct {
	SessionToken string    `json:"-" dynamodbav:"session_token"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	Role         string    `json:"role" dynamodbav:"role"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Active reports whether the session can still resolve an identity.
// Expired or disabled sessions resolve to "no session", never to an error.
func (s *Session) Active(now time.Time) bool {
	return s.Enable && s.ExpiresAt >= now.Unix()
}
