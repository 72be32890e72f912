package domain

import "time"

// PhoneVerification is the stored state of one issued OTP and its validation
// progress. PK: phone, SK: verification_id (ULID, so a descending query
// returns the most recent record first).
//
// Verified transitions false→true exactly once; Attempts only grows and is
// capped by the attempt-limit condition at the storage layer. A record
// superseded by a newer code never validates again.
type PhoneVerification struct {
	Phone          string    `json:"phone" dynamodbav:"phone"`
	VerificationID string    `json:"id" dynamodbav:"verification_id"`
	Code           string    `json:"-" dynamodbav:"code"`
	ExpiresAt      int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	Attempts       int       `json:"attempts" dynamodbav:"attempts"`
	Verified       bool      `json:"verified" dynamodbav:"verified"`
	Superseded     bool      `json:"superseded" dynamodbav:"superseded"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

// RequestCodeRequest is the body of POST /auth/phone/request.
type RequestCodeRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

// VerifyCodeRequest is the body of POST /auth/phone/verify.
type VerifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,numeric"`
}
