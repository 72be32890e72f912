package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SNSRegion string

	// Phone verification policy. These are policy choices, not behavior
	// baked into the auth flow.
	CodeLength    int
	CodeTTL       time.Duration
	MaxAttempts   int
	IssueCooldown time.Duration
	SessionTTL    time.Duration

	// Phones granted the admin role on login.
	AdminPhones []string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	PhoneVerifications string
	Sessions           string
	Profiles           string
	Items              string
	Orders             string
	OrderItems         string
	Bookings           string
	Themes             string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			PhoneVerifications: getEnv("DYNAMO_TABLE_PHONE_VERIFICATIONS", "phone_verifications"),
			Sessions:           getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Profiles:           getEnv("DYNAMO_TABLE_PROFILES", "profiles"),
			Items:              getEnv("DYNAMO_TABLE_ITEMS", "items"),
			Orders:             getEnv("DYNAMO_TABLE_ORDERS", "orders"),
			OrderItems:         getEnv("DYNAMO_TABLE_ORDER_ITEMS", "order_items"),
			Bookings:           getEnv("DYNAMO_TABLE_BOOKINGS", "bookings"),
			Themes:             getEnv("DYNAMO_TABLE_THEMES", "themes"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "storefront-assets"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 15*time.Minute),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		CodeLength:    getEnvInt("OTP_CODE_LENGTH", 6),
		CodeTTL:       getEnvDuration("OTP_CODE_TTL", 5*time.Minute),
		MaxAttempts:   getEnvInt("OTP_MAX_ATTEMPTS", 5),
		IssueCooldown: getEnvDuration("OTP_ISSUE_COOLDOWN", 60*time.Second),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),

		AdminPhones: splitNonEmpty(getEnv("ADMIN_PHONES", "")),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
