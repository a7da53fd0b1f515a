package config

// RateLimitConfig contains per-IP limits for the signup endpoint.
type RateLimitConfig struct {
	Enabled bool `env:"SIGNUP_RATE_LIMIT_ENABLED" env-default:"true"`

	// Burst is the number of signup attempts allowed back to back.
	Burst int `env:"SIGNUP_RATE_LIMIT_BURST" env-default:"5"`

	// RefillRate is attempts per second added back to the bucket.
	RefillRate float64 `env:"SIGNUP_RATE_LIMIT_REFILL" env-default:"0.1"`
}
