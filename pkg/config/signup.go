package config

// DefaultTokenTimeToLiveHours is the invite lifetime used when TOKEN_TIME is unset.
const DefaultTokenTimeToLiveHours = 72

// SignupConfig controls who may create an account.
type SignupConfig struct {
	// EnableSignup allows self-serve signup without an invite token.
	EnableSignup bool `env:"SIGNUP_ENABLED" env-default:"false"`

	// TokenTimeToLiveHours is how long an invite token stays usable after creation.
	TokenTimeToLiveHours int `env:"TOKEN_TIME" env-default:"72"`
}

// TokenTTLHours returns the configured lifetime, falling back to the default
// for zero or negative values.
func (s SignupConfig) TokenTTLHours() int {
	if s.TokenTimeToLiveHours <= 0 {
		return DefaultTokenTimeToLiveHours
	}
	return s.TokenTimeToLiveHours
}
