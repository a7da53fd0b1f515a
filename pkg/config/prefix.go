package config

// PrefixConfig holds configurable API endpoint prefixes for the route groups.
//
// Example environment variables:
//
//	API_PREFIX_SIGNUP=/api/v1/signup
//	API_PREFIX_SESSION=/api/v1/session
type PrefixConfig struct {
	Signup  string `env:"API_PREFIX_SIGNUP" env-default:"/api/v1/signup"`   // Signup preflight and registration
	Session string `env:"API_PREFIX_SESSION" env-default:"/api/v1/session"` // Current session and logout
}

// DefaultV1Prefixes returns the default v1 prefix configuration.
func DefaultV1Prefixes() PrefixConfig {
	return PrefixConfig{
		Signup:  "/api/v1/signup",
		Session: "/api/v1/session",
	}
}
