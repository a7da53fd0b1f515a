// Package config provides the configuration structs for simple-wishlist.
//
// Every struct carries cleanenv tags so binaries load the whole
// configuration in one call:
//
//	var cfg struct {
//		Database config.DatabaseConfig
//		Signup   config.SignupConfig
//	}
//	if err := cleanenv.ReadEnv(&cfg); err != nil {
//		// ...
//	}
//
// Signup settings:
//   - SIGNUP_ENABLED: allow signup without an invite token (default false)
//   - TOKEN_TIME: invite token lifetime in hours (default 72)
package config
