package invite

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// maxRawTokenLength bounds what we are willing to hash from a request.
const maxRawTokenLength = 512

// ErrInvalidTokenFormat is returned for empty or malformed raw tokens.
var ErrInvalidTokenFormat = errors.New("invalid invite token format")

// Fingerprint returns the hex encoded SHA-256 digest of a raw invite token.
// Equal tokens always produce equal fingerprints; the raw token cannot be
// recovered from the result.
func Fingerprint(raw string) (string, error) {
	if err := ValidateFormat(raw); err != nil {
		return "", err
	}
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}

// ValidateFormat checks that raw looks like something we could have issued.
func ValidateFormat(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidTokenFormat
	}
	if len(raw) > maxRawTokenLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidTokenFormat, maxRawTokenLength)
	}
	for _, r := range raw {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return fmt.Errorf("%w: unexpected character %q", ErrInvalidTokenFormat, r)
		}
	}
	return nil
}

// GenerateRawToken creates a new URL-safe invite token from 32 random bytes.
func GenerateRawToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
