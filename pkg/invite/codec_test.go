package invite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	first, err := Fingerprint("abc123")
	require.NoError(t, err)
	second, err := Fingerprint("abc123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotContains(t, first, "abc123")
}

func TestFingerprint_DistinctTokens(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 200; i++ {
		raw, err := GenerateRawToken()
		require.NoError(t, err)

		fp, err := Fingerprint(raw)
		require.NoError(t, err)

		prev, dup := seen[fp]
		require.False(t, dup, "fingerprint collision between %q and %q", prev, raw)
		seen[fp] = raw
	}

	a, _ := Fingerprint("token-a")
	b, _ := Fingerprint("token-b")
	assert.NotEqual(t, a, b)
}

func TestFingerprint_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"embedded space", "abc def"},
		{"control character", "abc\x00def"},
		{"too long", strings.Repeat("a", maxRawTokenLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := Fingerprint(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidTokenFormat)
			assert.Empty(t, fp)
		})
	}
}

func TestGenerateRawToken(t *testing.T) {
	raw, err := GenerateRawToken()
	require.NoError(t, err)

	assert.Len(t, raw, 43)
	assert.NoError(t, ValidateFormat(raw))
}
