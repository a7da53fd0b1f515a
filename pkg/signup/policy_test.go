package signup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/invite"
)

func TestComputeExpiry(t *testing.T) {
	t0 := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, t0.Add(72*time.Hour), ComputeExpiry(t0, 72))
	assert.Equal(t, t0.Add(time.Hour), ComputeExpiry(t0, 1))
	assert.Equal(t, t0.Add(72*time.Hour), ComputeExpiry(t0, 0))
	assert.Equal(t, t0.Add(72*time.Hour), ComputeExpiry(t0, -5))
}

func TestPolicy_IsTokenUsable(t *testing.T) {
	t0 := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	policy := NewPolicy(config.SignupConfig{TokenTimeToLiveHours: 72})
	token := &invite.Token{CreatedAt: t0}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at creation", t0, true},
		{"one hour later", t0.Add(time.Hour), true},
		{"just before expiry", t0.Add(72*time.Hour - time.Nanosecond), true},
		{"at expiry", t0.Add(72 * time.Hour), false},
		{"after expiry", t0.Add(73 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsTokenUsable(token, tt.now))
		})
	}

	t.Run("redeemed", func(t *testing.T) {
		assert.False(t, policy.IsTokenUsable(&invite.Token{CreatedAt: t0, Redeemed: true}, t0))
	})
	t.Run("nil", func(t *testing.T) {
		assert.False(t, policy.IsTokenUsable(nil, t0))
	})
}

func TestPolicy_OpenSignup(t *testing.T) {
	assert.False(t, NewPolicy(config.SignupConfig{}).IsOpenSignupAllowed())
	assert.True(t, NewPolicy(config.SignupConfig{EnableSignup: true}).IsOpenSignupAllowed())
	assert.Equal(t, 72, NewPolicy(config.SignupConfig{}).TTLHours())
}
