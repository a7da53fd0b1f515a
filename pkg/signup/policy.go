package signup

import (
	"time"

	"github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/invite"
)

// Policy answers whether signup is open and whether an invite is still usable
type Policy struct {
	enableSignup bool
	ttlHours     int
}

// NewPolicy creates a Policy from configuration
func NewPolicy(cfg config.SignupConfig) *Policy {
	return &Policy{
		enableSignup: cfg.EnableSignup,
		ttlHours:     cfg.TokenTTLHours(),
	}
}

// IsOpenSignupAllowed reports whether accounts may be created without an invite
func (p *Policy) IsOpenSignupAllowed() bool {
	return p.enableSignup
}

// TTLHours is the invite lifetime in hours
func (p *Policy) TTLHours() int {
	return p.ttlHours
}

// ComputeExpiry returns createdAt plus ttlHours. Non-positive ttlHours uses
// the default lifetime.
func ComputeExpiry(createdAt time.Time, ttlHours int) time.Time {
	if ttlHours <= 0 {
		ttlHours = config.DefaultTokenTimeToLiveHours
	}
	return createdAt.Add(time.Duration(ttlHours) * time.Hour)
}

// Expiry returns when token stops being usable
func (p *Policy) Expiry(token *invite.Token) time.Time {
	return ComputeExpiry(token.CreatedAt, p.ttlHours)
}

// IsTokenUsable is true iff token exists, is unredeemed and now is before its expiry
func (p *Policy) IsTokenUsable(token *invite.Token, now time.Time) bool {
	if token == nil || token.Redeemed {
		return false
	}
	return now.Before(p.Expiry(token))
}
