package invite

import (
	"time"

	"github.com/google/uuid"
)

// Token is a persisted invite. Only the fingerprint of the raw token is stored.
type Token struct {
	ID          uuid.UUID  `json:"id"`
	Fingerprint string     `json:"-"`
	GroupID     *uuid.UUID `json:"group_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Redeemed    bool       `json:"redeemed"`
	RedeemedAt  *time.Time `json:"redeemed_at,omitempty"`
}

// CreateTokenParams contains parameters for storing a new invite
type CreateTokenParams struct {
	Fingerprint string
	GroupID     *uuid.UUID
}
