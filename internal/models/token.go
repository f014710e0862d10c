package models

import (
	"time"
)

// SessionToken proves that an email address passed OTP verification recently.
// It grants nothing beyond the right to attempt one wallet bind for that email;
// several tokens for the same email may coexist.
type SessionToken struct {
	Token     string    `bson:"_id" json:"token"`
	Email     string    `bson:"email" json:"email"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

func (t *SessionToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
