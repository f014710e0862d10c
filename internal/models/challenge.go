package models

import (
	"time"
)

// OtpChallenge is the single active one-time-password challenge for an email.
// A new send replaces the previous challenge (latest code wins); a challenge
// is deleted on first successful verify.
type OtpChallenge struct {
	Email     string    `bson:"_id" json:"email"`
	Code      string    `bson:"code" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

func (c *OtpChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
