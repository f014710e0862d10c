package models

import (
	"time"
)

// Binding is the authoritative email-to-wallet row. At most one exists per
// email, enforced by the unique key on Email, and it is immutable after
// creation: a bind call may reconfirm the same wallet but never replace it.
type Binding struct {
	Email     string    `bson:"_id" json:"email"`
	Wallet    string    `bson:"wallet" json:"wallet"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
