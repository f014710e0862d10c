package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConflictRecord is one rejected rebind attempt: an email already bound to
// WalletBound tried to bind WalletTried instead. Records are append-only and
// reviewed through the admin fraud interface.
type ConflictRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	WalletTried string             `bson:"wallet_tried" json:"walletTried"`
	WalletBound string             `bson:"wallet_bound" json:"walletBound"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
