package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

var otpMax = big.NewInt(1000000)

// GenerateOTP returns a uniformly random 6-digit code, left-padded with
// zeros ("000000" through "999999").
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateSessionToken returns an opaque unguessable token id.
func GenerateSessionToken() string {
	return uuid.NewString()
}
