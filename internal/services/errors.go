package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the registry's outcome taxonomy. Handlers map these to
// HTTP status codes with errors.Is/errors.As, so every call site is forced to
// handle each outcome instead of pattern-matching on message strings.
var (
	// ErrValidation: malformed input (bad email domain, empty wallet).
	// Client-fixable, no retry needed.
	ErrValidation = errors.New("validation failed")

	// ErrAuth: missing, wrong or expired code/token. Deliberately generic so
	// a caller cannot tell "no challenge" from "wrong code" from "expired".
	ErrAuth = errors.New("code invalid or expired")

	// ErrTooSoon: a challenge for this email was issued less than the resend
	// interval ago.
	ErrTooSoon = errors.New("resend requested too soon")

	// ErrNoTransport: the mailer has no configured SMTP transport.
	ErrNoTransport = errors.New("mail transport not configured")

	// ErrDelivery: the mailer accepted the message but failed to send it.
	ErrDelivery = errors.New("mail delivery failed")
)

// ConflictError reports a bind attempt against an email already bound to a
// different wallet. It carries the bound wallet so the client can explain the
// rejection; the binding itself is never modified.
type ConflictError struct {
	BoundWallet string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Email da gan voi vi %s", e.BoundWallet)
}
