// Package fraudguard is the browser-side reaction to server-reported bind
// conflicts. It is defense in depth only: everything here is advisory, a
// cleared profile or a different browser bypasses it, and the server-side
// binding registry stays the sole authority.
package fraudguard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type State string

const (
	StateUnverified State = "unverified"
	StateEmailSent  State = "email_sent"
	StateVerified   State = "verified"
	StateBound      State = "bound"
	StateFraudulent State = "fraudulent"
)

var ErrInvalidTransition = errors.New("invalid fraud guard transition")

// WalletConnector is the wallet-provider surface the guard tears down when a
// conflict is reported.
type WalletConnector interface {
	Disconnect() error
	RevokePermissions() error
}

// Guard tracks where one browser session is in the verify-then-bind flow and
// reacts to bind outcomes.
type Guard struct {
	state     State
	connector WalletConnector
	blocks    BlockStore
}

func New(connector WalletConnector, blocks BlockStore) *Guard {
	return &Guard{state: StateUnverified, connector: connector, blocks: blocks}
}

func (g *Guard) State() State {
	return g.state
}

func (g *Guard) transition(from, to State) error {
	if g.state != from {
		return fmt.Errorf("%w: %s -> %s while in %s", ErrInvalidTransition, from, to, g.state)
	}
	g.state = to
	return nil
}

// EmailSent records that an OTP send succeeded.
func (g *Guard) EmailSent() error {
	return g.transition(StateUnverified, StateEmailSent)
}

// Verified records a successful OTP verification.
func (g *Guard) Verified() error {
	return g.transition(StateEmailSent, StateVerified)
}

// BindSucceeded records a successful (or idempotently reconfirmed) bind.
func (g *Guard) BindSucceeded() error {
	return g.transition(StateVerified, StateBound)
}

// BindConflicted reacts to a server-reported conflict: the session becomes
// Fraudulent, the wallet connection is torn down and the wallet lands in the
// local block set so this browser refuses it before asking the server again.
// Revocation is best-effort; a failure is logged and nothing else.
func (g *Guard) BindConflicted(wallet string) error {
	if err := g.transition(StateVerified, StateFraudulent); err != nil {
		return err
	}

	wallet = strings.ToLower(strings.TrimSpace(wallet))

	if err := g.connector.Disconnect(); err != nil {
		log.Warn().Err(err).Str("wallet", wallet).Msg("Failed to disconnect wallet")
	}
	if err := g.connector.RevokePermissions(); err != nil {
		log.Warn().Err(err).Str("wallet", wallet).Msg("Failed to revoke wallet permissions")
	}

	if err := g.blocks.Add(wallet); err != nil {
		log.Warn().Err(err).Str("wallet", wallet).Msg("Failed to persist wallet block")
	}
	return nil
}

// Blocked reports whether the local advisory block set contains the wallet.
// Consulted before a bind attempt to short-circuit known offenders; the
// server never reads it.
func (g *Guard) Blocked(wallet string) bool {
	blocked, err := g.blocks.Contains(strings.ToLower(strings.TrimSpace(wallet)))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read wallet block set")
		return false
	}
	return blocked
}
