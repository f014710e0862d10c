package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"votegate/internal/metrics"
	"votegate/internal/models"
	"votegate/internal/repositories"
)

type BindingService interface {
	Bind(ctx context.Context, email, token, wallet string) (string, error)
}

type bindingService struct {
	bindingRepo  repositories.BindingRepository
	conflictRepo repositories.ConflictRepository
	tokenRepo    repositories.TokenRepository
	now          func() time.Time
}

func NewBindingService(bindingRepo repositories.BindingRepository, conflictRepo repositories.ConflictRepository, tokenRepo repositories.TokenRepository) BindingService {
	return &bindingService{
		bindingRepo:  bindingRepo,
		conflictRepo: conflictRepo,
		tokenRepo:    tokenRepo,
		now:          time.Now,
	}
}

// Bind attaches a wallet to a verified email, exactly once per email.
//
// Outcomes: first bind creates the row; repeating with the same wallet is an
// idempotent success; a different wallet appends one ConflictRecord and
// returns *ConflictError naming the bound wallet. A lost insert race is
// detected by the store's key on email, never assumed absent here, so two
// concurrent first binds resolve to one winner and one recorded conflict.
func (s *bindingService) Bind(ctx context.Context, email, token, wallet string) (string, error) {
	email = NormalizeEmail(email)

	st, err := s.tokenRepo.Find(ctx, token)
	if err != nil {
		return "", err
	}
	if st == nil || st.Email != email || st.Expired(s.now()) {
		return "", fmt.Errorf("%w: invalid session token", ErrAuth)
	}

	wallet = strings.ToLower(strings.TrimSpace(wallet))
	if wallet == "" {
		return "", fmt.Errorf("%w: wallet address required", ErrValidation)
	}

	existing, err := s.bindingRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if existing == nil {
		created := &models.Binding{Email: email, Wallet: wallet, CreatedAt: s.now()}
		err := s.bindingRepo.Create(ctx, created)
		if err == nil {
			metrics.BindTotal.WithLabelValues("created").Inc()
			log.Info().Str("email", email).Str("wallet", wallet).Msg("Wallet bound")
			return wallet, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateEmail) {
			return "", err
		}
		// A concurrent bind won the insert. Re-read and judge against the
		// winner like any other rebind attempt.
		existing, err = s.bindingRepo.FindByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return "", fmt.Errorf("binding for %s vanished after duplicate insert", email)
		}
	}

	if existing.Wallet == wallet {
		metrics.BindTotal.WithLabelValues("reconfirmed").Inc()
		return existing.Wallet, nil
	}

	record := &models.ConflictRecord{
		Email:       email,
		WalletTried: wallet,
		WalletBound: existing.Wallet,
		CreatedAt:   s.now(),
	}
	if _, err := s.conflictRepo.Append(ctx, record); err != nil {
		return "", err
	}

	metrics.BindTotal.WithLabelValues("conflict").Inc()
	metrics.ConflictsRecordedTotal.Inc()
	log.Warn().
		Str("email", email).
		Str("wallet_tried", wallet).
		Str("wallet_bound", existing.Wallet).
		Msg("Rebind attempt rejected")
	return "", &ConflictError{BoundWallet: existing.Wallet}
}
