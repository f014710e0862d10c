package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"votegate/internal/repositories"
)

const defaultSweepInterval = 10 * time.Minute

// Sweeper deletes expired challenges and session tokens in the background so
// the collections do not grow without bound. Expiry is still enforced lazily
// on every read; the sweeper only reclaims storage.
type Sweeper struct {
	challengeRepo repositories.ChallengeRepository
	tokenRepo     repositories.TokenRepository
	interval      time.Duration
	stopCh        chan struct{}
}

func NewSweeper(challengeRepo repositories.ChallengeRepository, tokenRepo repositories.TokenRepository) *Sweeper {
	return &Sweeper{
		challengeRepo: challengeRepo,
		tokenRepo:     tokenRepo,
		interval:      defaultSweepInterval,
		stopCh:        make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.loop()
}

func (s *Sweeper) Stop() {
	close(s.stopCh)
}

func (s *Sweeper) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	challenges, err := s.challengeRepo.DeleteExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired challenges")
	}
	tokens, err := s.tokenRepo.DeleteExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired tokens")
	}
	if challenges > 0 || tokens > 0 {
		log.Info().Int64("challenges", challenges).Int64("tokens", tokens).Msg("Swept expired rows")
	}
}
