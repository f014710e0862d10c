package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"votegate/internal/metrics"
	"votegate/internal/models"
	"votegate/internal/repositories"
	"votegate/internal/utils"
)

const (
	ChallengeTTL   = 5 * time.Minute
	TokenTTL       = 1 * time.Hour
	ResendCooldown = 60 * time.Second

	defaultEmailDomain = "st.qnu.edu.vn"
)

type OTPService interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (string, error)
}

type otpService struct {
	challengeRepo repositories.ChallengeRepository
	tokenRepo     repositories.TokenRepository
	emailService  EmailService
	domain        string
	now           func() time.Time
}

func NewOTPService(challengeRepo repositories.ChallengeRepository, tokenRepo repositories.TokenRepository, emailService EmailService) OTPService {
	domain := os.Getenv("ALLOWED_EMAIL_DOMAIN")
	if domain == "" {
		domain = defaultEmailDomain
	}
	return &otpService{
		challengeRepo: challengeRepo,
		tokenRepo:     tokenRepo,
		emailService:  emailService,
		domain:        strings.ToLower(domain),
		now:           time.Now,
	}
}

// NormalizeEmail trims and lower-cases an address so that every store lookup
// uses one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Send issues a fresh 6-digit challenge for the email and dispatches it
// through the mailer. A repeated send replaces the previous challenge
// (latest code wins) but is refused while the previous one is younger than
// ResendCooldown, so the 60-second client cooldown cannot be scripted around.
func (s *otpService) Send(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" || !strings.HasSuffix(email, "@"+s.domain) {
		return fmt.Errorf("%w: email must belong to %s", ErrValidation, s.domain)
	}

	existing, err := s.challengeRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && s.now().Sub(existing.CreatedAt) < ResendCooldown {
		return ErrTooSoon
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return err
	}

	challenge := &models.OtpChallenge{
		Email:     email,
		Code:      code,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(ChallengeTTL),
	}
	if err := s.challengeRepo.Upsert(ctx, challenge); err != nil {
		return err
	}

	subject := "Ma xac thuc dang ky vi"
	body := fmt.Sprintf("Ma xac thuc cua ban la: %s. Ma het han sau 5 phut.", code)
	if err := s.emailService.SendEmail(email, subject, body); err != nil {
		return err
	}

	metrics.OtpSentTotal.Inc()
	log.Info().Str("email", email).Msg("OTP challenge sent")
	return nil
}

// Verify consumes the challenge and issues a session token. Wrong code,
// missing challenge and expired challenge all surface as the same ErrAuth.
func (s *otpService) Verify(ctx context.Context, email, code string) (string, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)

	challenge, err := s.challengeRepo.ConsumeValid(ctx, email, code, s.now())
	if err != nil {
		return "", err
	}
	if challenge == nil {
		metrics.OtpVerifyTotal.WithLabelValues("failed").Inc()
		return "", ErrAuth
	}

	token := &models.SessionToken{
		Token:     utils.GenerateSessionToken(),
		Email:     email,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(TokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	metrics.OtpVerifyTotal.WithLabelValues("success").Inc()
	log.Info().Str("email", email).Msg("OTP verified, session token issued")
	return token.Token, nil
}
