package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"votegate/internal/database"
	"votegate/internal/middlewares"
	"votegate/internal/repositories"
	"votegate/internal/services"
)

type Server struct {
	port           int
	httpServer     *http.Server
	db             database.Service
	otpService     services.OTPService
	bindingService services.BindingService
	adminService   services.AdminService
	sweeper        *services.Sweeper
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("port", portStr).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()

	challengeRepo := repositories.NewChallengeRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	bindingRepo := repositories.NewBindingRepository(db)
	conflictRepo := repositories.NewConflictRepository(db)

	emailService := services.NewEmailService()

	s := &Server{
		port:           port,
		db:             db,
		otpService:     services.NewOTPService(challengeRepo, tokenRepo, emailService),
		bindingService: services.NewBindingService(bindingRepo, conflictRepo, tokenRepo),
		adminService:   services.NewAdminService(conflictRepo),
		sweeper:        services.NewSweeper(challengeRepo, tokenRepo),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.sweeper.Start()
	go middlewares.CleanupVisitors()

	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	s.sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
