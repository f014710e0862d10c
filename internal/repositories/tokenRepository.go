package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"votegate/internal/database"
	"votegate/internal/models"
	"votegate/internal/utils"
)

type TokenRepository interface {
	Create(ctx context.Context, token *models.SessionToken) error
	Find(ctx context.Context, token string) (*models.SessionToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepository struct {
	db database.Service
}

func NewTokenRepository(db database.Service) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("tokens")
}

func (r *tokenRepository) Create(ctx context.Context, token *models.SessionToken) error {
	queryType := "create"
	repository := "token"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, token)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("email", token.Email).Msg("Failed to insert session token")
		return fmt.Errorf("failed to create session token: %w", err)
	}
	return nil
}

func (r *tokenRepository) Find(ctx context.Context, token string) (*models.SessionToken, error) {
	queryType := "find"
	repository := "token"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var st models.SessionToken
	err := r.collection().FindOne(ctx, bson.M{"_id": token}).Decode(&st)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to find session token: %w", err)
	}
	return &st, nil
}

func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	queryType := "deleteExpired"
	repository := "token"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return result.DeletedCount, nil
}
