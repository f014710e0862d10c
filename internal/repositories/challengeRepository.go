package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"votegate/internal/database"
	"votegate/internal/models"
	"votegate/internal/utils"
)

type ChallengeRepository interface {
	Upsert(ctx context.Context, challenge *models.OtpChallenge) error
	FindByEmail(ctx context.Context, email string) (*models.OtpChallenge, error)
	ConsumeValid(ctx context.Context, email, code string, now time.Time) (*models.OtpChallenge, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type challengeRepository struct {
	db database.Service
}

func NewChallengeRepository(db database.Service) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("challenges")
}

// Upsert replaces any prior challenge for the email: latest code wins.
func (r *challengeRepository) Upsert(ctx context.Context, challenge *models.OtpChallenge) error {
	queryType := "upsert"
	repository := "challenge"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{"_id": challenge.Email}
	_, err := r.collection().ReplaceOne(ctx, filter, challenge, options.Replace().SetUpsert(true))
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("email", challenge.Email).Msg("Failed to upsert OTP challenge")
		return fmt.Errorf("failed to upsert challenge: %w", err)
	}
	return nil
}

func (r *challengeRepository) FindByEmail(ctx context.Context, email string) (*models.OtpChallenge, error) {
	queryType := "findByEmail"
	repository := "challenge"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var challenge models.OtpChallenge
	err := r.collection().FindOne(ctx, bson.M{"_id": email}).Decode(&challenge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to find challenge: %w", err)
	}
	return &challenge, nil
}

// ConsumeValid atomically deletes and returns the challenge iff the code
// matches and the challenge has not expired. A nil result covers wrong code,
// no challenge, and expired alike, so callers cannot tell the cases apart.
func (r *challengeRepository) ConsumeValid(ctx context.Context, email, code string, now time.Time) (*models.OtpChallenge, error) {
	queryType := "consumeValid"
	repository := "challenge"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{"_id": email, "code": code, "expires_at": bson.M{"$gt": now}}
	var challenge models.OtpChallenge
	err := r.collection().FindOneAndDelete(ctx, filter).Decode(&challenge)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("email", email).Msg("Failed to consume OTP challenge")
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}
	return &challenge, nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	queryType := "deleteExpired"
	repository := "challenge"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return 0, fmt.Errorf("failed to delete expired challenges: %w", err)
	}
	return result.DeletedCount, nil
}
