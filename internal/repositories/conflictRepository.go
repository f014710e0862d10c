package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"votegate/internal/database"
	"votegate/internal/models"
	"votegate/internal/utils"
)

type ConflictRepository interface {
	Append(ctx context.Context, record *models.ConflictRecord) (*models.ConflictRecord, error)
	ListRecent(ctx context.Context, limit int64) ([]models.ConflictRecord, error)
}

type conflictRepository struct {
	db database.Service
}

func NewConflictRepository(db database.Service) ConflictRepository {
	return &conflictRepository{db: db}
}

func (r *conflictRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("conflicts")
}

// Append adds one record to the ledger. The ledger is append-only: nothing in
// this repository updates or deletes.
func (r *conflictRepository) Append(ctx context.Context, record *models.ConflictRecord) (*models.ConflictRecord, error) {
	queryType := "append"
	repository := "conflict"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	record.ID = primitive.NewObjectID()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := r.collection().InsertOne(ctx, record)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("email", record.Email).Msg("Failed to append conflict record")
		return nil, fmt.Errorf("failed to append conflict record: %w", err)
	}
	return record, nil
}

func (r *conflictRepository) ListRecent(ctx context.Context, limit int64) ([]models.ConflictRecord, error) {
	queryType := "listRecent"
	repository := "conflict"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to list conflict records: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	records := make([]models.ConflictRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to decode conflict records")
		return nil, fmt.Errorf("failed to decode conflict records: %w", err)
	}
	return records, nil
}
