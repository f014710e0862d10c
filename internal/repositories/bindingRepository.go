package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"votegate/internal/database"
	"votegate/internal/models"
	"votegate/internal/utils"
)

// ErrDuplicateEmail is returned by Create when a binding for the email
// already exists. Under concurrent first binds the storage key is what
// decides the winner; the loser gets this error and must re-read.
var ErrDuplicateEmail = errors.New("binding already exists for email")

type BindingRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Binding, error)
	Create(ctx context.Context, binding *models.Binding) error
}

type bindingRepository struct {
	db database.Service
}

func NewBindingRepository(db database.Service) BindingRepository {
	return &bindingRepository{db: db}
}

func (r *bindingRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("bindings")
}

func (r *bindingRepository) FindByEmail(ctx context.Context, email string) (*models.Binding, error) {
	queryType := "findByEmail"
	repository := "binding"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var binding models.Binding
	err := r.collection().FindOne(ctx, bson.M{"_id": email}).Decode(&binding)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to find binding: %w", err)
	}
	return &binding, nil
}

// Create inserts the binding. It never overwrites: the email is the document
// key, so a second insert for the same email fails with ErrDuplicateEmail
// regardless of how the two writers interleaved.
func (r *bindingRepository) Create(ctx context.Context, binding *models.Binding) error {
	queryType := "create"
	repository := "binding"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, binding)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("email", binding.Email).Msg("Failed to insert binding")
		return fmt.Errorf("failed to create binding: %w", err)
	}
	return nil
}
