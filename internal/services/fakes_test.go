package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"votegate/internal/models"
	"votegate/internal/repositories"
)

// In-memory repository fakes. Each mirrors the atomicity its Mongo
// counterpart gets from the storage layer: mutations hold one mutex, and
// bindings.Create refuses a second row per email.

type fakeChallengeRepo struct {
	mu         sync.Mutex
	challenges map[string]models.OtpChallenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[string]models.OtpChallenge)}
}

func (r *fakeChallengeRepo) Upsert(_ context.Context, c *models.OtpChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.challenges[c.Email] = *c
	return nil
}

func (r *fakeChallengeRepo) FindByEmail(_ context.Context, email string) (*models.OtpChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[email]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeChallengeRepo) ConsumeValid(_ context.Context, email, code string, now time.Time) (*models.OtpChallenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.challenges[email]
	if !ok || c.Code != code || now.After(c.ExpiresAt) {
		return nil, nil
	}
	delete(r.challenges, email)
	return &c, nil
}

func (r *fakeChallengeRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for email, c := range r.challenges {
		if now.After(c.ExpiresAt) {
			delete(r.challenges, email)
			n++
		}
	}
	return n, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]models.SessionToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]models.SessionToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *models.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = *t
	return nil
}

func (r *fakeTokenRepo) Find(_ context.Context, token string) (*models.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, token)
			n++
		}
	}
	return n, nil
}

type fakeBindingRepo struct {
	mu       sync.Mutex
	bindings map[string]models.Binding
}

func newFakeBindingRepo() *fakeBindingRepo {
	return &fakeBindingRepo{bindings: make(map[string]models.Binding)}
}

func (r *fakeBindingRepo) FindByEmail(_ context.Context, email string) (*models.Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[email]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBindingRepo) Create(_ context.Context, b *models.Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bindings[b.Email]; ok {
		return repositories.ErrDuplicateEmail
	}
	r.bindings[b.Email] = *b
	return nil
}

type fakeConflictRepo struct {
	mu      sync.Mutex
	records []models.ConflictRecord
}

func newFakeConflictRepo() *fakeConflictRepo {
	return &fakeConflictRepo{}
}

func (r *fakeConflictRepo) Append(_ context.Context, record *models.ConflictRecord) (*models.ConflictRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = primitive.NewObjectID()
	r.records = append(r.records, *record)
	return record, nil
}

func (r *fakeConflictRepo) ListRecent(_ context.Context, limit int64) ([]models.ConflictRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.ConflictRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *fakeMailer) SendEmail(to, subject, msg string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: msg})
	return nil
}
