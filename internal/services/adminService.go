package services

import (
	"context"

	"votegate/internal/models"
	"votegate/internal/repositories"
)

// MaxConflictsListed caps how many ledger rows one admin call returns.
const MaxConflictsListed = 100

type AdminService interface {
	ListConflicts(ctx context.Context) ([]models.ConflictRecord, error)
}

type adminService struct {
	conflictRepo repositories.ConflictRepository
}

func NewAdminService(conflictRepo repositories.ConflictRepository) AdminService {
	return &adminService{conflictRepo: conflictRepo}
}

// ListConflicts returns the most recent ledger entries, newest first.
// Banning a wallet stays with the voting contract; this service only
// exposes the evidence.
func (s *adminService) ListConflicts(ctx context.Context) ([]models.ConflictRecord, error) {
	return s.conflictRepo.ListRecent(ctx, MaxConflictsListed)
}
