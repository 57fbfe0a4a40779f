// Package storage persists the candidate pool.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/talentmatch/internal/models"
)

// ErrNotFound is returned when a candidate does not exist.
var ErrNotFound = errors.New("candidate not found")

// Storage defines candidate persistence operations.
type Storage interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, c *models.Candidate) error
	// UpsertCandidate inserts c or replaces the stored candidate with the same ID,
	// keeping its creation time.
	UpsertCandidate(ctx context.Context, c *models.Candidate) error
	DeleteCandidate(ctx context.Context, id string) error
	ListCandidates(ctx context.Context, offset, limit int) ([]*models.Candidate, error)
	// AllCandidates returns the whole pool ordered by ID. The result is never nil.
	AllCandidates(ctx context.Context) ([]models.Candidate, error)
	// CandidatesBySourcePrefix returns the IDs of candidates ingested from files under prefix.
	CandidatesBySourcePrefix(ctx context.Context, prefix string) ([]string, error)

	CountCandidates(ctx context.Context) (int64, error)

	Close() error
}
