package repository

import (
	"context"
	"errors"

	"capstack/domain"
)

// ErrNotFound is returned when a stored record does not exist.
var ErrNotFound = errors.New("record not found")

type LoanRepository interface {
	Save(ctx context.Context, input domain.LoanInput, result domain.LoanResult) error
}

type ScoreRepository interface {
	Save(ctx context.Context, rec domain.ScoreRecord) error
	Get(ctx context.Context, id string) (domain.ScoreRecord, error)
	// List returns records newest first.
	List(ctx context.Context, limit, offset int) ([]domain.ScoreRecord, error)
}
