package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"capstack/domain"
	"capstack/repository"
)

type HealthScoreService struct {
	repo  repository.ScoreRepository
	cache repository.CacheRepository
	now   func() time.Time
}

func NewHealthScoreService(repo repository.ScoreRepository, cache repository.CacheRepository) *HealthScoreService {
	return &HealthScoreService{repo: repo, cache: cache, now: time.Now}
}

// Evaluate scores the profile and stores the outcome as a new record.
// Invalid input is returned untouched and nothing is stored.
func (s *HealthScoreService) Evaluate(ctx context.Context, profile domain.FinancialProfile) (domain.ScoreRecord, error) {
	key := profileCacheKey(profile)

	result, hit := s.cached(ctx, key)
	if !hit {
		var err error
		result, err = ComputeHealthScore(profile)
		if err != nil {
			return domain.ScoreRecord{}, err
		}
		s.store(ctx, key, result)
	}

	rec := domain.ScoreRecord{
		ID:        uuid.NewString(),
		Profile:   profile,
		Result:    result,
		CreatedAt: s.now().UTC(),
	}

	// Persisting history is not critical to answering the request.
	if err := s.repo.Save(ctx, rec); err != nil {
		slog.Warn("health score: failed to save record", "id", rec.ID, "err", err)
	}

	return rec, nil
}

func (s *HealthScoreService) Get(ctx context.Context, id string) (domain.ScoreRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *HealthScoreService) List(ctx context.Context, limit, offset int) ([]domain.ScoreRecord, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *HealthScoreService) cached(ctx context.Context, key string) (domain.ScoreResult, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.ScoreResult{}, false
	}
	var result domain.ScoreResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		slog.Warn("health score: discarding unreadable cache entry", "key", key, "err", err)
		return domain.ScoreResult{}, false
	}
	return result, true
}

func (s *HealthScoreService) store(ctx context.Context, key string, result domain.ScoreResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw)); err != nil {
		slog.Warn("health score: cache write failed", "key", key, "err", err)
	}
}

// profileCacheKey hashes the exact bit patterns of the profile fields so that
// two profiles share a key only when the calculator would see equal input.
func profileCacheKey(p domain.FinancialProfile) string {
	d := xxhash.New()
	for _, v := range []float64{
		p.MonthlyIncome,
		p.MonthlyExpenses,
		p.SavingsRate,
		p.EmergencyFundMonths,
		p.DebtToIncomeRatio,
		p.IncomeStability,
		p.InvestmentDiversification,
	} {
		_, _ = d.WriteString(strconv.FormatUint(math.Float64bits(v), 16))
		_, _ = d.WriteString("|")
	}
	return fmt.Sprintf("healthscore:v1:%016x", d.Sum64())
}
