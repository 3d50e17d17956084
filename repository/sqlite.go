package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"capstack/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteStore persists score records and loan calculations in a SQLite file.
// It implements ScoreRepository; Loans returns its LoanRepository view.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, rec domain.ScoreRecord) error {
	profile, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	components, err := json.Marshal(rec.Result.ComponentScores)
	if err != nil {
		return fmt.Errorf("encoding component scores: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO score_records
		(id, created_at_ns, profile, total_score, grade, component_scores)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixNano(), string(profile),
		rec.Result.TotalScore, rec.Result.Grade, string(components),
	)
	if err != nil {
		return fmt.Errorf("saving score record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.ScoreRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, created_at_ns, profile, total_score, grade, component_scores
		FROM score_records WHERE id = ?`, id)
	rec, err := scanScoreRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScoreRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]domain.ScoreRecord, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, created_at_ns, profile, total_score, grade, component_scores
		FROM score_records ORDER BY created_at_ns DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing score records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.ScoreRecord{}
	for rows.Next() {
		rec, err := scanScoreRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScoreRecord(row rowScanner) (domain.ScoreRecord, error) {
	var (
		rec        domain.ScoreRecord
		createdNs  int64
		profile    string
		components string
	)
	if err := row.Scan(&rec.ID, &createdNs, &profile, &rec.Result.TotalScore, &rec.Result.Grade, &components); err != nil {
		return domain.ScoreRecord{}, err
	}
	rec.CreatedAt = time.Unix(0, createdNs).UTC()
	if err := json.Unmarshal([]byte(profile), &rec.Profile); err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("decoding profile of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(components), &rec.Result.ComponentScores); err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("decoding component scores of %s: %w", rec.ID, err)
	}
	return rec, nil
}

// LoanStore is the LoanRepository view of a SQLiteStore.
type LoanStore struct {
	s *SQLiteStore
}

func (s *SQLiteStore) Loans() LoanStore {
	return LoanStore{s: s}
}

func (l LoanStore) Save(ctx context.Context, input domain.LoanInput, result domain.LoanResult) error {
	_, err := l.s.db.ExecContext(ctx, `INSERT INTO loan_calculations
		(amount, interest_rate, term_months, monthly_payment, total_payment, total_interest, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Amount, input.InterestRate, input.TermMonths,
		result.MonthlyPayment, result.TotalPayment, result.TotalInterest,
		time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving loan calculation: %w", err)
	}
	return nil
}

// CountLoans returns the number of stored loan calculations.
func (l LoanStore) CountLoans(ctx context.Context) (int, error) {
	var n int
	err := l.s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loan_calculations").Scan(&n)
	return n, err
}
