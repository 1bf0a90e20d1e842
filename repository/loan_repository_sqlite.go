package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"loan-cost/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id                              TEXT PRIMARY KEY,
	created_at                      INTEGER NOT NULL,
	principal                       REAL NOT NULL,
	annual_rate                     REAL NOT NULL,
	periods                         INTEGER NOT NULL,
	initial_fees                    REAL NOT NULL,
	insurance_cost                  REAL NOT NULL,
	installment                     REAL NOT NULL,
	full_installment                REAL NOT NULL,
	total_interest                  REAL NOT NULL,
	total_cost_without_insurance    REAL NOT NULL,
	total_cost                      REAL NOT NULL,
	effective_annual_rate           REAL,
	effective_insurance_annual_rate REAL
);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations(created_at);
`

const selectColumns = `id, created_at, principal, annual_rate, periods, initial_fees, insurance_cost,
	installment, full_installment, total_interest, total_cost_without_insurance, total_cost,
	effective_annual_rate, effective_insurance_annual_rate`

// SQLiteLoanRepository keeps the calculation history in a SQLite file.
// Unavailable (NaN) rates are stored as NULL.
type SQLiteLoanRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteLoanRepository opens (creating if needed) the database at path
// and applies the schema.
func NewSQLiteLoanRepository(path string) (*SQLiteLoanRepository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL with NORMAL sync: history is rebuildable, losing the last
	// transaction on power loss is acceptable.
	connStr := absPath + "?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteLoanRepository{db: db, path: absPath}, nil
}

func (r *SQLiteLoanRepository) Save(ctx context.Context, rec domain.CalculationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calculations (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.CreatedAt.UnixNano(),
		rec.Terms.Principal,
		rec.Terms.AnnualRate,
		rec.Terms.Periods,
		rec.Terms.InitialFees,
		rec.Terms.InsuranceCost,
		rec.Breakdown.PeriodicInstallmentWithoutInsurance,
		rec.Breakdown.FullPeriodicInstallment,
		rec.Breakdown.TotalInterest,
		rec.Breakdown.TotalCostWithoutInsurance,
		rec.Breakdown.TotalCost,
		nullableRate(rec.Breakdown.EffectiveAnnualRate),
		nullableRate(rec.Breakdown.EffectiveInsuranceAnnualRate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}
	return nil
}

func (r *SQLiteLoanRepository) Get(ctx context.Context, id string) (domain.CalculationRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM calculations WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CalculationRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("failed to get calculation %s: %w", id, err)
	}
	return rec, nil
}

func (r *SQLiteLoanRepository) List(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM calculations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var out []domain.CalculationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}
	return out, nil
}

func (r *SQLiteLoanRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calculations WHERE created_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old calculations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted calculations: %w", err)
	}
	return n, nil
}

// Path returns the database file path
func (r *SQLiteLoanRepository) Path() string {
	return r.path
}

func (r *SQLiteLoanRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(s rowScanner) (domain.CalculationRecord, error) {
	var (
		rec           domain.CalculationRecord
		createdAt     int64
		effective     sql.NullFloat64
		insuranceRate sql.NullFloat64
	)
	err := s.Scan(
		&rec.ID,
		&createdAt,
		&rec.Terms.Principal,
		&rec.Terms.AnnualRate,
		&rec.Terms.Periods,
		&rec.Terms.InitialFees,
		&rec.Terms.InsuranceCost,
		&rec.Breakdown.PeriodicInstallmentWithoutInsurance,
		&rec.Breakdown.FullPeriodicInstallment,
		&rec.Breakdown.TotalInterest,
		&rec.Breakdown.TotalCostWithoutInsurance,
		&rec.Breakdown.TotalCost,
		&effective,
		&insuranceRate,
	)
	if err != nil {
		return domain.CalculationRecord{}, err
	}

	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.Breakdown.EffectiveAnnualRate = rateOrNaN(effective)
	rec.Breakdown.EffectiveInsuranceAnnualRate = rateOrNaN(insuranceRate)
	return rec, nil
}

func nullableRate(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func rateOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
