// Package portfolio provides read-only access to the portfolio snapshot
// store maintained by the surrounding dividend tracker. The engine never
// writes here.
package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/incomeclarity/marginsight/internal/domain"
)

// StoredSnapshot is a snapshot row joined with its holdings, plus the
// account-level margin interest rate the tracker recorded for it.
type StoredSnapshot struct {
	ID                 string
	Snapshot           domain.PortfolioSnapshot
	MarginInterestRate float64
	UpdatedAt          int64 // Unix timestamp
}

// SnapshotRepository reads portfolio snapshots and holdings.
type SnapshotRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(db *sql.DB, log zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:  db,
		log: log.With().Str("repo", "snapshot").Logger(),
	}
}

// Get returns the snapshot with the given id, or nil when it does not exist.
func (r *SnapshotRepository) Get(id string) (*StoredSnapshot, error) {
	query := `SELECT id, total_value, margin_used, monthly_dividend_income,
		margin_interest_rate, updated_at
		FROM snapshots WHERE id = ?`

	var s StoredSnapshot
	err := r.db.QueryRow(query, id).Scan(
		&s.ID,
		&s.Snapshot.TotalValue,
		&s.Snapshot.MarginUsed,
		&s.Snapshot.MonthlyDividendIncome,
		&s.MarginInterestRate,
		&s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot %s: %w", id, err)
	}

	holdings, err := r.getHoldings(id)
	if err != nil {
		return nil, err
	}
	s.Snapshot.Holdings = holdings

	return &s, nil
}

func (r *SnapshotRepository) getHoldings(snapshotID string) ([]domain.Holding, error) {
	query := `SELECT symbol, market_value, sector, volatility, beta
		FROM holdings WHERE snapshot_id = ? ORDER BY market_value DESC`

	rows, err := r.db.Query(query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings for %s: %w", snapshotID, err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		var volatility, beta sql.NullFloat64
		if err := rows.Scan(&h.Symbol, &h.MarketValue, &h.Sector, &volatility, &beta); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		h.Volatility = volatility.Float64
		h.Beta = beta.Float64
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}
