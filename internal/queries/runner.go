package queries

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// DateBalance is one entry of a per-date signed quantity balance.
type DateBalance struct {
	Date    string `json:"date"`
	Balance int64  `json:"balance"`
}

// DateAmount is one entry of a per-date monetary total.
type DateAmount struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Runner executes catalog queries against the store. Parameters are always
// bound through placeholders, never interpolated into the SQL text.
type Runner struct {
	db      *sql.DB
	catalog *Catalog
	log     zerolog.Logger
}

// NewRunner creates a new query runner
func NewRunner(db *sql.DB, catalog *Catalog, log zerolog.Logger) *Runner {
	return &Runner{
		db:      db,
		catalog: catalog,
		log:     log.With().Str("component", "queries").Logger(),
	}
}

// Run resolves a catalog query by name and executes it with positional
// parameters. The caller owns the returned rows and must close them.
func (r *Runner) Run(name string, params ...any) (*sql.Rows, error) {
	query, err := r.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query %s: %w", name, err)
	}
	return rows, nil
}

// CountByDate returns the number of transactions on the given ISO date,
// zero when none exist.
func (r *Runner) CountByDate(date string) (int, error) {
	query, err := r.catalog.Get(QueryCountByDate)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for %s: %w", date, err)
	}
	return count, nil
}

// TotalSellAmountIncTax returns the sum of amount_inc_tax over all SELL
// transactions. The value is the store's native floating-point sum; no
// rounding is applied on top.
func (r *Runner) TotalSellAmountIncTax() (float64, error) {
	query, err := r.catalog.Get(QueryTotalSellAmount)
	if err != nil {
		return 0, err
	}

	// SUM over zero rows is NULL
	var total sql.NullFloat64
	if err := r.db.QueryRow(query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum sell amounts: %w", err)
	}
	return total.Float64, nil
}

// BalanceByProduct returns the per-date signed quantity balance for a
// product name, ordered by date ascending. SELL quantities count positively,
// BUY quantities negatively; any other category is ignored. An unknown
// product yields an empty slice, not an error.
func (r *Runner) BalanceByProduct(product string) ([]DateBalance, error) {
	rows, err := r.Run(QueryProductBalance, product)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]DateBalance, 0)
	for rows.Next() {
		var b DateBalance
		if err := rows.Scan(&b.Date, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance rows: %w", err)
	}

	return balances, nil
}

// DailySellTotals returns the per-date sum of amount_inc_tax over SELL
// transactions, ordered by date ascending.
func (r *Runner) DailySellTotals() ([]DateAmount, error) {
	rows, err := r.Run(QueryDailySellTotals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]DateAmount, 0)
	for rows.Next() {
		var t DateAmount
		if err := rows.Scan(&t.Date, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan daily total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily total rows: %w", err)
	}

	return totals, nil
}
