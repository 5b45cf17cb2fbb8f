package etl

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/retail-etl/internal/database"
)

// Loader appends canonical transaction rows to the store, skipping rows
// whose id already exists.
type Loader struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewLoader creates a new loader
func NewLoader(db *sql.DB, log zerolog.Logger) *Loader {
	return &Loader{
		db:  db,
		log: log.With().Str("component", "loader").Logger(),
	}
}

// CheckDuplicates partitions the table against the ids already persisted.
// It returns the number of duplicate rows and a table holding only the new
// rows. Membership is keyed solely on id; no other field is a duplicate
// signal. A failed lookup is an error, never treated as "no duplicates".
func (l *Loader) CheckDuplicates(t *Table) (int, *Table, error) {
	rows, err := l.db.Query("SELECT DISTINCT id FROM transactions")
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query existing ids: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, nil, fmt.Errorf("failed to scan existing id: %w", err)
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("failed to iterate existing ids: %w", err)
	}

	if len(existing) == 0 {
		l.log.Debug().Msg("No existing transactions in store")
		return 0, t, nil
	}

	fresh := NewTable(t.Fields())
	duplicates := 0
	for _, row := range t.Rows() {
		if _, seen := existing[valueString(row["id"])]; seen {
			duplicates++
			continue
		}
		fresh.Append(row)
	}

	return duplicates, fresh, nil
}

// Load appends every row of the table to the transactions relation inside a
// single transaction: either all rows commit or none do. An empty table is a
// no-op returning 0. A table whose fields deviate from the canonical order
// is a StoreSchemaError, surfaced before anything is written.
func (l *Loader) Load(t *Table) (int, error) {
	if t.Len() == 0 {
		l.log.Debug().Msg("Nothing to load")
		return 0, nil
	}

	if !fieldsMatch(t.Fields(), CanonicalFields) {
		return 0, &StoreSchemaError{Got: t.Fields(), Want: CanonicalFields}
	}

	err := database.WithTransaction(l.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO transactions
			(id, transaction_date, category, name, quantity, amount_excl_tax, amount_inc_tax)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range t.Rows() {
			_, err := stmt.Exec(
				row["id"],
				row["transaction_date"],
				row["category"],
				row["name"],
				row["quantity"],
				row["amount_excl_tax"],
				row["amount_inc_tax"],
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", valueString(row["id"]), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	l.log.Info().Int("rows", t.Len()).Msg("Loaded transactions")
	return t.Len(), nil
}

// fieldsMatch reports whether two field lists are identical, order included.
func fieldsMatch(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
