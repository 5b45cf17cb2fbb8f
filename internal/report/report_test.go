package report

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/aristath/retail-etl/internal/queries"
)

func TestSummarize(t *testing.T) {
	totals := []queries.DateAmount{
		{Date: "2022-01-01", Amount: 10},
		{Date: "2022-01-02", Amount: 20},
		{Date: "2022-01-03", Amount: 30},
	}

	s := Summarize(totals, 60)

	assert.Equal(t, 3, s.Days)
	assert.InDelta(t, 20.0, s.MeanDaily, 1e-9)
	assert.InDelta(t, 10.0, s.StdDevDaily, 1e-9)
	assert.Equal(t, 60.0, s.TotalIncTax)
}

func TestSummarizeEdgeCases(t *testing.T) {
	t.Run("no days", func(t *testing.T) {
		s := Summarize(nil, 0)
		assert.Equal(t, 0, s.Days)
		assert.Equal(t, 0.0, s.MeanDaily)
		assert.Equal(t, 0.0, s.StdDevDaily)
	})

	t.Run("single day has no spread", func(t *testing.T) {
		s := Summarize([]queries.DateAmount{{Date: "2022-01-01", Amount: 42}}, 42)
		assert.Equal(t, 1, s.Days)
		assert.InDelta(t, 42.0, s.MeanDaily, 1e-9)
		assert.Equal(t, 0.0, s.StdDevDaily)
	})
}

func TestWrite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE transactions (
			id              TEXT PRIMARY KEY,
			transaction_date TEXT NOT NULL,
			category        TEXT NOT NULL,
			name            TEXT NOT NULL,
			quantity        INTEGER NOT NULL,
			amount_excl_tax REAL NOT NULL,
			amount_inc_tax  REAL NOT NULL
		)
	`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO transactions VALUES
		('1', '2022-01-15', 'SELL', 'Amazon Echo Dot', 2, 20.0, 24.0),
		('2', '2022-01-15', 'BUY', 'Amazon Echo Dot', 1, 10.0, 12.0),
		('3', '2022-01-16', 'SELL', 'Fitbit Charge 5', 1, 30.0, 36.0)`)
	require.NoError(t, err)

	catalog, err := queries.LoadCatalog("")
	require.NoError(t, err)
	runner := queries.NewRunner(db, catalog, zerolog.Nop())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, runner, "2022-01-15", "Amazon Echo Dot"))

	out := buf.String()
	assert.Contains(t, out, "Transactions on 2022-01-15: 2")
	assert.Contains(t, out, "Total sell amount (inc. tax): 60.00")
	assert.Contains(t, out, "2022-01-15  +1")
	assert.Contains(t, out, "Sell revenue over 2 day(s)")
}

func TestWriteUnknownProduct(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE transactions (
			id              TEXT PRIMARY KEY,
			transaction_date TEXT NOT NULL,
			category        TEXT NOT NULL,
			name            TEXT NOT NULL,
			quantity        INTEGER NOT NULL,
			amount_excl_tax REAL NOT NULL,
			amount_inc_tax  REAL NOT NULL
		)
	`)
	require.NoError(t, err)

	catalog, err := queries.LoadCatalog("")
	require.NoError(t, err)
	runner := queries.NewRunner(db, catalog, zerolog.Nop())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, runner, "2022-01-15", "Unknown product X"))
	assert.Contains(t, buf.String(), "(no transactions)")
}
