package etl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceTable builds a table shaped like an extracted CSV, with string
// values and an extra column the transformer should drop.
func sourceTable(rows int) *Table {
	t := NewTable([]string{"id", "category", "description", "quantity", "amount_excl_tax", "amount_inc_tax", "warehouse"})
	for i := 0; i < rows; i++ {
		t.Append(Row{
			"id":              fmt.Sprintf("tx-%04d", i),
			"category":        "SELL",
			"description":     fmt.Sprintf("Item %d", i),
			"quantity":        "2",
			"amount_excl_tax": "10.50",
			"amount_inc_tax":  "12.60",
			"warehouse":       "WH-1",
		})
	}
	return t
}

func TestTransformCanonicalShape(t *testing.T) {
	input := sourceTable(54)

	out, err := Transform(input, "2022-01-15")
	require.NoError(t, err)

	assert.Equal(t, CanonicalFields, out.Fields())
	assert.Equal(t, 54, out.Len())

	for i, row := range out.Rows() {
		// description renamed to name, values preserved
		assert.Equal(t, fmt.Sprintf("Item %d", i), row["name"])
		// one date stamped on every row
		assert.Equal(t, "2022-01-15", row["transaction_date"])
		// numeric columns coerced
		assert.Equal(t, int64(2), row["quantity"])
		assert.Equal(t, 10.50, row["amount_excl_tax"])
		assert.Equal(t, 12.60, row["amount_inc_tax"])
		// extra column dropped
		_, hasWarehouse := row["warehouse"]
		assert.False(t, hasWarehouse)
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	input := sourceTable(3)

	_, err := Transform(input, "2022-01-15")
	require.NoError(t, err)

	assert.True(t, input.HasField("description"))
	assert.False(t, input.HasField("transaction_date"))
	assert.Equal(t, "2", input.Rows()[0]["quantity"])
}

func TestTransformMissingCanonicalFields(t *testing.T) {
	input := NewTable([]string{"id", "category", "quantity", "amount_excl_tax", "amount_inc_tax"})
	input.Append(Row{
		"id":              "1",
		"category":        "SELL",
		"quantity":        "1",
		"amount_excl_tax": "1.0",
		"amount_inc_tax":  "1.2",
	})

	_, err := Transform(input, "2022-01-15")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"name"}, schemaErr.Missing)
}

func TestTransformEmptyTable(t *testing.T) {
	input := NewTable([]string{"id", "category", "description", "quantity", "amount_excl_tax", "amount_inc_tax"})

	_, err := Transform(input, "2022-01-15")

	var emptyErr *EmptyResultError
	require.ErrorAs(t, err, &emptyErr)
}

func TestTransformBadNumericValue(t *testing.T) {
	input := sourceTable(1)
	input.Rows()[0]["quantity"] = "not-a-number"

	_, err := Transform(input, "2022-01-15")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTransformNegativeQuantity(t *testing.T) {
	// Returns and adjustments arrive as negative quantities
	input := sourceTable(1)
	input.Rows()[0]["quantity"] = "-3"

	out, err := Transform(input, "2022-01-15")
	require.NoError(t, err)
	assert.Equal(t, int64(-3), out.Rows()[0]["quantity"])
}
