package etl

import (
	"fmt"
	"strconv"
)

// CanonicalFields is the column order of the persisted transactions relation.
// The loader rejects any table whose fields deviate from it.
var CanonicalFields = []string{
	"id",
	"transaction_date",
	"category",
	"name",
	"quantity",
	"amount_excl_tax",
	"amount_inc_tax",
}

// Transform turns an extracted table into the canonical transaction shape:
// rename description to name, stamp every row with the file's transaction
// date, then project to the canonical field order and coerce the numeric
// columns. The input table is never mutated; every step runs on a copy.
// Row count is preserved, and a zero-row result is an EmptyResultError.
func Transform(t *Table, transactionDate string) (*Table, error) {
	work := t.Clone()

	renameField(work, "description", "name")
	setConstantField(work, "transaction_date", transactionDate)

	out, err := projectFields(work, CanonicalFields)
	if err != nil {
		return nil, err
	}

	if err := coerceTypes(out); err != nil {
		return nil, err
	}

	if out.Len() == 0 {
		return nil, &EmptyResultError{}
	}

	return out, nil
}

// renameField renames a field in place, preserving its position.
func renameField(t *Table, from, to string) {
	for i, f := range t.fields {
		if f == from {
			t.fields[i] = to
		}
	}
	for _, row := range t.rows {
		if v, ok := row[from]; ok {
			delete(row, from)
			row[to] = v
		}
	}
}

// setConstantField sets the same value on every row, appending the field to
// the table's field list if it isn't already there.
func setConstantField(t *Table, field string, value any) {
	if !t.HasField(field) {
		t.fields = append(t.fields, field)
	}
	for _, row := range t.rows {
		row[field] = value
	}
}

// projectFields reorders the table to the given field order, dropping any
// extra columns. Missing fields are a SchemaError naming all of them.
func projectFields(t *Table, order []string) (*Table, error) {
	if missing := missingFields(t, order); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	out := NewTable(order)
	for _, row := range t.rows {
		projected := make(Row, len(order))
		for _, field := range order {
			projected[field] = row[field]
		}
		out.Append(projected)
	}
	return out, nil
}

// coerceTypes converts quantity to int64 and the two amounts to float64.
// Values that are already numeric pass through unchanged.
func coerceTypes(t *Table) error {
	for _, row := range t.rows {
		qty, err := toInt64(row["quantity"])
		if err != nil {
			return &ParseError{Reason: "invalid quantity value", Err: err}
		}
		row["quantity"] = qty

		for _, field := range []string{"amount_excl_tax", "amount_inc_tax"} {
			amount, err := toFloat64(row[field])
			if err != nil {
				return &ParseError{Reason: "invalid " + field + " value", Err: err}
			}
			row[field] = amount
		}
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case string:
		return strconv.ParseInt(val, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
