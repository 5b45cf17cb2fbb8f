// Package etl implements the retail transaction ingestion pipeline:
// extract a daily CSV file, transform it to the canonical transaction
// schema, and load it idempotently into the SQLite store.
package etl

import "fmt"

// Row maps a field name to its value. Values are strings as read from the
// source file until the transformer coerces quantity and amounts.
type Row map[string]any

// Table is an ordered sequence of uniformly-shaped rows. Field order is
// significant: it must match the store's column order at load time, and row
// order is preserved through every stage.
type Table struct {
	fields []string
	rows   []Row
}

// NewTable creates an empty table with the given field order.
func NewTable(fields []string) *Table {
	return &Table{
		fields: append([]string(nil), fields...),
		rows:   make([]Row, 0),
	}
}

// Fields returns a copy of the table's field names in order.
func (t *Table) Fields() []string {
	return append([]string(nil), t.fields...)
}

// HasField reports whether the table has a field with the given name.
func (t *Table) HasField(name string) bool {
	for _, f := range t.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the table's rows in order. The slice is shared; callers that
// need an independent copy should Clone first.
func (t *Table) Rows() []Row {
	return t.rows
}

// Append adds a row to the end of the table.
func (t *Table) Append(row Row) {
	t.rows = append(t.rows, row)
}

// Clone returns a deep copy of the table. Transformations operate on clones
// so the caller's table is never mutated.
func (t *Table) Clone() *Table {
	out := NewTable(t.fields)
	for _, row := range t.rows {
		copied := make(Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Append(copied)
	}
	return out
}

// valueString renders a row value as a string for key comparisons.
func valueString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
