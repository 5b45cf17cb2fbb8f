// Package queries provides the named SQL query catalog and the runner that
// executes its queries against the transactions store.
package queries

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Stable query names. Callers address the catalog by these, never by file path.
const (
	QueryCountByDate     = "transactions_count_by_date"
	QueryTotalSellAmount = "total_sell_amount_inc_tax"
	QueryProductBalance  = "product_balance_by_date"
	QueryDailySellTotals = "daily_sell_totals"
)

// QueryNotFoundError indicates a query name absent from the catalog.
type QueryNotFoundError struct {
	Name string
}

func (e *QueryNotFoundError) Error() string {
	return fmt.Sprintf("query not found in catalog: %s", e.Name)
}

// Catalog maps stable query names to parameterized SQL templates. Templates
// are read once at load time from a directory of .sql files; the name of
// each query is its filename without the extension.
type Catalog struct {
	queries map[string]string
}

// LoadCatalog reads every .sql file in dir into the catalog. An empty dir
// falls back to the sql/ directory shipped next to this source file, located
// the same way the database package locates its schemas.
func LoadCatalog(dir string) (*Catalog, error) {
	if dir == "" {
		var err error
		dir, err = findQueriesDirectory()
		if err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read query catalog directory %s: %w", dir, err)
	}

	queries := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read query file %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".sql")
		queries[name] = string(content)
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("query catalog directory %s contains no .sql files", dir)
	}

	return &Catalog{queries: queries}, nil
}

// Get returns the SQL template for a query name.
func (c *Catalog) Get(name string) (string, error) {
	query, ok := c.queries[name]
	if !ok {
		return "", &QueryNotFoundError{Name: name}
	}
	return query, nil
}

// Names returns the catalog's query names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.queries))
	for name := range c.queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findQueriesDirectory locates the shipped sql/ directory relative to this
// source file, so the default catalog resolves regardless of working
// directory.
func findQueriesDirectory() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to get caller information")
	}

	sqlDir := filepath.Join(filepath.Dir(currentFile), "sql")

	if info, err := os.Stat(sqlDir); err != nil {
		return "", fmt.Errorf("query directory not found at %s: %w", sqlDir, err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("query path exists but is not a directory: %s", sqlDir)
	}

	return sqlDir, nil
}
