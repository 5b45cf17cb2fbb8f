// Package report renders the business answers and dataset summary to a
// writer, for the CLI report command.
package report

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/retail-etl/internal/queries"
)

// Summary holds descriptive statistics over the per-date sell totals.
type Summary struct {
	Days        int
	MeanDaily   float64
	StdDevDaily float64
	TotalIncTax float64
}

// Summarize computes descriptive statistics over daily sell totals.
// Zero days yields a zero-valued summary.
func Summarize(totals []queries.DateAmount, totalIncTax float64) Summary {
	if len(totals) == 0 {
		return Summary{TotalIncTax: totalIncTax}
	}

	values := make([]float64, len(totals))
	for i, t := range totals {
		values[i] = t.Amount
	}

	s := Summary{
		Days:        len(totals),
		MeanDaily:   stat.Mean(values, nil),
		TotalIncTax: totalIncTax,
	}
	// StdDev over a single sample is NaN; report 0 instead
	if len(values) > 1 {
		s.StdDevDaily = stat.StdDev(values, nil)
	}
	return s
}

// Write renders the report: transaction count for a date, the balance
// history for a product, and summary statistics of sell revenue.
func Write(w io.Writer, runner *queries.Runner, date, product string) error {
	count, err := runner.CountByDate(date)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Transactions on %s: %d\n", date, count)

	total, err := runner.TotalSellAmountIncTax()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Total sell amount (inc. tax): %.2f\n", total)

	balances, err := runner.BalanceByProduct(product)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Balance by date for %q:\n", product)
	if len(balances) == 0 {
		fmt.Fprintln(w, "  (no transactions)")
	}
	for _, b := range balances {
		fmt.Fprintf(w, "  %s  %+d\n", b.Date, b.Balance)
	}

	totals, err := runner.DailySellTotals()
	if err != nil {
		return err
	}
	summary := Summarize(totals, total)
	fmt.Fprintf(w, "Sell revenue over %d day(s): mean %.2f/day, stddev %.2f\n",
		summary.Days, summary.MeanDaily, summary.StdDevDaily)

	return nil
}
