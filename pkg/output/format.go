// Package output provides utilities for formatting and displaying amortization results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-amortization/pkg/datetime"
	"github.com/iwvelando/mortgage-amortization/pkg/format"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CsvHeader is the header row of the schedule export.
var CsvHeader = []string{"month", "date", "phase", "principal", "interest", "payment", "accrued", "balance"}

// PrettyFormat writes a human-readable rather than machine-readable summary
// and schedule table.
func PrettyFormat(w io.Writer, result *loans.Result, symbol string) error {
	p := message.NewPrinter(language.English)
	s := result.Summary

	rows := []Row{
		{"Monthly Payment", format.Currency(s.MonthlyPayment, symbol)},
		{"First Payment Date", format.LongDate(s.FirstPaymentDate)},
		{"Loan Payoff Date", format.LongDate(s.PayoffDate)},
		{"Total Interest Paid", format.Currency(s.TotalInterest, symbol)},
		{"Total Amount Paid", format.Currency(s.TotalPaid, symbol)},
	}
	if s.DeferredInterestAccrued != 0 {
		rows = append(rows,
			Row{"Interest During Deferral", format.Currency(s.DeferredInterestAccrued, symbol)},
			Row{"Adjusted Principal", format.Currency(s.AdjustedPrincipal, symbol)},
		)
	}

	if _, err := fmt.Fprintf(w, "--- Loan summary ---\n"); err != nil {
		return err
	}
	if err := writeRows(w, rows); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n--- Amortization schedule ---\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Month | Date       | Phase     | Principal | Interest | Payment | Balance\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "_____ | __________ | _________ | _________ | ________ | _______ | _______\n"); err != nil {
		return err
	}
	for _, period := range result.Schedule {
		if _, err := p.Fprintf(w, "%5d | %s | %-9s | %s%.2f | %s%.2f | %s%.2f | %s%.2f\n",
			period.MonthIndex, period.Date.Format(datetime.DateLayout), period.Phase.String(),
			symbol, period.PrincipalPaid,
			symbol, period.InterestPaid+period.InterestAccrued,
			symbol, period.TotalPaid,
			symbol, period.RemainingBalance,
		); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat writes the schedule in comma-separated value format.
func CsvFormat(w io.Writer, result *loans.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}
	for _, period := range result.Schedule {
		record := []string{
			strconv.Itoa(period.MonthIndex),
			period.Date.Format(datetime.DateLayout),
			period.Phase.String(),
			formatAmount(period.PrincipalPaid),
			formatAmount(period.InterestPaid),
			formatAmount(period.TotalPaid),
			formatAmount(period.InterestAccrued),
			formatAmount(period.RemainingBalance),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
