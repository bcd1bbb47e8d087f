package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-amortization/pkg/format"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
)

// LoanDetails holds the buyer-facing loan values shown beside the summary.
type LoanDetails struct {
	HomeValue          float64
	Downpayment        float64
	DownpaymentPercent float64
	LoanAmount         float64
	AnnualRatePercent  float64
	TermYears          int
	GraceMonths        int
	DeferralMonths     int
	CurrencySymbol     string
}

// Row is one Item/Value line of the summary table.
type Row struct {
	Item  string `json:"item"`
	Value string `json:"value"`
}

// SummaryTable builds the Item/Value rows describing the loan and the
// deferral adjustment.
func SummaryTable(details LoanDetails, summary loans.Summary) []Row {
	symbol := details.CurrencySymbol
	return []Row{
		{"Home Value", format.Currency(details.HomeValue, symbol)},
		{"Downpayment", format.Currency(details.Downpayment, symbol)},
		{"Downpayment %", format.Percent(details.DownpaymentPercent)},
		{"Loan Amount", format.Currency(details.LoanAmount, symbol)},
		{"Interest Rate", format.Percent(details.AnnualRatePercent)},
		{"Loan Term", fmt.Sprintf("%d years", details.TermYears)},
		{"Grace Period", fmt.Sprintf("%d months", details.GraceMonths)},
		{"Deferral Period", fmt.Sprintf("%d months", details.DeferralMonths)},
		{"Interest During Deferral", format.Currency(summary.DeferredInterestAccrued, symbol)},
		{"Adjusted Principal", format.Currency(summary.AdjustedPrincipal, symbol)},
	}
}

// WriteSummaryTable writes rows aligned on the item column.
func WriteSummaryTable(w io.Writer, rows []Row) error {
	if _, err := fmt.Fprintf(w, "--- Summary ---\n"); err != nil {
		return err
	}
	return writeRows(w, rows)
}

func writeRows(w io.Writer, rows []Row) error {
	width := 0
	for _, row := range rows {
		if len(row.Item) > width {
			width = len(row.Item)
		}
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s | %s\n", row.Item+strings.Repeat(" ", width-len(row.Item)), row.Value); err != nil {
			return err
		}
	}
	return nil
}
