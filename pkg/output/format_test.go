package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-amortization/pkg/datetime"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
)

func computeTestLoan(t *testing.T, deferralMonths int) *loans.Result {
	t.Helper()
	result, err := loans.Compute(loans.LoanInputs{
		Principal:         300000,
		AnnualRatePercent: 6.0,
		TermYears:         30,
		StartDate:         datetime.MustParseDate("2024-01-01"),
		GraceMonths:       1,
		DeferralMonths:    deferralMonths,
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return result
}

func TestPrettyFormat(t *testing.T) {
	result := computeTestLoan(t, 0)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, result, "$"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"--- Loan summary ---",
		"Monthly Payment     | $1,798.65",
		"First Payment Date  | February 01, 2024",
		"Loan Payoff Date    | February 01, 2054",
		"Total Interest Paid | $347,514.57",
		"--- Amortization schedule ---",
		"Month | Date       | Phase     | Principal | Interest | Payment | Balance",
		"    1 | 2024-01-01 | grace     | $0.00 | $0.00 | $0.00 | $300,000.00",
		"    2 | 2024-02-01 | repayment | $298.65 | $1,500.00 | $1,798.65 | $299,701.35",
		"  361 | 2054-01-01 | repayment |",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q", want)
		}
	}
	if strings.Contains(output, "Adjusted Principal") {
		t.Errorf("PrettyFormat should omit deferral rows without deferral")
	}
}

func TestPrettyFormatWithDeferral(t *testing.T) {
	result := computeTestLoan(t, 6)

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, result, "€"); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Interest During Deferral | €") {
		t.Errorf("PrettyFormat missing deferral interest row")
	}
	if !strings.Contains(output, "Adjusted Principal       | €") {
		t.Errorf("PrettyFormat missing adjusted principal row")
	}
	if !strings.Contains(output, "| deferral  | €0.00 | €1,500.00 | €0.00 | €301,500.00") {
		t.Errorf("PrettyFormat should show accrued interest for the first deferral month")
	}
}

func TestCsvFormat(t *testing.T) {
	result := computeTestLoan(t, 2)

	var buf bytes.Buffer
	if err := CsvFormat(&buf, result); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat produced invalid CSV: %v", err)
	}
	if len(records) != len(result.Schedule)+1 {
		t.Fatalf("expected %d records, got %d", len(result.Schedule)+1, len(records))
	}
	if strings.Join(records[0], ",") != "month,date,phase,principal,interest,payment,accrued,balance" {
		t.Errorf("unexpected header %v", records[0])
	}

	expected := map[int][]string{
		1: {"1", "2024-01-01", "grace", "0.00", "0.00", "0.00", "0.00", "300000.00"},
		2: {"2", "2024-02-01", "deferral", "0.00", "0.00", "0.00", "1500.00", "301500.00"},
	}
	for line, want := range expected {
		if strings.Join(records[line], ",") != strings.Join(want, ",") {
			t.Errorf("record %d = %v, expected %v", line, records[line], want)
		}
	}

	last := records[len(records)-1]
	if last[2] != "repayment" || last[7] != "0.00" {
		t.Errorf("unexpected final record %v", last)
	}
}

func TestSummaryTable(t *testing.T) {
	result := computeTestLoan(t, 12)
	details := LoanDetails{
		HomeValue:          375000,
		Downpayment:        75000,
		DownpaymentPercent: 20,
		LoanAmount:         300000,
		AnnualRatePercent:  6,
		TermYears:          30,
		GraceMonths:        1,
		DeferralMonths:     12,
		CurrencySymbol:     "$",
	}

	rows := SummaryTable(details, result.Summary)
	expected := map[string]string{
		"Home Value":         "$375,000.00",
		"Downpayment":        "$75,000.00",
		"Downpayment %":      "20.00%",
		"Loan Amount":        "$300,000.00",
		"Interest Rate":      "6.00%",
		"Loan Term":          "30 years",
		"Grace Period":       "1 months",
		"Deferral Period":    "12 months",
		"Adjusted Principal": "$318,503.34",
	}
	found := make(map[string]string)
	for _, row := range rows {
		found[row.Item] = row.Value
	}
	for item, value := range expected {
		if found[item] != value {
			t.Errorf("row %q = %q, expected %q", item, found[item], value)
		}
	}

	var buf bytes.Buffer
	if err := WriteSummaryTable(&buf, rows); err != nil {
		t.Fatalf("WriteSummaryTable() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Home Value               | $375,000.00") {
		t.Errorf("WriteSummaryTable should align items, got:\n%s", buf.String())
	}
}
