package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"github.com/iwvelando/mortgage-amortization/pkg/datetime"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
	"github.com/iwvelando/mortgage-amortization/pkg/mathutil"
	"github.com/iwvelando/mortgage-amortization/pkg/output"
	"github.com/iwvelando/mortgage-amortization/pkg/validation"
)

// Downpayment types.
const (
	DownpaymentPercentage = "percentage"
	DownpaymentAmount     = "amount"
)

// Loan describes a mortgage the way a buyer states it: a home value and a
// downpayment, optionally overridden by an explicit loan amount.
type Loan struct {
	HomeValue          float64  `yaml:"homeValue" json:"homeValue"`
	DownpaymentType    string   `yaml:"downpaymentType,omitempty" json:"downpaymentType,omitempty"` // percentage, amount
	DownpaymentPercent *float64 `yaml:"downpaymentPercent,omitempty" json:"downpaymentPercent,omitempty"`
	DownpaymentAmount  float64  `yaml:"downpaymentAmount,omitempty" json:"downpaymentAmount,omitempty"`
	LoanAmount         *float64 `yaml:"loanAmount,omitempty" json:"loanAmount,omitempty"`
	InterestRate       float64  `yaml:"interestRate" json:"interestRate"` // annual, percent
	TermYears          int      `yaml:"termYears" json:"termYears"`
	StartDate          string   `yaml:"startDate,omitempty" json:"startDate,omitempty"` // YYYY-MM-DD, defaults to today
	GraceMonths        int      `yaml:"graceMonths,omitempty" json:"graceMonths,omitempty"`
	DeferralMonths     int      `yaml:"deferralMonths,omitempty" json:"deferralMonths,omitempty"`
	AccrualMode        string   `yaml:"accrualMode,omitempty" json:"accrualMode,omitempty"` // compound, simple
	AllowZeroRate      bool     `yaml:"allowZeroRate,omitempty" json:"allowZeroRate,omitempty"`
	CurrencySymbol     string   `yaml:"currencySymbol,omitempty" json:"currencySymbol,omitempty"`
}

// Downpayment returns the downpayment as an amount and as a percentage of
// the home value, whichever way it was configured.
func (loan *Loan) Downpayment() (amount, percent float64, err error) {
	switch strings.ToLower(strings.TrimSpace(loan.DownpaymentType)) {
	case "", DownpaymentPercentage:
		percent = constants.DefaultDownpaymentPercent
		if loan.DownpaymentPercent != nil {
			percent = *loan.DownpaymentPercent
		}
		amount = mathutil.ApplyPercentage(loan.HomeValue, percent)
	case DownpaymentAmount:
		amount = loan.DownpaymentAmount
		percent = mathutil.CalculatePercentage(amount, loan.HomeValue)
	default:
		return 0, 0, fmt.Errorf("unknown downpayment type %q, expected %s or %s",
			loan.DownpaymentType, DownpaymentPercentage, DownpaymentAmount)
	}
	return amount, percent, nil
}

// Principal returns the amount borrowed: the explicit loan amount when set,
// otherwise the home value less the downpayment.
func (loan *Loan) Principal() (float64, error) {
	if loan.LoanAmount != nil {
		return *loan.LoanAmount, nil
	}
	downpayment, _, err := loan.Downpayment()
	if err != nil {
		return 0, err
	}
	return loan.HomeValue - downpayment, nil
}

// ToLoanInputs converts the loan into engine inputs. An empty StartDate
// resolves to the date of now.
func (loan *Loan) ToLoanInputs(now time.Time) (loans.LoanInputs, error) {
	principal, err := loan.Principal()
	if err != nil {
		return loans.LoanInputs{}, err
	}

	startDate := datetime.Date(now)
	if loan.StartDate != "" {
		startDate, err = datetime.ParseDate(loan.StartDate)
		if err != nil {
			return loans.LoanInputs{}, fmt.Errorf("invalid startDate: %w", err)
		}
	}

	return loans.LoanInputs{
		Principal:         principal,
		AnnualRatePercent: loan.InterestRate,
		TermYears:         loan.TermYears,
		StartDate:         startDate,
		GraceMonths:       loan.GraceMonths,
		DeferralMonths:    loan.DeferralMonths,
	}, nil
}

// EngineOptions returns the engine options selected by the loan.
func (loan *Loan) EngineOptions() ([]loans.Option, error) {
	mode, err := loans.ParseAccrualMode(loan.AccrualMode)
	if err != nil {
		return nil, err
	}
	return []loans.Option{
		loans.WithAccrualMode(mode),
		loans.WithZeroRate(loan.AllowZeroRate),
	}, nil
}

// Symbol returns the display currency symbol.
func (loan *Loan) Symbol() string {
	if loan.CurrencySymbol == "" {
		return constants.DefaultCurrencySymbol
	}
	return loan.CurrencySymbol
}

// Details collects the loan values shown next to the computed summary.
func (loan *Loan) Details() (output.LoanDetails, error) {
	amount, percent, err := loan.Downpayment()
	if err != nil {
		return output.LoanDetails{}, err
	}
	principal, err := loan.Principal()
	if err != nil {
		return output.LoanDetails{}, err
	}
	return output.LoanDetails{
		HomeValue:          loan.HomeValue,
		Downpayment:        amount,
		DownpaymentPercent: percent,
		LoanAmount:         principal,
		AnnualRatePercent:  loan.InterestRate,
		TermYears:          loan.TermYears,
		GraceMonths:        loan.GraceMonths,
		DeferralMonths:     loan.DeferralMonths,
		CurrencySymbol:     loan.Symbol(),
	}, nil
}

// Validate returns warnings for values outside the usual input ranges.
func (loan *Loan) Validate(inputs loans.LoanInputs) []string {
	warnings := validation.ValidateLoanInputs(inputs)
	if loan.LoanAmount == nil {
		if amount, _, err := loan.Downpayment(); err == nil {
			if msg := validation.ValidateDownpayment(loan.HomeValue, amount); msg != "" {
				warnings = append(warnings, msg)
			}
		}
	}
	return warnings
}
