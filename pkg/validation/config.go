package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
)

// ValidateLoanInputs returns warnings for inputs outside the ranges the loan
// form accepted. The engine computes these anyway; only its own
// preconditions are errors.
func ValidateLoanInputs(inputs loans.LoanInputs) []string {
	var warnings []string

	if inputs.AnnualRatePercent > constants.MaxAnnualRatePercent {
		warnings = append(warnings, fmt.Sprintf("Interest rate %.2f%% is above the usual maximum of %.2f%%",
			inputs.AnnualRatePercent, constants.MaxAnnualRatePercent))
	}

	if inputs.TermYears > constants.MaxTermYears {
		warnings = append(warnings, fmt.Sprintf("Loan term of %d years is longer than %d years",
			inputs.TermYears, constants.MaxTermYears))
	}

	warnings = append(warnings, validatePrePaymentPeriod("Grace", inputs.GraceMonths)...)
	warnings = append(warnings, validatePrePaymentPeriod("Deferral", inputs.DeferralMonths)...)

	return warnings
}

// ErrOutOfBounds is returned by CheckLoanBounds.
var ErrOutOfBounds = errors.New("loan input out of bounds")

// CheckLoanBounds rejects inputs whose schedule would run past the usual term
// and pre-payment limits. The rate is not bounded here; a high rate only
// warns.
func CheckLoanBounds(inputs loans.LoanInputs) error {
	switch {
	case inputs.TermYears > constants.MaxTermYears:
		return fmt.Errorf("%w: term of %d years exceeds %d years",
			ErrOutOfBounds, inputs.TermYears, constants.MaxTermYears)
	case inputs.GraceMonths > constants.MaxPrePaymentMonths:
		return fmt.Errorf("%w: grace period of %d months exceeds %d months",
			ErrOutOfBounds, inputs.GraceMonths, constants.MaxPrePaymentMonths)
	case inputs.DeferralMonths > constants.MaxPrePaymentMonths:
		return fmt.Errorf("%w: deferral period of %d months exceeds %d months",
			ErrOutOfBounds, inputs.DeferralMonths, constants.MaxPrePaymentMonths)
	}
	return nil
}

func validatePrePaymentPeriod(name string, months int) []string {
	if months > constants.MaxPrePaymentMonths {
		return []string{fmt.Sprintf("%s period of %d months is longer than %d months",
			name, months, constants.MaxPrePaymentMonths)}
	}
	return nil
}

// ValidateDownpayment checks that the downpayment does not exceed the home value.
func ValidateDownpayment(homeValue, downpayment float64) string {
	if homeValue > 0 && downpayment > homeValue {
		return fmt.Sprintf("Downpayment %.2f exceeds home value %.2f", downpayment, homeValue)
	}
	return ""
}
