// Package loans provides the loan amortization engine: payment calculation,
// deferral accrual and the month-by-month schedule.
package loans

import (
	"math"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
)

// MonthlyRate converts an annual nominal rate in percent to the monthly
// periodic rate, e.g. 6.0 -> 0.005.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CalculateMonthlyPayment calculates the fixed monthly payment that amortizes
// principal over termMonths using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	r := MonthlyRate(annualRatePercent)
	if r == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	// growth is (1+r)^n - 1, kept accurate for rates near zero.
	growth := math.Expm1(float64(termMonths) * math.Log1p(r))
	return principal * r * (growth + 1) / growth
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * MonthlyRate(annualRatePercent)
}

// AccruePrincipal returns the balance owed after months of unpaid interest
// accrual on principal.
func AccruePrincipal(principal, annualRatePercent float64, months int, mode AccrualMode) float64 {
	if months <= 0 {
		return principal
	}
	r := MonthlyRate(annualRatePercent)
	if mode == AccrualSimple {
		return principal * (1 + r*float64(months))
	}
	return principal * math.Exp(float64(months)*math.Log1p(r))
}
