package loans

import (
	"math"
	"testing"
)

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name     string
		annual   float64
		expected float64
	}{
		{"Six percent", 6.0, 0.005},
		{"Twelve percent", 12.0, 0.01},
		{"Zero", 0.0, 0.0},
		{"Fractional", 4.5, 0.00375},
		{"Above form limit", 36.0, 0.03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := MonthlyRate(tt.annual); math.Abs(result-tt.expected) > 1e-15 {
				t.Errorf("MonthlyRate(%v) = %v, expected %v", tt.annual, result, tt.expected)
			}
		})
	}
}

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		annualInterestRate float64
		termMonths         int
		expectedRange      []float64 // [min, max] expected range
	}{
		{
			name:               "Standard 30-year mortgage",
			principal:          240000,
			annualInterestRate: 6.0,
			termMonths:         360,
			expectedRange:      []float64{1438.90, 1438.94}, // $1438.92
		},
		{
			name:               "5-year car loan",
			principal:          20000,
			annualInterestRate: 4.0,
			termMonths:         60,
			expectedRange:      []float64{368.32, 368.34}, // $368.33
		},
		{
			name:               "Zero interest loan",
			principal:          10000,
			annualInterestRate: 0.0,
			termMonths:         60,
			expectedRange:      []float64{166.66, 166.67}, // $166.666...
		},
		{
			name:               "High interest loan",
			principal:          10000,
			annualInterestRate: 18.0,
			termMonths:         36,
			expectedRange:      []float64{361.51, 361.53}, // $361.52
		},
		{
			name:               "Single payment",
			principal:          1000,
			annualInterestRate: 12.0,
			termMonths:         1,
			expectedRange:      []float64{1009.99, 1010.01}, // principal plus one month
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.annualInterestRate, tt.termMonths)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.4f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateMonthlyPaymentLongTermStability(t *testing.T) {
	// The annuity form P*r/(1-(1+r)^-n) is algebraically identical; both
	// should agree to double precision even over 50 years.
	for _, termMonths := range []int{360, 600, 732} {
		for _, rate := range []float64{0.5, 6.0, 19.99} {
			r := MonthlyRate(rate)
			expected := 250000 * r / (1 - math.Pow(1+r, -float64(termMonths)))
			result := CalculateMonthlyPayment(250000, rate, termMonths)
			if rel := math.Abs(result-expected) / expected; rel > 1e-9 {
				t.Errorf("CalculateMonthlyPayment(250000, %v, %d) = %v, annuity form %v (rel err %g)",
					rate, termMonths, result, expected, rel)
			}
		}
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name               string
		remainingPrincipal float64
		annualInterestRate float64
		expected           float64
	}{
		{
			name:               "Standard mortgage interest",
			remainingPrincipal: 200000,
			annualInterestRate: 6.0,
			expected:           1000.0, // 200000 * 0.06 / 12
		},
		{
			name:               "Car loan interest",
			remainingPrincipal: 15000,
			annualInterestRate: 4.5,
			expected:           56.25, // 15000 * 0.045 / 12
		},
		{
			name:               "Zero interest",
			remainingPrincipal: 10000,
			annualInterestRate: 0.0,
			expected:           0.0,
		},
		{
			name:               "Very small principal",
			remainingPrincipal: 100,
			annualInterestRate: 6.0,
			expected:           0.5, // 100 * 0.06 / 12
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingPrincipal, tt.annualInterestRate)

			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestAccruePrincipal(t *testing.T) {
	tests := []struct {
		name     string
		months   int
		mode     AccrualMode
		expected float64
	}{
		{"No deferral", 0, AccrualCompound, 200000},
		{"Negative months ignored", -3, AccrualCompound, 200000},
		{"Compound one year", 12, AccrualCompound, 200000 * math.Pow(1+0.05/12, 12)},
		{"Simple one year", 12, AccrualSimple, 210000},
		{"Simple one month", 1, AccrualSimple, 200000 * (1 + 0.05/12)},
		{"Compound one month matches simple", 1, AccrualCompound, 200000 * (1 + 0.05/12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AccruePrincipal(200000, 5.0, tt.months, tt.mode)
			if math.Abs(result-tt.expected) > 1e-6 {
				t.Errorf("AccruePrincipal() = %.6f, expected %.6f", result, tt.expected)
			}
		})
	}
}

func TestParseAccrualMode(t *testing.T) {
	tests := []struct {
		input    string
		expected AccrualMode
		wantErr  bool
	}{
		{"", AccrualCompound, false},
		{"compound", AccrualCompound, false},
		{" Simple ", AccrualSimple, false},
		{"SIMPLE", AccrualSimple, false},
		{"continuous", AccrualCompound, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseAccrualMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAccrualMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("ParseAccrualMode(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseGrace.String() != "grace" || PhaseDeferral.String() != "deferral" || PhaseRepayment.String() != "repayment" {
		t.Errorf("unexpected phase names: %s %s %s", PhaseGrace, PhaseDeferral, PhaseRepayment)
	}
	if Phase(7).String() != "Phase(7)" {
		t.Errorf("unexpected unknown phase name: %s", Phase(7))
	}
}
