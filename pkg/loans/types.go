package loans

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
)

// LoanInputs holds the parameters of a single loan. StartDate carries no
// time-of-day component; the engine truncates it to a UTC date.
type LoanInputs struct {
	Principal         float64
	AnnualRatePercent float64
	TermYears         int
	StartDate         time.Time
	GraceMonths       int // no payment, no interest
	DeferralMonths    int // no payment, interest accrues
}

// TermMonths returns the number of repayment periods.
func (in LoanInputs) TermMonths() int {
	return in.TermYears * constants.MonthsPerYear
}

// Phase identifies which part of the loan timeline a period belongs to.
type Phase int

const (
	PhaseGrace Phase = iota
	PhaseDeferral
	PhaseRepayment
)

var phaseNames = [...]string{"grace", "deferral", "repayment"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// AccrualMode selects how interest accrues during the deferral period.
type AccrualMode int

const (
	// AccrualCompound compounds interest monthly on the growing balance.
	AccrualCompound AccrualMode = iota
	// AccrualSimple accrues interest on the original principal only.
	AccrualSimple
)

func (m AccrualMode) String() string {
	if m == AccrualSimple {
		return "simple"
	}
	return "compound"
}

// ParseAccrualMode converts a configuration string into an AccrualMode. The
// empty string selects AccrualCompound.
func ParseAccrualMode(s string) (AccrualMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compound":
		return AccrualCompound, nil
	case "simple":
		return AccrualSimple, nil
	default:
		return AccrualCompound, fmt.Errorf("unknown accrual mode %q, expected compound or simple", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AccrualMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AccrualMode) UnmarshalText(text []byte) error {
	mode, err := ParseAccrualMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// SchedulePeriod holds the values for one month of the loan timeline.
type SchedulePeriod struct {
	MonthIndex          int
	Date                time.Time
	Phase               Phase
	PrincipalPaid       float64
	InterestPaid        float64
	TotalPaid           float64
	InterestAccrued     float64 // unpaid interest added to the balance during deferral
	CumulativePrincipal float64
	CumulativeInterest  float64
	RemainingBalance    float64
}

// Summary holds the aggregate figures derived from a schedule.
type Summary struct {
	MonthlyPayment          float64
	Principal               float64
	AdjustedPrincipal       float64
	DeferredInterestAccrued float64
	MonthlyRate             float64
	TermMonths              int
	FirstPaymentDate        time.Time
	PayoffDate              time.Time
	TotalPaid               float64
	TotalInterest           float64
}

// Result is the output of a single engine computation.
type Result struct {
	Summary  Summary
	Schedule []SchedulePeriod
}

// Repayments returns the repayment-phase periods of the schedule.
func (r *Result) Repayments() []SchedulePeriod {
	for i, period := range r.Schedule {
		if period.Phase == PhaseRepayment {
			return r.Schedule[i:]
		}
	}
	return nil
}

// PhaseCount returns the number of periods in the given phase.
func (r *Result) PhaseCount(phase Phase) int {
	count := 0
	for _, period := range r.Schedule {
		if period.Phase == phase {
			count++
		}
	}
	return count
}
