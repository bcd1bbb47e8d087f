package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"github.com/iwvelando/mortgage-amortization/pkg/datetime"
	"go.uber.org/zap"
)

// ErrInsufficientInput is returned when the loan inputs cannot produce a
// schedule. It is the only failure mode of Compute.
var ErrInsufficientInput = errors.New("insufficient input")

// maxPreallocatedPeriods bounds the up-front schedule allocation. Longer
// schedules grow by append.
const maxPreallocatedPeriods = 1 << 12

// Engine computes amortization schedules. It holds no state between calls and
// is safe for concurrent use.
type Engine struct {
	logger        *zap.Logger
	accrualMode   AccrualMode
	allowZeroRate bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithAccrualMode selects simple or compound deferral accrual.
func WithAccrualMode(mode AccrualMode) Option {
	return func(e *Engine) {
		e.accrualMode = mode
	}
}

// WithZeroRate accepts an annual rate of exactly zero, producing a
// straight-line schedule. By default the rate must be strictly positive.
func WithZeroRate(allow bool) Option {
	return func(e *Engine) {
		e.allowZeroRate = allow
	}
}

// NewEngine creates a new engine instance.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{logger: logger, accrualMode: AccrualCompound}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the default engine on inputs.
func Compute(inputs LoanInputs) (*Result, error) {
	return NewEngine(nil).Compute(inputs)
}

// Compute produces the summary and the full grace, deferral and repayment
// schedule for inputs. No partial result is returned on error.
func (e *Engine) Compute(inputs LoanInputs) (*Result, error) {
	if err := e.checkInputs(inputs); err != nil {
		return nil, err
	}

	r := MonthlyRate(inputs.AnnualRatePercent)
	termMonths := inputs.TermMonths()
	adjustedPrincipal := AccruePrincipal(inputs.Principal, inputs.AnnualRatePercent, inputs.DeferralMonths, e.accrualMode)
	monthlyPayment := CalculateMonthlyPayment(adjustedPrincipal, inputs.AnnualRatePercent, termMonths)

	startDate := datetime.Date(inputs.StartDate)
	firstPaymentDate := datetime.AddMonths(startDate, inputs.GraceMonths+inputs.DeferralMonths)

	periods := inputs.GraceMonths + inputs.DeferralMonths + termMonths
	schedule := make([]SchedulePeriod, 0, min(periods, maxPreallocatedPeriods))
	month := 0

	balance := inputs.Principal
	for i := 0; i < inputs.GraceMonths; i++ {
		month++
		schedule = append(schedule, SchedulePeriod{
			MonthIndex:       month,
			Date:             datetime.AddMonths(startDate, month-1),
			Phase:            PhaseGrace,
			RemainingBalance: balance,
		})
	}

	for i := 0; i < inputs.DeferralMonths; i++ {
		month++
		accrued := balance * r
		if e.accrualMode == AccrualSimple {
			accrued = inputs.Principal * r
		}
		balance += accrued
		schedule = append(schedule, SchedulePeriod{
			MonthIndex:       month,
			Date:             datetime.AddMonths(startDate, month-1),
			Phase:            PhaseDeferral,
			InterestAccrued:  accrued,
			RemainingBalance: balance,
		})
	}

	balance = adjustedPrincipal
	var cumulativePrincipal, cumulativeInterest float64
	for k := 1; k <= termMonths; k++ {
		month++
		interest := CalculateInterestPayment(balance, inputs.AnnualRatePercent)
		principal := monthlyPayment - interest
		balance -= principal
		cumulativePrincipal += principal
		cumulativeInterest += interest

		remaining := math.Max(0, balance)
		if k == termMonths {
			// We will get machine error otherwise so just set to 0.
			remaining = 0
		}

		schedule = append(schedule, SchedulePeriod{
			MonthIndex:          month,
			Date:                datetime.AddMonths(firstPaymentDate, k-1),
			Phase:               PhaseRepayment,
			PrincipalPaid:       principal,
			InterestPaid:        interest,
			TotalPaid:           monthlyPayment,
			CumulativePrincipal: cumulativePrincipal,
			CumulativeInterest:  cumulativeInterest,
			RemainingBalance:    remaining,
		})
	}

	totalPaid := monthlyPayment * float64(termMonths)
	summary := Summary{
		MonthlyPayment:          monthlyPayment,
		Principal:               inputs.Principal,
		AdjustedPrincipal:       adjustedPrincipal,
		DeferredInterestAccrued: adjustedPrincipal - inputs.Principal,
		MonthlyRate:             r,
		TermMonths:              termMonths,
		FirstPaymentDate:        firstPaymentDate,
		PayoffDate:              datetime.AddMonths(firstPaymentDate, termMonths),
		TotalPaid:               totalPaid,
		// Measured against the original principal, so deferred interest
		// counts as interest paid.
		TotalInterest: totalPaid - inputs.Principal,
	}

	e.logger.Debug(fmt.Sprintf("computed %d-period schedule with monthly payment %.2f", len(schedule), monthlyPayment),
		zap.String("op", "loans.Compute"),
		zap.Float64("principal", inputs.Principal),
		zap.Float64("adjusted_principal", adjustedPrincipal),
		zap.Int("grace_months", inputs.GraceMonths),
		zap.Int("deferral_months", inputs.DeferralMonths),
		zap.Stringer("accrual_mode", e.accrualMode),
	)

	return &Result{Summary: summary, Schedule: schedule}, nil
}

func (e *Engine) checkInputs(inputs LoanInputs) error {
	var reason string
	switch {
	case !(inputs.Principal > 0):
		reason = fmt.Sprintf("principal must be positive, got %v", inputs.Principal)
	case e.allowZeroRate && !(inputs.AnnualRatePercent >= 0):
		reason = fmt.Sprintf("interest rate must not be negative, got %v", inputs.AnnualRatePercent)
	case !e.allowZeroRate && !(inputs.AnnualRatePercent > 0):
		reason = fmt.Sprintf("interest rate must be positive, got %v", inputs.AnnualRatePercent)
	case inputs.TermYears < 1:
		reason = fmt.Sprintf("term must be at least one year, got %d", inputs.TermYears)
	case inputs.TermYears > math.MaxInt/constants.MonthsPerYear:
		reason = fmt.Sprintf("term of %d years overflows the month count", inputs.TermYears)
	case inputs.GraceMonths < 0:
		reason = fmt.Sprintf("grace period must not be negative, got %d", inputs.GraceMonths)
	case inputs.DeferralMonths < 0:
		reason = fmt.Sprintf("deferral period must not be negative, got %d", inputs.DeferralMonths)
	case inputs.GraceMonths > math.MaxInt-inputs.DeferralMonths ||
		inputs.GraceMonths+inputs.DeferralMonths > math.MaxInt-inputs.TermMonths():
		reason = "grace, deferral and repayment months overflow the period count"
	default:
		return nil
	}

	e.logger.Debug("rejecting loan inputs",
		zap.String("op", "loans.Compute"),
		zap.String("reason", reason),
	)
	return fmt.Errorf("%w: %s", ErrInsufficientInput, reason)
}
