// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-amortization/pkg/loans"
)

// FindPeriod finds the period with the given month index in a schedule.
// Returns a pointer to the period if found, nil otherwise.
func FindPeriod(schedule []loans.SchedulePeriod, monthIndex int) *loans.SchedulePeriod {
	for i := range schedule {
		if schedule[i].MonthIndex == monthIndex {
			return &schedule[i]
		}
	}
	return nil
}

// LastPeriodOf returns the final period of the given phase, or nil when the
// schedule has none.
func LastPeriodOf(schedule []loans.SchedulePeriod, phase loans.Phase) *loans.SchedulePeriod {
	for i := len(schedule) - 1; i >= 0; i-- {
		if schedule[i].Phase == phase {
			return &schedule[i]
		}
	}
	return nil
}
