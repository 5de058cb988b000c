// Package engine implements the payment-cycle state machine as pure
// functions over a value-type State, so every transition is testable
// with a fixed "today" and no wall clock.
package engine

import (
	"time"

	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/calendar"
)

// State is the payment-cycle slice of a billable entity.
type State struct {
	PaymentDay      int
	Cycle           domain.PaymentCycle
	NextPaymentDate time.Time
	Status          domain.PaymentStatus
	LastPaymentDate *time.Time
	Timing          domain.PaymentTiming
}

// StateOf extracts the engine state from an entity row.
func StateOf(e *domain.Entity) State {
	return State{
		PaymentDay:      e.PaymentDay,
		Cycle:           e.PaymentCycle,
		NextPaymentDate: e.NextPaymentDate,
		Status:          e.CurrentPeriodStatus,
		LastPaymentDate: e.LastPaymentDate,
		Timing:          e.PaymentTiming,
	}
}

// Apply writes the state back onto an entity row.
func (s State) Apply(e *domain.Entity) {
	e.PaymentDay = s.PaymentDay
	e.PaymentCycle = s.Cycle
	e.NextPaymentDate = s.NextPaymentDate
	e.CurrentPeriodStatus = s.Status
	e.LastPaymentDate = s.LastPaymentDate
	e.PaymentTiming = s.Timing
}

// NextDueDate computes the clamped payment day in today's month, or in
// the following month when today is already past it. Idempotent for a
// fixed today. Assumes a pre-validated day in [1,31] and never fails:
// out-of-range days are clamped, not rejected.
func NextDueDate(paymentDay int, today time.Time) time.Time {
	today = calendar.Midnight(today)
	candidate, _ := calendar.DateOf(today.Year(), int(today.Month()), paymentDay)
	if !today.After(candidate) {
		return candidate
	}
	next := calendar.AddMonths(today, 1)
	candidate, _ = calendar.DateOf(next.Year(), int(next.Month()), paymentDay)
	return candidate
}

// Initialize is the entity-creation transition: due date from today,
// status pending.
func Initialize(paymentDay int, cycle domain.PaymentCycle, today time.Time) State {
	return State{
		PaymentDay:      paymentDay,
		Cycle:           cycle,
		NextPaymentDate: NextDueDate(paymentDay, today),
		Status:          domain.PaymentStatusPending,
	}
}

// Reschedule recomputes the due date after a payment_day or cycle edit,
// keeping settlement history intact.
func Reschedule(s State, today time.Time) State {
	s.NextPaymentDate = NextDueDate(s.PaymentDay, today)
	if !s.Status.Settled() {
		s = RefreshStatus(s, today)
	}
	return s
}

// RefreshStatus derives pending/overdue as of today. Settled periods
// are sticky: once paid or early_paid, only RecordPayment's rollover
// reopens the state. Due today counts as overdue; this is the single
// owner of that boundary rule.
func RefreshStatus(s State, today time.Time) State {
	if s.Status.Settled() {
		return s
	}
	if !calendar.Midnight(today).Before(s.NextPaymentDate) {
		s.Status = domain.PaymentStatusOverdue
	} else {
		s.Status = domain.PaymentStatusPending
	}
	return s
}

// Classify compares a payment date against the period's due date and
// returns the settlement status and timing. Single owner of the
// early/on-time/late boundary; callers must not re-derive it.
func Classify(paymentDate, dueDate time.Time) (domain.PaymentStatus, domain.PaymentTiming) {
	paid := calendar.Midnight(paymentDate)
	switch {
	case paid.Before(dueDate):
		return domain.PaymentStatusEarlyPaid, domain.PaymentTimingEarly
	case paid.Equal(dueDate):
		return domain.PaymentStatusPaid, domain.PaymentTimingOnTime
	default:
		return domain.PaymentStatusPaid, domain.PaymentTimingLate
	}
}

// RecordPayment settles the current period. Timing is classified
// against the due date before the rollover advances it; reordering
// those two steps would compare against the wrong baseline.
func RecordPayment(s State, paymentDate time.Time) (State, error) {
	paid := calendar.Midnight(paymentDate)
	due := s.NextPaymentDate
	if due.IsZero() {
		due = NextDueDate(s.PaymentDay, paid)
	}

	s.Status, s.Timing = Classify(paid, due)
	s.LastPaymentDate = &paid

	next, err := advanceByCycle(paid, s.PaymentDay, s.Cycle)
	if err != nil {
		return s, err
	}
	s.NextPaymentDate = next
	return s, nil
}

// advanceByCycle computes the following period's due date from the
// settlement date: the clamped payment day one cycle length ahead.
func advanceByCycle(from time.Time, paymentDay int, cycle domain.PaymentCycle) (time.Time, error) {
	var months int
	switch cycle {
	case domain.PaymentCycleMonthly:
		months = 1
	case domain.PaymentCycleQuarterly:
		months = 3
	case domain.PaymentCycleYearly:
		months = 12
	case domain.PaymentCycleCustom:
		return time.Time{}, domain.ErrUnsupportedCycle
	default:
		return time.Time{}, domain.ErrInvalidCycle
	}
	base := calendar.AddMonths(calendar.Midnight(from), months)
	return calendar.DateOf(base.Year(), int(base.Month()), paymentDay)
}
