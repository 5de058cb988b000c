package engine

import (
	"testing"
	"time"

	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDateClampsShortMonth(t *testing.T) {
	// payment_day=31 in mid-February lands on the month's last day.
	got := NextDueDate(31, date(2026, time.February, 15))
	assert.Equal(t, date(2026, time.February, 28), got)

	got = NextDueDate(31, date(2024, time.February, 15))
	assert.Equal(t, date(2024, time.February, 29), got)
}

func TestNextDueDateRollsForwardWhenPast(t *testing.T) {
	got := NextDueDate(10, date(2026, time.March, 15))
	assert.Equal(t, date(2026, time.April, 10), got)

	// Due today stays in this month.
	got = NextDueDate(15, date(2026, time.March, 15))
	assert.Equal(t, date(2026, time.March, 15), got)
}

func TestNextDueDateIdempotent(t *testing.T) {
	today := date(2026, time.January, 7)
	first := NextDueDate(31, today)
	second := NextDueDate(31, today)
	assert.Equal(t, first, second)
}

func TestNextDueDateYearRollover(t *testing.T) {
	got := NextDueDate(5, date(2026, time.December, 20))
	assert.Equal(t, date(2027, time.January, 5), got)
}

func TestRefreshStatusBoundary(t *testing.T) {
	s := Initialize(31, domain.PaymentCycleMonthly, date(2026, time.January, 10))
	require.Equal(t, date(2026, time.January, 31), s.NextPaymentDate)
	assert.Equal(t, domain.PaymentStatusPending, s.Status)

	before := RefreshStatus(s, date(2026, time.January, 30))
	assert.Equal(t, domain.PaymentStatusPending, before.Status)

	// Due today already counts as overdue.
	onDue := RefreshStatus(s, date(2026, time.January, 31))
	assert.Equal(t, domain.PaymentStatusOverdue, onDue.Status)

	after := RefreshStatus(s, date(2026, time.February, 2))
	assert.Equal(t, domain.PaymentStatusOverdue, after.Status)
}

func TestRecordPaymentEarly(t *testing.T) {
	s := Initialize(31, domain.PaymentCycleMonthly, date(2026, time.January, 10))

	settled, err := RecordPayment(s, date(2026, time.January, 20))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTimingEarly, settled.Timing)
	assert.Equal(t, domain.PaymentStatusEarlyPaid, settled.Status)
	require.NotNil(t, settled.LastPaymentDate)
	assert.Equal(t, date(2026, time.January, 20), *settled.LastPaymentDate)
	// Rollover clamps day 31 into February.
	assert.Equal(t, date(2026, time.February, 28), settled.NextPaymentDate)
}

func TestClassifyBoundary(t *testing.T) {
	due := date(2026, time.March, 15)

	status, timing := Classify(date(2026, time.March, 14), due)
	assert.Equal(t, domain.PaymentStatusEarlyPaid, status)
	assert.Equal(t, domain.PaymentTimingEarly, timing)

	status, timing = Classify(due, due)
	assert.Equal(t, domain.PaymentStatusPaid, status)
	assert.Equal(t, domain.PaymentTimingOnTime, timing)

	status, timing = Classify(date(2026, time.March, 16), due)
	assert.Equal(t, domain.PaymentStatusPaid, status)
	assert.Equal(t, domain.PaymentTimingLate, timing)

	// Wall-clock timestamps truncate to the day before comparing.
	status, _ = Classify(due.Add(9*time.Hour+30*time.Minute), due)
	assert.Equal(t, domain.PaymentStatusPaid, status)
}

func TestRecordPaymentOnTimeAndLate(t *testing.T) {
	s := Initialize(15, domain.PaymentCycleMonthly, date(2026, time.March, 1))

	onTime, err := RecordPayment(s, date(2026, time.March, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTimingOnTime, onTime.Timing)
	assert.Equal(t, domain.PaymentStatusPaid, onTime.Status)
	assert.Equal(t, date(2026, time.April, 15), onTime.NextPaymentDate)

	late, err := RecordPayment(s, date(2026, time.March, 20))
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTimingLate, late.Timing)
	assert.Equal(t, domain.PaymentStatusPaid, late.Status)
	assert.Equal(t, date(2026, time.April, 15), late.NextPaymentDate)
}

func TestRecordPaymentQuarterlyAndYearly(t *testing.T) {
	q := Initialize(30, domain.PaymentCycleQuarterly, date(2026, time.November, 1))
	settled, err := RecordPayment(q, date(2026, time.November, 30))
	require.NoError(t, err)
	// Nov 30 + 3 months clamps into February.
	assert.Equal(t, date(2027, time.February, 28), settled.NextPaymentDate)

	y := Initialize(29, domain.PaymentCycleYearly, date(2024, time.February, 1))
	settled, err = RecordPayment(y, date(2024, time.February, 29))
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.February, 28), settled.NextPaymentDate)
}

func TestRecordPaymentCustomCycleRejected(t *testing.T) {
	s := Initialize(10, domain.PaymentCycleCustom, date(2026, time.May, 1))
	_, err := RecordPayment(s, date(2026, time.May, 10))
	assert.ErrorIs(t, err, domain.ErrUnsupportedCycle)
}

func TestSettlementSticky(t *testing.T) {
	s := Initialize(31, domain.PaymentCycleMonthly, date(2026, time.January, 10))
	settled, err := RecordPayment(s, date(2026, time.January, 20))
	require.NoError(t, err)

	// Any later refresh leaves the settled status untouched.
	for _, today := range []time.Time{
		date(2026, time.January, 20),
		date(2026, time.January, 31),
		date(2026, time.February, 28),
		date(2026, time.June, 1),
	} {
		refreshed := RefreshStatus(settled, today)
		assert.Equal(t, domain.PaymentStatusEarlyPaid, refreshed.Status, "today=%s", today)
	}
}

func TestRescheduleKeepsSettlement(t *testing.T) {
	s := Initialize(10, domain.PaymentCycleMonthly, date(2026, time.April, 1))
	settled, err := RecordPayment(s, date(2026, time.April, 10))
	require.NoError(t, err)

	settled.PaymentDay = 25
	moved := Reschedule(settled, date(2026, time.April, 12))
	assert.Equal(t, date(2026, time.April, 25), moved.NextPaymentDate)
	assert.Equal(t, domain.PaymentStatusPaid, moved.Status)
	assert.Equal(t, domain.PaymentTimingOnTime, moved.Timing)
}

func TestStateRoundTrip(t *testing.T) {
	e := &domain.Entity{
		PaymentDay:          7,
		PaymentCycle:        domain.PaymentCycleMonthly,
		NextPaymentDate:     date(2026, time.July, 7),
		CurrentPeriodStatus: domain.PaymentStatusPending,
	}
	s := StateOf(e)
	s = RefreshStatus(s, date(2026, time.July, 8))
	s.Apply(e)
	assert.Equal(t, domain.PaymentStatusOverdue, e.CurrentPeriodStatus)
	assert.Equal(t, date(2026, time.July, 7), e.NextPaymentDate)
}
