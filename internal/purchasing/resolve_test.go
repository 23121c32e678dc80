package purchasing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var resolveToday = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func TestResolvePaymentPending(t *testing.T) {
	res, err := ResolvePayment(decimal.Zero, decimal.NewFromInt(1000), resolveToday.AddDate(0, 0, 14), resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPending, res.Status)
	require.True(t, res.Remaining.Equal(decimal.NewFromInt(1000)))
}

func TestResolvePaymentOverdueWhenDueDateLapsed(t *testing.T) {
	res, err := ResolvePayment(decimal.Zero, decimal.NewFromInt(1000), resolveToday.AddDate(0, 0, -1), resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusOverdue, res.Status)
	require.True(t, res.Remaining.Equal(decimal.NewFromInt(1000)))
}

func TestResolvePaymentPartial(t *testing.T) {
	res, err := ResolvePayment(decimal.NewFromInt(500), decimal.NewFromInt(1025), resolveToday.AddDate(0, 0, 7), resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPartial, res.Status)
	require.True(t, res.Remaining.Equal(decimal.NewFromInt(525)))
}

func TestResolvePaymentPartialIgnoresLapsedDueDate(t *testing.T) {
	// A partly paid invoice stays PARTIAL even past its due date; only
	// untouched payments flip to OVERDUE.
	res, err := ResolvePayment(decimal.NewFromInt(1), decimal.NewFromInt(1000), resolveToday.AddDate(0, 0, -30), resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPartial, res.Status)
}

func TestResolvePaymentPaid(t *testing.T) {
	res, err := ResolvePayment(decimal.NewFromInt(1025), decimal.NewFromInt(1025), resolveToday, resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPaid, res.Status)
	require.True(t, res.Remaining.IsZero())
}

func TestResolvePaymentRejectsOverpayment(t *testing.T) {
	_, err := ResolvePayment(decimal.NewFromInt(1100), decimal.NewFromInt(1000), resolveToday, resolveToday)
	require.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "paidAmount", verr.Field)
}

func TestResolvePaymentRejectsNegativeAmounts(t *testing.T) {
	_, err := ResolvePayment(decimal.NewFromInt(-1), decimal.NewFromInt(100), resolveToday, resolveToday)
	require.ErrorIs(t, err, ErrValidation)
	_, err = ResolvePayment(decimal.Zero, decimal.NewFromInt(-100), resolveToday, resolveToday)
	require.ErrorIs(t, err, ErrValidation)
}

func TestResolvePaymentStatusMonotonic(t *testing.T) {
	due := decimal.NewFromInt(1000)
	rank := map[PaymentStatus]int{
		PaymentStatusPending: 0,
		PaymentStatusOverdue: 0,
		PaymentStatusPartial: 1,
		PaymentStatusPaid:    2,
	}
	prev := -1
	for paid := int64(0); paid <= 1000; paid += 50 {
		res, err := ResolvePayment(decimal.NewFromInt(paid), due, resolveToday.AddDate(0, 0, 7), resolveToday)
		require.NoError(t, err)
		require.GreaterOrEqual(t, rank[res.Status], prev, "status moved backward at paid=%d", paid)
		require.True(t, res.Remaining.GreaterThanOrEqual(decimal.Zero))
		require.True(t, res.Remaining.LessThanOrEqual(due))
		prev = rank[res.Status]
	}
}

func TestApplyPaymentScenario(t *testing.T) {
	p := Payment{
		DueAmount:       decimal.NewFromInt(1025),
		PaidAmount:      decimal.NewFromInt(500),
		RemainingAmount: decimal.NewFromInt(525),
		Status:          PaymentStatusPartial,
		DueDate:         resolveToday.AddDate(0, 0, 30),
	}

	settled, err := ApplyPayment(p, PaymentEventInput{Amount: decimal.NewFromInt(525), Date: resolveToday, Method: "TRANSFER"}, resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPaid, settled.Status)
	require.True(t, settled.RemainingAmount.IsZero())
	require.NotNil(t, settled.PaidAt)
	require.True(t, settled.PaidAt.Equal(resolveToday))

	// Exceeding the remaining balance must raise a validation error, not cap.
	_, err = ApplyPayment(p, PaymentEventInput{Amount: decimal.NewFromInt(600)}, resolveToday)
	require.ErrorIs(t, err, ErrValidation)

	// Original value untouched by either call.
	require.True(t, p.PaidAmount.Equal(decimal.NewFromInt(500)))
	require.Equal(t, PaymentStatusPartial, p.Status)
}

func TestApplyPaymentRejectsNonPositiveAmount(t *testing.T) {
	p := Payment{DueAmount: decimal.NewFromInt(100), RemainingAmount: decimal.NewFromInt(100), Status: PaymentStatusPending}
	_, err := ApplyPayment(p, PaymentEventInput{Amount: decimal.Zero}, resolveToday)
	require.ErrorIs(t, err, ErrValidation)
	_, err = ApplyPayment(p, PaymentEventInput{Amount: decimal.NewFromInt(-5)}, resolveToday)
	require.ErrorIs(t, err, ErrValidation)
}

func TestApplyPaymentRejectsSettledPayment(t *testing.T) {
	p := Payment{
		DueAmount:       decimal.NewFromInt(100),
		PaidAmount:      decimal.NewFromInt(100),
		RemainingAmount: decimal.Zero,
		Status:          PaymentStatusPaid,
	}
	_, err := ApplyPayment(p, PaymentEventInput{Amount: decimal.NewFromInt(1)}, resolveToday)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestApplyPaymentPartialAccumulates(t *testing.T) {
	p := Payment{
		DueAmount:       decimal.NewFromInt(1000),
		RemainingAmount: decimal.NewFromInt(1000),
		Status:          PaymentStatusPending,
		DueDate:         resolveToday.AddDate(0, 0, 10),
	}
	step1, err := ApplyPayment(p, PaymentEventInput{Amount: decimal.NewFromInt(300)}, resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPartial, step1.Status)
	require.True(t, step1.RemainingAmount.Equal(decimal.NewFromInt(700)))
	require.Nil(t, step1.PaidAt)

	step2, err := ApplyPayment(step1, PaymentEventInput{Amount: decimal.NewFromInt(700)}, resolveToday)
	require.NoError(t, err)
	require.Equal(t, PaymentStatusPaid, step2.Status)
	require.True(t, step2.PaidAmount.Equal(decimal.NewFromInt(1000)))
}
