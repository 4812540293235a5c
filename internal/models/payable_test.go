package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayable(value string) *Payable {
	return &Payable{
		TenantID:       1,
		Value:          dec(value),
		Status:         PayablePending,
		Kind:           PayableOperatingExpense,
		CompetencyDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestPayable_Pay(t *testing.T) {
	p := newPayable("250.00")
	date := time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.Pay(date, MethodPix))
	assert.Equal(t, PayablePaid, p.Status)
	assert.Equal(t, MethodPix, p.Method)
	require.NotNil(t, p.PaymentDate)
	assert.Equal(t, date, *p.PaymentDate)
}

func TestPayable_PayRejectsDoubleSettlement(t *testing.T) {
	p := newPayable("250.00")
	require.NoError(t, p.Pay(time.Now(), MethodCash))

	assert.ErrorIs(t, p.Pay(time.Now(), MethodCash), ErrAlreadyPaid)
}

func TestPayable_PayRejectsCancelled(t *testing.T) {
	p := newPayable("250.00")
	require.NoError(t, p.Cancel())

	assert.ErrorIs(t, p.Pay(time.Now(), MethodCash), ErrCancelled)
}

func TestPayable_CancelRejectsPaid(t *testing.T) {
	p := newPayable("250.00")
	require.NoError(t, p.Pay(time.Now(), MethodCash))

	assert.ErrorIs(t, p.Cancel(), ErrAlreadyPaid)
}

func TestPayable_IsOverdue(t *testing.T) {
	p := newPayable("250.00")

	assert.False(t, p.IsOverdue(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.IsOverdue(time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, p.Pay(time.Now(), MethodCash))
	assert.False(t, p.IsOverdue(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}
