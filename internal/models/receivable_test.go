package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newReceivable(value string) *Receivable {
	return &Receivable{
		TenantID:        1,
		Value:           dec(value),
		AmountReceived:  decimal.Zero,
		WriteOffAmount:  decimal.Zero,
		Status:          ReceivablePending,
		RecognitionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestReceivable_ReceivePartialThenFull(t *testing.T) {
	r := newReceivable("500.00")
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	receipt, err := r.Receive(dec("200.00"), date, MethodPix, "")
	require.NoError(t, err)
	assert.Equal(t, ReceivablePartial, r.Status)
	assert.True(t, r.RemainingBalance().Equal(dec("300.00")))
	assert.Nil(t, r.PaymentDate)
	assert.True(t, receipt.Amount.Equal(dec("200.00")))

	_, err = r.Receive(dec("300.00"), date, MethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, ReceivablePaid, r.Status)
	assert.True(t, r.RemainingBalance().IsZero())
	require.NotNil(t, r.PaymentDate)
	assert.Equal(t, date, *r.PaymentDate)
}

func TestReceivable_ReceiveRejectsOverpayment(t *testing.T) {
	r := newReceivable("100.00")
	before := r.AmountReceived

	_, err := r.Receive(dec("100.01"), time.Now(), MethodCash, "")
	assert.ErrorIs(t, err, ErrOverPayment)
	assert.True(t, r.AmountReceived.Equal(before), "rejeição não pode mutar a conta")
	assert.Equal(t, ReceivablePending, r.Status)
}

func TestReceivable_ReceiveRejectsNonPositive(t *testing.T) {
	r := newReceivable("100.00")

	_, err := r.Receive(decimal.Zero, time.Now(), MethodCash, "")
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = r.Receive(dec("-5.00"), time.Now(), MethodCash, "")
	assert.ErrorIs(t, err, ErrAmountNotPositive)
}

func TestReceivable_ReceiveRejectsTerminalStates(t *testing.T) {
	date := time.Now()

	r := newReceivable("100.00")
	require.NoError(t, r.Cancel())
	_, err := r.Receive(dec("50.00"), date, MethodCash, "")
	assert.ErrorIs(t, err, ErrCancelled)

	r = newReceivable("100.00")
	require.NoError(t, r.WriteOff("calote"))
	_, err = r.Receive(dec("50.00"), date, MethodCash, "")
	assert.ErrorIs(t, err, ErrWrittenOff)

	r = newReceivable("100.00")
	_, err = r.Receive(dec("100.00"), date, MethodCash, "")
	require.NoError(t, err)
	_, err = r.Receive(dec("1.00"), date, MethodCash, "")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestReceivable_ReverseRoundTrip(t *testing.T) {
	r := newReceivable("500.00")
	date := time.Now()

	_, err := r.Receive(dec("500.00"), date, MethodPix, "")
	require.NoError(t, err)
	require.Equal(t, ReceivablePaid, r.Status)

	require.NoError(t, r.Reverse(dec("500.00")))
	assert.Equal(t, ReceivablePending, r.Status)
	assert.True(t, r.AmountReceived.IsZero())
	assert.Nil(t, r.PaymentDate)
	assert.True(t, r.RemainingBalance().Equal(dec("500.00")))
}

func TestReceivable_ReversePartialKeepsPartialStatus(t *testing.T) {
	r := newReceivable("500.00")
	date := time.Now()

	_, err := r.Receive(dec("300.00"), date, MethodPix, "")
	require.NoError(t, err)

	require.NoError(t, r.Reverse(dec("100.00")))
	assert.Equal(t, ReceivablePartial, r.Status)
	assert.True(t, r.AmountReceived.Equal(dec("200.00")))
}

func TestReceivable_ReverseRejectsOverReversal(t *testing.T) {
	r := newReceivable("500.00")
	_, err := r.Receive(dec("100.00"), time.Now(), MethodPix, "")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Reverse(dec("100.01")), ErrOverReversal)
}

func TestReceivable_WriteOffKeepsPriorReceipts(t *testing.T) {
	r := newReceivable("500.00")
	_, err := r.Receive(dec("200.00"), time.Now(), MethodCash, "")
	require.NoError(t, err)

	require.NoError(t, r.WriteOff("cliente sumiu"))
	assert.Equal(t, ReceivableWrittenOff, r.Status)
	assert.True(t, r.AmountReceived.Equal(dec("200.00")), "recebimentos anteriores ficam")
	assert.True(t, r.WriteOffAmount.Equal(dec("300.00")))
	assert.True(t, r.RemainingBalance().IsZero())
	assert.Equal(t, "cliente sumiu", r.WriteOffReason)
}

func TestReceivable_WriteOffRejectsPaid(t *testing.T) {
	r := newReceivable("100.00")
	_, err := r.Receive(dec("100.00"), time.Now(), MethodCash, "")
	require.NoError(t, err)

	assert.ErrorIs(t, r.WriteOff("x"), ErrAlreadyPaid)
}

func TestReceivable_CancelRejectsPaid(t *testing.T) {
	r := newReceivable("100.00")
	_, err := r.Receive(dec("100.00"), time.Now(), MethodCash, "")
	require.NoError(t, err)

	assert.ErrorIs(t, r.Cancel(), ErrAlreadyPaid)
}

func TestReceivable_CancelAllowedWhilePartial(t *testing.T) {
	r := newReceivable("100.00")
	_, err := r.Receive(dec("40.00"), time.Now(), MethodCash, "")
	require.NoError(t, err)

	require.NoError(t, r.Cancel())
	assert.Equal(t, ReceivableCancelled, r.Status)
}

func TestReceivable_IsOverdue(t *testing.T) {
	r := newReceivable("100.00")
	r.DueDate = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	assert.False(t, r.IsOverdue(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.IsOverdue(time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)))

	// Quitada nunca está vencida
	_, err := r.Receive(dec("100.00"), time.Now(), MethodCash, "")
	require.NoError(t, err)
	assert.False(t, r.IsOverdue(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestReceipt_CarriesEmployeeFromReceivable(t *testing.T) {
	emp := uint(7)
	r := newReceivable("100.00")
	r.EmployeeID = &emp

	receipt, err := r.Receive(dec("100.00"), time.Now(), MethodCredit, "")
	require.NoError(t, err)
	require.NotNil(t, receipt.EmployeeID)
	assert.Equal(t, emp, *receipt.EmployeeID)
}
