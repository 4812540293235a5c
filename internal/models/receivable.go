package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceivableStatus string

const (
	ReceivablePending    ReceivableStatus = "PENDING"
	ReceivablePartial    ReceivableStatus = "PARTIAL"
	ReceivablePaid       ReceivableStatus = "PAID"
	ReceivableWrittenOff ReceivableStatus = "WRITTEN_OFF" // baixa por perda (calote)
	ReceivableCancelled  ReceivableStatus = "CANCELLED"
)

// Receivable: conta a receber (direito de recebimento da empresa).
//
// IMPORTANTE: comissão é calculada sobre os recebimentos de CAIXA
// (CashReceipt), nunca sobre o valor de competência. Valor baixado como
// perda não gera CashReceipt e portanto fica fora da comissão.
type Receivable struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	Description    string           `gorm:"size:255"`
	Value          decimal.Decimal  `gorm:"type:decimal(19,2);not null"`
	AmountReceived decimal.Decimal  `gorm:"type:decimal(19,2);not null;default:0"` // acumulado de recebimentos ativos
	WriteOffAmount decimal.Decimal  `gorm:"type:decimal(19,2);not null;default:0"` // saldo perdoado na baixa
	Status         ReceivableStatus `gorm:"size:20;not null;default:'PENDING';index"`

	RecognitionDate time.Time  `gorm:"not null"`       // competência
	DueDate         time.Time  `gorm:"index;not null"` // vencimento
	PaymentDate     *time.Time // preenchida apenas na quitação total

	EmployeeID     *uint  `gorm:"index"` // responsável (comissão individual)
	SaleID         *uint  `gorm:"index"` // OS/venda de origem
	WriteOffReason string `gorm:"size:255"`

	// Lock otimista: o UPDATE compara e incrementa a versão; duas baixas
	// concorrentes na mesma conta fazem uma delas falhar e repetir.
	Version int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingBalance: saldo em aberto. Sempre >= 0.
func (r *Receivable) RemainingBalance() decimal.Decimal {
	return r.Value.Sub(r.AmountReceived).Sub(r.WriteOffAmount)
}

// Receive registra um recebimento (total ou parcial) e devolve o CashReceipt
// correspondente, ainda não persistido.
func (r *Receivable) Receive(amount decimal.Decimal, date time.Time, method PaymentMethod, note string) (*CashReceipt, error) {
	switch r.Status {
	case ReceivableCancelled:
		return nil, ErrCancelled
	case ReceivableWrittenOff:
		return nil, ErrWrittenOff
	case ReceivablePaid:
		return nil, ErrAlreadyPaid
	}
	if amount.Sign() <= 0 {
		return nil, ErrAmountNotPositive
	}
	if amount.GreaterThan(r.RemainingBalance()) {
		return nil, ErrOverPayment
	}

	r.AmountReceived = r.AmountReceived.Add(amount)
	if r.RemainingBalance().IsZero() {
		r.Status = ReceivablePaid
		d := date
		r.PaymentDate = &d
	} else {
		r.Status = ReceivablePartial
	}

	return &CashReceipt{
		TenantID:     r.TenantID,
		ReceivableID: r.ID,
		EmployeeID:   r.EmployeeID, // denormalizado para estabilidade de auditoria
		Amount:       amount,
		PaymentDate:  date,
		Method:       method,
		Note:         note,
	}, nil
}

// Reverse estorna um recebimento: devolve o valor ao saldo em aberto e limpa
// a data de quitação. Não ressuscita conta cancelada nem baixada.
func (r *Receivable) Reverse(amount decimal.Decimal) error {
	switch r.Status {
	case ReceivableCancelled:
		return ErrCancelled
	case ReceivableWrittenOff:
		return ErrWrittenOff
	}
	if amount.Sign() <= 0 {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(r.AmountReceived) {
		return ErrOverReversal
	}

	r.AmountReceived = r.AmountReceived.Sub(amount)
	r.PaymentDate = nil
	if r.AmountReceived.IsZero() {
		r.Status = ReceivablePending
	} else {
		r.Status = ReceivablePartial
	}
	return nil
}

// WriteOff baixa o saldo em aberto como perda. NÃO cria CashReceipt: é essa
// regra que mantém valores baixados fora da base de comissão. Recebimentos
// anteriores permanecem intactos.
func (r *Receivable) WriteOff(reason string) error {
	switch r.Status {
	case ReceivableCancelled:
		return ErrCancelled
	case ReceivableWrittenOff:
		return ErrWrittenOff
	case ReceivablePaid:
		return ErrAlreadyPaid
	}

	r.WriteOffAmount = r.RemainingBalance()
	r.WriteOffReason = reason
	r.Status = ReceivableWrittenOff
	return nil
}

// Cancel cancela a conta. Permitido em qualquer estágio antes da quitação.
func (r *Receivable) Cancel() error {
	switch r.Status {
	case ReceivablePaid:
		return ErrAlreadyPaid
	case ReceivableCancelled:
		return ErrCancelled
	case ReceivableWrittenOff:
		return ErrWrittenOff
	}
	r.Status = ReceivableCancelled
	return nil
}

// IsOverdue: VENCIDO é derivado, nunca persistido.
func (r *Receivable) IsOverdue(today time.Time) bool {
	if r.Status != ReceivablePending && r.Status != ReceivablePartial {
		return false
	}
	return r.RemainingBalance().Sign() > 0 && r.DueDate.Before(today)
}
