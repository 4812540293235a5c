package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayableStatus string

const (
	PayablePending   PayableStatus = "PENDING"
	PayablePaid      PayableStatus = "PAID"
	PayableCancelled PayableStatus = "CANCELLED"
)

type PayableKind string

const (
	PayableOperatingExpense   PayableKind = "OPERATING_EXPENSE"
	PayableEmployeeCommission PayableKind = "EMPLOYEE_COMMISSION"
	PayableCardInvoice        PayableKind = "CARD_INVOICE"
	PayableProfitDistribution PayableKind = "PROFIT_DISTRIBUTION"
	PayableTaxPayment         PayableKind = "TAX_PAYMENT"
)

// Payable: conta a pagar (compromisso financeiro da empresa).
// Sem pagamento parcial: paga inteira ou fica pendente.
type Payable struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	Description string          `gorm:"size:255"`
	Value       decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Status      PayableStatus   `gorm:"size:20;not null;default:'PENDING';index"`
	Kind        PayableKind     `gorm:"size:30;not null;index"`
	Method      PaymentMethod   `gorm:"size:20"`

	CompetencyDate time.Time  `gorm:"not null"`       // competência
	DueDate        time.Time  `gorm:"index;not null"` // vencimento
	PaymentDate    *time.Time // quando FOI pago (nil = pendente)

	// Origem (rastreabilidade)
	ExpenseID  *uint `gorm:"index"`
	SnapshotID *uint `gorm:"index"` // comissão que gerou esta conta
	EmployeeID *uint `gorm:"index"`
	CardID     *uint `gorm:"index"` // cartão, quando Kind = CARD_INVOICE

	// Fatura de cartão: mês de referência do ciclo ("2026-01")
	ReferenceMonth string `gorm:"size:7;index"`

	// Parcelamento
	InstallmentNumber   *int
	InstallmentTotal    *int
	OriginInstallmentID *uint

	Version int `gorm:"not null;default:0"` // lock otimista

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pay marca a conta como paga. Dupla quitação é violação de invariante.
func (p *Payable) Pay(date time.Time, method PaymentMethod) error {
	switch p.Status {
	case PayablePaid:
		return ErrAlreadyPaid
	case PayableCancelled:
		return ErrCancelled
	}
	d := date
	p.PaymentDate = &d
	p.Method = method
	p.Status = PayablePaid
	return nil
}

// Cancel: terminal. Conta paga não pode ser cancelada.
func (p *Payable) Cancel() error {
	switch p.Status {
	case PayablePaid:
		return ErrAlreadyPaid
	case PayableCancelled:
		return ErrCancelled
	}
	p.Status = PayableCancelled
	return nil
}

// IsOverdue: VENCIDO é derivado, nunca persistido.
func (p *Payable) IsOverdue(today time.Time) bool {
	return p.Status == PayablePending && p.DueDate.Before(today)
}
