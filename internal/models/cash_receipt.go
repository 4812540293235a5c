package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashReceipt: registro individual de entrada de caixa contra uma conta a
// receber. Imutável depois de criado; só sai do razão via estorno explícito,
// que também reverte o acumulado da conta.
//
// É a ÚNICA fonte que alimenta o reconhecimento de comissão.
type CashReceipt struct {
	ID           uint `gorm:"primaryKey"`
	TenantID     uint `gorm:"index:idx_cash_receipts_tenant_date;not null"`
	ReceivableID uint `gorm:"index;not null"`
	Receivable   Receivable

	Amount      decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	PaymentDate time.Time       `gorm:"index:idx_cash_receipts_tenant_date;not null"`
	Method      PaymentMethod   `gorm:"size:20;not null"`
	Note        string          `gorm:"size:255"`

	// Copiado da conta no momento do recebimento (comissão individual):
	// trocar o responsável da conta depois não reescreve o histórico.
	EmployeeID *uint `gorm:"index"`

	CreatedAt time.Time
}
