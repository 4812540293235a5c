package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TenantStatus string

const (
	TenantStatusActive  TenantStatus = "active"
	TenantStatusBlocked TenantStatus = "blocked" // inadimplência
)

type CommissionMode string

const (
	// Comissão calculada sobre a receita da empresa inteira
	CommissionCollective CommissionMode = "collective"
	// Comissão calculada por funcionário responsável
	CommissionIndividual CommissionMode = "individual"
)

// Tenant: oficina cliente da plataforma. Todo dado financeiro é particionado
// por TenantID.
type Tenant struct {
	ID       uint         `gorm:"primaryKey"`
	Name     string       `gorm:"size:150;not null"`
	Document string       `gorm:"size:20"` // CNPJ
	Status   TenantStatus `gorm:"size:20;not null;default:'active'"`

	CommissionMode CommissionMode `gorm:"size:20;not null;default:'collective'"`

	// Cobrança da plataforma
	ResellerID *uint           `gorm:"index"` // nil = cliente direto
	MonthlyFee decimal.Decimal `gorm:"type:decimal(19,2);not null;default:0"`

	// Fatura que motivou o bloqueio (nil quando ativo)
	BlockedByInvoiceID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}
