package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ResellerStatus string

const (
	ResellerStatusActive    ResellerStatus = "active"
	ResellerStatusSuspended ResellerStatus = "suspended"
)

type GatewayKind string

const (
	GatewayManual      GatewayKind = "manual" // cobrança manual (sem integração)
	GatewayMercadoPago GatewayKind = "mercado_pago"
)

// Reseller: revendedor (licença) que opera um conjunto de tenants.
type Reseller struct {
	ID     uint           `gorm:"primaryKey"`
	Name   string         `gorm:"size:150;not null"`
	Status ResellerStatus `gorm:"size:20;not null;default:'active'"`

	MonthlyFee   decimal.Decimal `gorm:"type:decimal(19,2);not null"` // mensalidade base
	FeePerTenant decimal.Decimal `gorm:"type:decimal(19,2);not null"` // por tenant ativo
	Gateway      GatewayKind     `gorm:"size:20;not null;default:'manual'"`

	SuspensionReason string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PlatformInvoiceStatus string

const (
	PlatformInvoicePending   PlatformInvoiceStatus = "PENDING"
	PlatformInvoicePaid      PlatformInvoiceStatus = "PAID"
	PlatformInvoiceOverdue   PlatformInvoiceStatus = "OVERDUE"
	PlatformInvoiceCancelled PlatformInvoiceStatus = "CANCELLED"
)

// TenantInvoice: fatura mensal da plataforma para um tenant.
// Idempotência do lote: uma fatura por (tenant, mês de referência).
type TenantInvoice struct {
	ID         uint `gorm:"primaryKey"`
	TenantID   uint `gorm:"uniqueIndex:idx_tenant_invoice_ref,priority:1;not null"`
	ResellerID *uint

	ReferenceMonth string          `gorm:"size:7;uniqueIndex:idx_tenant_invoice_ref,priority:2;not null"`
	Value          decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	IssueDate      time.Time       `gorm:"not null"`
	DueDate        time.Time       `gorm:"index;not null"`
	PaymentDate    *time.Time

	Status PlatformInvoiceStatus `gorm:"size:20;not null;default:'PENDING';index"`

	// Link de pagamento no gateway (vazio quando a chamada falhou; o
	// próximo ciclo de cobrança tenta de novo).
	PaymentID  string `gorm:"size:100"`
	PaymentURL string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResellerInvoice: fatura mensal da plataforma para um revendedor.
// Valor = mensalidade base + (tenants ativos × valor por tenant).
type ResellerInvoice struct {
	ID         uint `gorm:"primaryKey"`
	ResellerID uint `gorm:"uniqueIndex:idx_reseller_invoice_ref,priority:1;not null"`

	ReferenceMonth string          `gorm:"size:7;uniqueIndex:idx_reseller_invoice_ref,priority:2;not null"`
	BaseFee        decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	TenantCount    int             `gorm:"not null"`
	FeePerTenant   decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	TenantsFee     decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(19,2);not null"`

	IssueDate   time.Time `gorm:"not null"`
	DueDate     time.Time `gorm:"index;not null"`
	PaymentDate *time.Time

	Status PlatformInvoiceStatus `gorm:"size:20;not null;default:'PENDING';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
