package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionSnapshot: resultado materializado do cálculo mensal de comissão,
// chaveado por (tenant [, funcionário], "YYYY-MM").
//
// Tratado como cache idempotente: nunca é atualizado: eventos que afetam
// faturamento ou adiantamentos do período DELETAM o snapshot e a próxima
// leitura recalcula. A unicidade da chave é garantida por índice em
// (tenant_id, COALESCE(employee_id, 0), reference_month), criado em
// database.Init.
type CommissionSnapshot struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`

	// nil = modo coletivo (empresa inteira)
	EmployeeID *uint `gorm:"index"`

	ReferenceMonth string `gorm:"size:7;not null;index"` // "2026-01"

	Revenue           decimal.Decimal `gorm:"type:decimal(19,2);not null"` // receita de caixa do mês
	TierDescription   string          `gorm:"size:255;not null"`
	AppliedPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"` // ex.: 6.00 = 6%
	GrossCommission   decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	TotalAdvances     decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	NetBalance        decimal.Decimal `gorm:"type:decimal(19,2);not null"` // bruto - adiantamentos

	CreatedAt time.Time
	UpdatedAt time.Time
}
