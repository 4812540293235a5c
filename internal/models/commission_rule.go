package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionRuleKind string

const (
	RuleFixedRate   CommissionRuleKind = "FIXED_RATE"   // percentual fixo da empresa
	RuleRevenueTier CommissionRuleKind = "REVENUE_TIER" // faixas de faturamento
	RuleHybrid      CommissionRuleKind = "HYBRID"       // fixo + faixas
)

// CommissionRule: regra de comissionamento configurada pela empresa.
// Cada empresa pode ter várias regras, mas APENAS UMA ativa por vez;
// invariante garantida na ativação, não por constraint de banco.
type CommissionRule struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	Name        string             `gorm:"size:100;not null"`
	Kind        CommissionRuleKind `gorm:"size:20;not null"`
	Description string             `gorm:"size:500"`
	Active      bool               `gorm:"not null;default:false"` // regras novas nascem inativas

	// Percentual usado quando Kind = FIXED_RATE (ex.: 5.00 = 5%).
	FixedPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`

	StartDate time.Time  `gorm:"not null"` // início da vigência
	EndDate   *time.Time // nil = sem fim

	Tiers []RevenueTier `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActiveOn: "ativa" (em vigor) E "vigente na data" são coisas distintas;
// aqui as duas são exigidas.
func (r *CommissionRule) IsActiveOn(date time.Time) bool {
	if !r.Active {
		return false
	}
	if date.Before(r.StartDate) {
		return false
	}
	if r.EndDate != nil && date.After(*r.EndDate) {
		return false
	}
	return true
}

// RevenueTier: faixa de faturamento dentro de uma regra.
// Seleção: primeira faixa (em ordem) onde min <= x <= (max ou infinito).
type RevenueTier struct {
	ID     uint `gorm:"primaryKey"`
	RuleID uint `gorm:"index;not null"`

	MinRevenue  decimal.Decimal  `gorm:"type:decimal(19,2);not null"`
	MaxRevenue  *decimal.Decimal `gorm:"type:decimal(19,2)"` // nil = sem teto
	Percentage  decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Description string           `gorm:"size:255"`
	Order       int              `gorm:"column:tier_order;not null;default:0"`
}

// InRange verifica se o faturamento cai dentro desta faixa.
func (t *RevenueTier) InRange(revenue decimal.Decimal) bool {
	if revenue.LessThan(t.MinRevenue) {
		return false
	}
	return t.MaxRevenue == nil || revenue.LessThanOrEqual(*t.MaxRevenue)
}
