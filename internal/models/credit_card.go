package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard: cartão de crédito da empresa. As faturas são contas a pagar de
// Kind CARD_INVOICE agrupadas por (cartão, mês de referência).
type CreditCard struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	Name       string `gorm:"size:100;not null"`
	ClosingDay int    `gorm:"not null"` // dia de fechamento do ciclo
	DueDay     int    `gorm:"not null"` // dia de vencimento da fatura

	CreditLimit *decimal.Decimal `gorm:"type:decimal(19,2)"` // nil = sem limite

	CreatedAt time.Time
	UpdatedAt time.Time
}
