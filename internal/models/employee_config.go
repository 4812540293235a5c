package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeFixedCommission: percentual fixo atribuído a um funcionário
// específico. Tem precedência sobre a regra geral da empresa.
type EmployeeFixedCommission struct {
	ID         uint `gorm:"primaryKey"`
	TenantID   uint `gorm:"index;not null"`
	EmployeeID uint `gorm:"index;not null"`

	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Active     bool            `gorm:"not null;default:true"`
	StartDate  time.Time       `gorm:"not null"`
	EndDate    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *EmployeeFixedCommission) IsActiveOn(date time.Time) bool {
	if !c.Active {
		return false
	}
	if date.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || !date.After(*c.EndDate)
}

type PayType string

const (
	PayTypeCommission  PayType = "COMMISSION"   // só comissão
	PayTypeFixedSalary PayType = "FIXED_SALARY" // só salário
	PayTypeMixed       PayType = "MIXED"        // salário base + percentual
)

// EmployeeSalaryConfig: configuração de remuneração de um funcionário.
type EmployeeSalaryConfig struct {
	ID         uint `gorm:"primaryKey"`
	TenantID   uint `gorm:"index;not null"`
	EmployeeID uint `gorm:"index;not null"`

	PayType           PayType          `gorm:"size:20;not null;default:'COMMISSION'"`
	BaseSalary        *decimal.Decimal `gorm:"type:decimal(19,2)"` // FIXED_SALARY e MIXED
	CommissionPercent *decimal.Decimal `gorm:"type:decimal(5,2)"`  // MIXED

	Active    bool      `gorm:"not null;default:true"`
	StartDate time.Time `gorm:"not null"`
	EndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *EmployeeSalaryConfig) IsActiveOn(date time.Time) bool {
	if !c.Active {
		return false
	}
	if date.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || !date.After(*c.EndDate)
}
