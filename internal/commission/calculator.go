package commission

import (
	"errors"

	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var oneHundred = decimal.NewFromInt(100)

// CalculateMonthly devolve o snapshot de comissão de um período, calculando
// e materializando quando ainda não existe. Idempotente: duas chamadas
// concorrentes convergem para o mesmo registro via índice único + ON
// CONFLICT DO NOTHING.
//
// employeeID nil = modo coletivo (empresa inteira).
func CalculateMonthly(tenantID uint, employeeID *uint, ref period.Month) (*models.CommissionSnapshot, error) {
	var snap *models.CommissionSnapshot

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := findSnapshot(tx, tenantID, employeeID, ref)
		if err != nil {
			return err
		}
		if existing != nil {
			snap = existing
			return nil
		}

		revenue, err := monthlyRevenue(tx, tenantID, employeeID, ref)
		if err != nil {
			return err
		}

		res, err := Resolve(tx, tenantID, employeeID, ref, revenue)
		if err != nil {
			return err
		}

		advances, err := monthlyAdvances(tx, tenantID, employeeID, ref)
		if err != nil {
			return err
		}

		fresh := newSnapshot(tenantID, employeeID, ref, revenue, res, advances)

		// Corrida entre dois cálculos do mesmo período: o perdedor não
		// insere nada e relê o snapshot do vencedor.
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			existing, err := findSnapshot(tx, tenantID, employeeID, ref)
			if err != nil {
				return err
			}
			snap = existing
			return nil
		}

		snap = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// newSnapshot materializa o cálculo de um período. Função pura: os mesmos
// insumos produzem sempre o mesmo snapshot, o que sustenta a idempotência do
// cache por (tenant, funcionário, mês).
func newSnapshot(tenantID uint, employeeID *uint, ref period.Month, revenue decimal.Decimal, res *Resolution, advances decimal.Decimal) *models.CommissionSnapshot {
	gross := revenue.Mul(res.Percentage).Div(oneHundred).Round(2)
	return &models.CommissionSnapshot{
		TenantID:          tenantID,
		EmployeeID:        employeeID,
		ReferenceMonth:    ref.Key(),
		Revenue:           revenue,
		TierDescription:   res.Description,
		AppliedPercentage: res.Percentage,
		GrossCommission:   gross,
		TotalAdvances:     advances,
		NetBalance:        gross.Sub(advances),
	}
}

func findSnapshot(tx *gorm.DB, tenantID uint, employeeID *uint, ref period.Month) (*models.CommissionSnapshot, error) {
	dbq := tx.Where("tenant_id = ? AND reference_month = ?", tenantID, ref.Key())
	if employeeID == nil {
		dbq = dbq.Where("employee_id IS NULL")
	} else {
		dbq = dbq.Where("employee_id = ?", *employeeID)
	}

	var snap models.CommissionSnapshot
	err := dbq.First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// monthlyRevenue soma os recebimentos de CAIXA do mês. Baixa por perda não
// gera CashReceipt e portanto nunca entra aqui.
func monthlyRevenue(tx *gorm.DB, tenantID uint, employeeID *uint, ref period.Month) (decimal.Decimal, error) {
	dbq := tx.Model(&models.CashReceipt{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND payment_date >= ? AND payment_date < ?",
			tenantID, ref.Start(), ref.Next().Start())
	if employeeID != nil {
		dbq = dbq.Where("employee_id = ?", *employeeID)
	}

	var row struct{ Total decimal.Decimal }
	if err := dbq.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// monthlyAdvances soma os adiantamentos pagos no mês.
func monthlyAdvances(tx *gorm.DB, tenantID uint, employeeID *uint, ref period.Month) (decimal.Decimal, error) {
	dbq := tx.Model(&models.Advance{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND payment_date >= ? AND payment_date < ?",
			tenantID, ref.Start(), ref.Next().Start())
	if employeeID != nil {
		dbq = dbq.Where("employee_id = ?", *employeeID)
	}

	var row struct{ Total decimal.Decimal }
	if err := dbq.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// Invalidate derruba os snapshots afetados por um evento financeiro num mês:
// a chave coletiva sempre, e a chave do funcionário quando houver. Recebe a
// transação do chamador para que a invalidação seja atômica com o evento.
func Invalidate(tx *gorm.DB, tenantID uint, employeeID *uint, ref period.Month) error {
	if err := tx.Where("tenant_id = ? AND employee_id IS NULL AND reference_month = ?",
		tenantID, ref.Key()).
		Delete(&models.CommissionSnapshot{}).Error; err != nil {
		return err
	}
	if employeeID != nil {
		if err := tx.Where("tenant_id = ? AND employee_id = ? AND reference_month = ?",
			tenantID, *employeeID, ref.Key()).
			Delete(&models.CommissionSnapshot{}).Error; err != nil {
			return err
		}
	}
	return nil
}

// InvalidateTenant derruba todos os snapshots do tenant. Usado quando a
// própria regra muda, o que afeta qualquer período ainda consultável.
func InvalidateTenant(tx *gorm.DB, tenantID uint) error {
	return tx.Where("tenant_id = ?", tenantID).
		Delete(&models.CommissionSnapshot{}).Error
}
