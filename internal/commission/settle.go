package commission

import (
	"errors"

	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"gorm.io/gorm"
)

var (
	ErrNothingToSettle = errors.New("saldo líquido não positivo, nada a liquidar")
	ErrAlreadySettled  = errors.New("comissão do período já liquidada")
)

// SettleCommission transforma o saldo líquido de um snapshot em conta a
// pagar de comissão, vencendo no dia 5 do mês seguinte. A configuração
// salarial do funcionário ajusta o valor: salário fixo substitui o saldo,
// remuneração mista soma o salário base. Um snapshot só liquida uma vez: a
// conta fica ligada ao snapshot e a duplicata é recusada.
func SettleCommission(tenantID uint, employeeID *uint, ref period.Month) (*models.Payable, error) {
	snap, err := CalculateMonthly(tenantID, employeeID, ref)
	if err != nil {
		return nil, err
	}

	amount := snap.NetBalance
	desc := "Comissão " + ref.Key()
	if employeeID != nil {
		salary, err := resolveSalaryConfig(database.DB, tenantID, *employeeID, ref)
		if err != nil {
			return nil, err
		}
		amount = settlementAmount(snap.NetBalance, salary)
		if salary != nil && salary.PayType != models.PayTypeCommission {
			desc = "Folha " + ref.Key()
		}
	}
	if amount.Sign() <= 0 {
		return nil, ErrNothingToSettle
	}

	var payable *models.Payable
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Payable{}).
			Where("tenant_id = ? AND snapshot_id = ? AND status <> ?",
				tenantID, snap.ID, models.PayableCancelled).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadySettled
		}

		snapID := snap.ID
		due := ref.Next().Day(5)
		p := &models.Payable{
			TenantID:       tenantID,
			Description:    desc,
			Value:          amount,
			Status:         models.PayablePending,
			Kind:           models.PayableEmployeeCommission,
			CompetencyDate: ref.End(),
			DueDate:        due,
			SnapshotID:     &snapID,
			EmployeeID:     employeeID,
			ReferenceMonth: ref.Key(),
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		payable = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payable, nil
}
