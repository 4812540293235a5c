package commission

import (
	"time"

	"oficina-backend/internal/auth"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// validateSalaryConfig confere a coerência entre o tipo de remuneração e os
// campos preenchidos: salário base é obrigatório fora do modo só comissão.
func validateSalaryConfig(payType models.PayType, baseSalary *decimal.Decimal) error {
	switch payType {
	case models.PayTypeCommission:
		return nil
	case models.PayTypeFixedSalary, models.PayTypeMixed:
		if baseSalary == nil || baseSalary.Sign() <= 0 {
			return &InvalidSalaryConfigError{
				Reason: "salário base positivo é obrigatório para " + string(payType),
			}
		}
		return nil
	}
	return &InvalidSalaryConfigError{Reason: "tipo de remuneração desconhecido"}
}

// resolveSalaryConfig busca a configuração salarial ativa do funcionário,
// vigente no fim do mês de referência.
func resolveSalaryConfig(tx *gorm.DB, tenantID, employeeID uint, ref period.Month) (*models.EmployeeSalaryConfig, error) {
	var configs []models.EmployeeSalaryConfig
	err := tx.Where("tenant_id = ? AND employee_id = ? AND active = ?", tenantID, employeeID, true).
		Order("id desc").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].IsActiveOn(ref.End()) {
			return &configs[i], nil
		}
	}
	return nil, nil
}

// settlementAmount aplica a configuração salarial ao saldo líquido de
// comissão do período: salário fixo substitui a comissão, remuneração mista
// soma o salário base ao saldo. Sem configuração, paga o saldo.
func settlementAmount(net decimal.Decimal, cfg *models.EmployeeSalaryConfig) decimal.Decimal {
	if cfg == nil || cfg.BaseSalary == nil {
		return net
	}
	switch cfg.PayType {
	case models.PayTypeFixedSalary:
		return cfg.BaseSalary.Round(2)
	case models.PayTypeMixed:
		return cfg.BaseSalary.Add(net).Round(2)
	}
	return net
}

type employeeSalaryRequest struct {
	TenantID          *uint            `json:"tenant_id"`
	EmployeeID        uint             `json:"employee_id"`
	PayType           models.PayType   `json:"pay_type"`
	BaseSalary        *decimal.Decimal `json:"base_salary"`
	CommissionPercent *decimal.Decimal `json:"commission_percent"`
	StartDate         time.Time        `json:"start_date"`
	EndDate           *time.Time       `json:"end_date"`
}

// POST /api/commission/employee-salary
// Desativa a configuração anterior do funcionário e derruba os snapshots: a
// remuneração mista muda o percentual aplicado nos períodos ainda abertos.
func CreateEmployeeSalaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body employeeSalaryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		if body.EmployeeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "employee_id é obrigatório")
		}
		if body.PayType == "" {
			body.PayType = models.PayTypeCommission
		}
		if err := validateSalaryConfig(body.PayType, body.BaseSalary); err != nil {
			return mapError(err)
		}
		if body.StartDate.IsZero() {
			body.StartDate = time.Now()
		}

		cfg := models.EmployeeSalaryConfig{
			TenantID:          tenantID,
			EmployeeID:        body.EmployeeID,
			PayType:           body.PayType,
			BaseSalary:        body.BaseSalary,
			CommissionPercent: body.CommissionPercent,
			Active:            true,
			StartDate:         body.StartDate,
			EndDate:           body.EndDate,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.EmployeeSalaryConfig{}).
				Where("tenant_id = ? AND employee_id = ? AND active = ?", tenantID, body.EmployeeID, true).
				Update("active", false).Error; err != nil {
				return err
			}
			if err := tx.Create(&cfg).Error; err != nil {
				return err
			}
			return InvalidateTenant(tx, tenantID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gravar a configuração")
		}
		return c.Status(fiber.StatusCreated).JSON(cfg)
	}
}

// GET /api/commission/employee-salary?employee_id=3
func ListEmployeeSalaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		dbq := database.DB.Where("tenant_id = ?", tenantID).Order("id desc")
		if eid := c.QueryInt("employee_id", 0); eid > 0 {
			dbq = dbq.Where("employee_id = ?", eid)
		}
		var configs []models.EmployeeSalaryConfig
		if err := dbq.Find(&configs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as configurações")
		}
		return c.JSON(configs)
	}
}
