package commission

import (
	"errors"
	"time"

	"oficina-backend/internal/auth"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type tierRequest struct {
	MinRevenue  decimal.Decimal  `json:"min_revenue"`
	MaxRevenue  *decimal.Decimal `json:"max_revenue"`
	Percentage  decimal.Decimal  `json:"percentage"`
	Description string           `json:"description"`
}

type createRuleRequest struct {
	TenantID        *uint                     `json:"tenant_id"`
	Name            string                    `json:"name"`
	Kind            models.CommissionRuleKind `json:"kind"`
	Description     string                    `json:"description"`
	FixedPercentage *decimal.Decimal          `json:"fixed_percentage"`
	StartDate       time.Time                 `json:"start_date"`
	EndDate         *time.Time                `json:"end_date"`
	Tiers           []tierRequest             `json:"tiers"`
}

// POST /api/commission/rules
func CreateRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createRuleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.StartDate.IsZero() {
			body.StartDate = time.Now()
		}

		in := CreateRuleInput{
			TenantID:        tenantID,
			Name:            body.Name,
			Kind:            body.Kind,
			Description:     body.Description,
			FixedPercentage: body.FixedPercentage,
			StartDate:       body.StartDate,
			EndDate:         body.EndDate,
		}
		for _, t := range body.Tiers {
			in.Tiers = append(in.Tiers, TierInput{
				MinRevenue:  t.MinRevenue,
				MaxRevenue:  t.MaxRevenue,
				Percentage:  t.Percentage,
				Description: t.Description,
			})
		}

		rule, err := CreateRule(in)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(rule)
	}
}

// GET /api/commission/rules
func ListRulesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		rules, err := ListRules(tenantID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as regras")
		}
		return c.JSON(rules)
	}
}

// POST /api/commission/rules/:id/activate
func ActivateRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		rule, err := ActivateRule(tenantID, uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(rule)
	}
}

// POST /api/commission/rules/:id/deactivate
func DeactivateRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		if err := DeactivateRule(tenantID, uint(id)); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/commission/rules/:id
func DeleteRuleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		if err := DeleteRule(tenantID, uint(id)); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/commission/monthly?month=2026-01&employee_id=3
// O modo de comissão da empresa decide o escopo: coletivo calcula sobre a
// empresa inteira, individual exige o funcionário.
func MonthlyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		ref, err := period.FromKey(c.Query("month"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Parâmetro month inválido (use YYYY-MM)")
		}

		var employeeID *uint
		if eid := c.QueryInt("employee_id", 0); eid > 0 {
			v := uint(eid)
			employeeID = &v
		}

		mode, err := tenantCommissionMode(tenantID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar a empresa")
		}
		scope, err := ScopeFor(mode, employeeID)
		if err != nil {
			return mapError(err)
		}

		snap, err := CalculateMonthly(tenantID, scope, ref)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(snap)
	}
}

type settleRequest struct {
	TenantID   *uint  `json:"tenant_id"`
	Month      string `json:"month"`
	EmployeeID *uint  `json:"employee_id"`
}

// POST /api/commission/settle
func SettleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body settleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		ref, err := period.FromKey(body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Campo month inválido (use YYYY-MM)")
		}

		mode, err := tenantCommissionMode(tenantID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar a empresa")
		}
		scope, err := ScopeFor(mode, body.EmployeeID)
		if err != nil {
			return mapError(err)
		}

		payable, err := SettleCommission(tenantID, scope, ref)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(payable)
	}
}

type employeeFixedRequest struct {
	TenantID   *uint           `json:"tenant_id"`
	EmployeeID uint            `json:"employee_id"`
	Percentage decimal.Decimal `json:"percentage"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`
}

// POST /api/commission/employee-fixed
// Desativa a configuração anterior do funcionário e derruba os snapshots.
func CreateEmployeeFixedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body employeeFixedRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		if body.EmployeeID == 0 || body.Percentage.Sign() <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "employee_id e percentage positivos são obrigatórios")
		}
		if body.StartDate.IsZero() {
			body.StartDate = time.Now()
		}

		cfg := models.EmployeeFixedCommission{
			TenantID:   tenantID,
			EmployeeID: body.EmployeeID,
			Percentage: body.Percentage,
			Active:     true,
			StartDate:  body.StartDate,
			EndDate:    body.EndDate,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.EmployeeFixedCommission{}).
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

// GET /api/commission/employee-fixed?employee_id=3
func ListEmployeeFixedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		dbq := database.DB.Where("tenant_id = ?", tenantID).Order("id desc")
		if eid := c.QueryInt("employee_id", 0); eid > 0 {
			dbq = dbq.Where("employee_id = ?", eid)
		}
		var configs []models.EmployeeFixedCommission
		if err := dbq.Find(&configs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as configurações")
		}
		return c.JSON(configs)
	}
}

// tenantCommissionMode carrega o modo de comissão configurado na empresa.
func tenantCommissionMode(tenantID uint) (models.CommissionMode, error) {
	var tenant models.Tenant
	if err := database.DB.First(&tenant, "id = ?", tenantID).Error; err != nil {
		return "", err
	}
	return tenant.CommissionMode, nil
}

// mapError traduz os erros tipados do núcleo para status HTTP.
func mapError(err error) error {
	var noRule *NoActiveRuleError
	var noTier *NoMatchingTierError
	var invalid *InvalidRuleError
	var invalidSalary *InvalidSalaryConfigError

	switch {
	case errors.As(err, &noRule), errors.As(err, &noTier):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrEmployeeScopeRequired), errors.Is(err, ErrCollectiveScope):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &invalid), errors.As(err, &invalidSalary):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRuleNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNothingToSettle), errors.Is(err, ErrAlreadySettled):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Erro interno no cálculo de comissão")
}
