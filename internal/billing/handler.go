package billing

import (
	"errors"
	"time"

	"oficina-backend/internal/config"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/gofiber/fiber/v2"
)

type runBatchRequest struct {
	Month string `json:"month"`
}

// POST /api/platform/billing/run: emite faturas de tenants e revendedores
// do mês. Seguro de repetir.
func RunBillingHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body runBatchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		ref, err := period.FromKey(body.Month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Campo month inválido (use YYYY-MM)")
		}

		tenants, err := GenerateTenantInvoices(cfg, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Falha na emissão das faturas de tenants")
		}
		resellers, err := GenerateResellerInvoices(ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Falha na emissão das faturas de revendedores")
		}

		return c.JSON(fiber.Map{
			"tenants":   tenants,
			"resellers": resellers,
		})
	}
}

type suspendRequest struct {
	GraceDays int `json:"grace_days"`
}

// POST /api/platform/billing/suspend: aplica a cascata de inadimplência.
func SuspendDelinquentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body suspendRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.GraceDays < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "grace_days não pode ser negativo")
		}

		result, err := SuspendDelinquent(time.Now(), body.GraceDays)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Falha no ciclo de suspensão")
		}
		return c.JSON(result)
	}
}

// GET /api/platform/tenant-invoices?status=PENDING&tenant_id=3
func ListTenantInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.TenantInvoice{}).Order("due_date desc, id desc")
		if s := c.Query("status"); s != "" {
			dbq = dbq.Where("status = ?", s)
		}
		if tid := c.QueryInt("tenant_id", 0); tid > 0 {
			dbq = dbq.Where("tenant_id = ?", tid)
		}
		var rows []models.TenantInvoice
		if err := dbq.Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as faturas")
		}
		return c.JSON(rows)
	}
}

// GET /api/platform/reseller-invoices?status=PENDING&reseller_id=3
func ListResellerInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ResellerInvoice{}).Order("due_date desc, id desc")
		if s := c.Query("status"); s != "" {
			dbq = dbq.Where("status = ?", s)
		}
		if rid := c.QueryInt("reseller_id", 0); rid > 0 {
			dbq = dbq.Where("reseller_id = ?", rid)
		}
		var rows []models.ResellerInvoice
		if err := dbq.Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as faturas")
		}
		return c.JSON(rows)
	}
}

type payInvoiceRequest struct {
	PaymentDate *time.Time `json:"payment_date"`
}

// POST /api/platform/tenant-invoices/:id/pay
func PayTenantInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var body payInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		date := time.Now()
		if body.PaymentDate != nil {
			date = *body.PaymentDate
		}

		invoice, err := MarkTenantInvoicePaid(uint(id), date)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(invoice)
	}
}

// POST /api/platform/reseller-invoices/:id/pay
func PayResellerInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var body payInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		date := time.Now()
		if body.PaymentDate != nil {
			date = *body.PaymentDate
		}

		invoice, err := MarkResellerInvoicePaid(uint(id), date)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(invoice)
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvoiceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrAlreadyPaid), errors.Is(err, models.ErrCancelled):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Erro interno")
}
