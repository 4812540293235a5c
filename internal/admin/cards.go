package admin

import (
	"oficina-backend/internal/auth"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type cardRequest struct {
	TenantID    *uint            `json:"tenant_id"`
	Name        string           `json:"name"`
	ClosingDay  int              `json:"closing_day"`
	DueDay      int              `json:"due_day"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// POST /api/cards
func CreateCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body cardRequest
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
		if body.ClosingDay < 1 || body.ClosingDay > 31 || body.DueDay < 1 || body.DueDay > 31 {
			return fiber.NewError(fiber.StatusBadRequest, "Dias de fechamento e vencimento devem estar entre 1 e 31")
		}

		card := models.CreditCard{
			TenantID:    tenantID,
			Name:        body.Name,
			ClosingDay:  body.ClosingDay,
			DueDay:      body.DueDay,
			CreditLimit: body.CreditLimit,
		}
		if err := database.DB.Create(&card).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o cartão")
		}
		return c.Status(fiber.StatusCreated).JSON(card)
	}
}

// GET /api/cards
func ListCardsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		var cards []models.CreditCard
		if err := database.DB.
			Where("tenant_id = ?", tenantID).
			Order("id asc").
			Find(&cards).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os cartões")
		}
		return c.JSON(cards)
	}
}

// PUT /api/cards/:id: dias novos valem para os ciclos seguintes; faturas já
// emitidas não são reescritas.
func UpdateCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var body cardRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var card models.CreditCard
		if err := database.DB.First(&card, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cartão não encontrado")
		}

		updates := map[string]any{}
		if body.Name != "" {
			updates["name"] = body.Name
		}
		if body.ClosingDay >= 1 && body.ClosingDay <= 31 {
			updates["closing_day"] = body.ClosingDay
		}
		if body.DueDay >= 1 && body.DueDay <= 31 {
			updates["due_day"] = body.DueDay
		}
		if body.CreditLimit != nil {
			updates["credit_limit"] = body.CreditLimit
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&card).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o cartão")
			}
		}
		return c.JSON(card)
	}
}

// DELETE /api/cards/:id: recusado enquanto houver fatura pendente.
func DeleteCardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var pending int64
		if err := database.DB.Model(&models.Payable{}).
			Where("tenant_id = ? AND card_id = ? AND kind = ? AND status = ?",
				tenantID, id, models.PayableCardInvoice, models.PayablePending).
			Count(&pending).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível verificar as faturas")
		}
		if pending > 0 {
			return fiber.NewError(fiber.StatusConflict, "Cartão tem fatura pendente")
		}

		res := database.DB.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&models.CreditCard{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o cartão")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Cartão não encontrado")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
