package admin

import (
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type resellerRequest struct {
	Name         string             `json:"name"`
	MonthlyFee   decimal.Decimal    `json:"monthly_fee"`
	FeePerTenant decimal.Decimal    `json:"fee_per_tenant"`
	Gateway      models.GatewayKind `json:"gateway"`
}

// POST /api/platform/resellers
func CreateResellerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body resellerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if body.Gateway == "" {
			body.Gateway = models.GatewayManual
		}

		reseller := models.Reseller{
			Name:         body.Name,
			Status:       models.ResellerStatusActive,
			MonthlyFee:   body.MonthlyFee.Round(2),
			FeePerTenant: body.FeePerTenant.Round(2),
			Gateway:      body.Gateway,
		}
		if err := database.DB.Create(&reseller).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o revendedor")
		}
		return c.Status(fiber.StatusCreated).JSON(reseller)
	}
}

// GET /api/platform/resellers
func ListResellersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var resellers []models.Reseller
		if err := database.DB.Order("id asc").Find(&resellers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os revendedores")
		}
		return c.JSON(resellers)
	}
}

// PUT /api/platform/resellers/:id
func UpdateResellerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var body resellerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var reseller models.Reseller
		if err := database.DB.First(&reseller, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Revendedor não encontrado")
		}

		updates := map[string]any{}
		if body.Name != "" {
			updates["name"] = body.Name
		}
		if body.MonthlyFee.Sign() > 0 {
			updates["monthly_fee"] = body.MonthlyFee.Round(2)
		}
		if body.FeePerTenant.Sign() > 0 {
			updates["fee_per_tenant"] = body.FeePerTenant.Round(2)
		}
		if body.Gateway != "" {
			updates["gateway"] = body.Gateway
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&reseller).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o revendedor")
			}
		}
		return c.JSON(reseller)
	}
}
