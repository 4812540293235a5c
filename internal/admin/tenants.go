package admin

import (
	"strings"

	"oficina-backend/internal/auth"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type createTenantRequest struct {
	Name           string                `json:"name"`
	Document       string                `json:"document"`
	CommissionMode models.CommissionMode `json:"commission_mode"`
	ResellerID     *uint                 `json:"reseller_id"`
	MonthlyFee     decimal.Decimal       `json:"monthly_fee"`

	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

// POST /api/platform/tenants: cria a oficina junto com o usuário
// administrador dela.
func CreateTenantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createTenantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		body.AdminEmail = strings.TrimSpace(strings.ToLower(body.AdminEmail))
		if body.AdminEmail == "" || body.AdminPassword == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email e senha do administrador são obrigatórios")
		}
		if body.CommissionMode == "" {
			body.CommissionMode = models.CommissionCollective
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
		}

		tenant := models.Tenant{
			Name:           body.Name,
			Document:       body.Document,
			Status:         models.TenantStatusActive,
			CommissionMode: body.CommissionMode,
			ResellerID:     body.ResellerID,
			MonthlyFee:     body.MonthlyFee.Round(2),
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&tenant).Error; err != nil {
				return err
			}
			admin := models.User{
				TenantID:     &tenant.ID,
				Name:         body.AdminName,
				Email:        body.AdminEmail,
				PasswordHash: string(hash),
				Role:         models.RoleTenantAdmin,
			}
			return tx.Create(&admin).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a empresa")
		}
		return c.Status(fiber.StatusCreated).JSON(tenant)
	}
}

// GET /api/platform/tenants
func ListTenantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Tenant{}).Order("id asc")
		if s := c.Query("status"); s != "" {
			dbq = dbq.Where("status = ?", s)
		}
		var tenants []models.Tenant
		if err := dbq.Find(&tenants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as empresas")
		}
		return c.JSON(tenants)
	}
}

type updateTenantRequest struct {
	Name           *string                `json:"name"`
	Document       *string                `json:"document"`
	CommissionMode *models.CommissionMode `json:"commission_mode"`
	ResellerID     *uint                  `json:"reseller_id"`
	MonthlyFee     *decimal.Decimal       `json:"monthly_fee"`
}

// PUT /api/platform/tenants/:id
func UpdateTenantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		var body updateTenantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var tenant models.Tenant
		if err := database.DB.First(&tenant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Empresa não encontrada")
		}

		updates := map[string]any{}
		if body.Name != nil {
			updates["name"] = *body.Name
		}
		if body.Document != nil {
			updates["document"] = *body.Document
		}
		if body.CommissionMode != nil {
			updates["commission_mode"] = *body.CommissionMode
		}
		if body.ResellerID != nil {
			updates["reseller_id"] = *body.ResellerID
		}
		if body.MonthlyFee != nil {
			updates["monthly_fee"] = body.MonthlyFee.Round(2)
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&tenant).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a empresa")
			}
		}
		return c.JSON(tenant)
	}
}

type createUserRequest struct {
	TenantID *uint           `json:"tenant_id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

// POST /api/users: tenant_admin cria funcionários da própria oficina.
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, email e senha são obrigatórios")
		}
		if body.Role == "" {
			body.Role = models.RoleEmployee
		}
		if body.Role == models.RoleSuperAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Não é possível criar super admin por aqui")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
		}

		user := models.User{
			TenantID:     &tenantID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         body.Role,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Email já cadastrado")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"tenant_id": user.TenantID,
		})
	}
}

// GET /api/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		var users []models.User
		if err := database.DB.
			Select("id, tenant_id, name, email, role, created_at").
			Where("tenant_id = ?", tenantID).
			Order("id asc").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os usuários")
		}
		return c.JSON(users)
	}
}
