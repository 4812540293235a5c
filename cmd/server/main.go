package main

import (
	"log"
	"strings"

	"oficina-backend/internal/admin"
	"oficina-backend/internal/audit"
	"oficina-backend/internal/auth"
	"oficina-backend/internal/billing"
	"oficina-backend/internal/commission"
	"oficina-backend/internal/config"
	"oficina-backend/internal/database"
	"oficina-backend/internal/ledger"
	"oficina-backend/internal/models"
	"oficina-backend/internal/reports"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth pública
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Autenticado
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Plataforma (super admin)
	platform := protected.Group("/platform")
	platform.Use(auth.RequireRole(models.RoleSuperAdmin))

	platform.Post("/tenants", admin.CreateTenantHandler())
	platform.Get("/tenants", admin.ListTenantsHandler())
	platform.Put("/tenants/:id", admin.UpdateTenantHandler())

	platform.Post("/resellers", admin.CreateResellerHandler())
	platform.Get("/resellers", admin.ListResellersHandler())
	platform.Put("/resellers/:id", admin.UpdateResellerHandler())

	// Cobrança da plataforma
	platform.Post("/billing/run", billing.RunBillingHandler(cfg))
	platform.Post("/billing/suspend", billing.SuspendDelinquentHandler())
	platform.Get("/tenant-invoices", billing.ListTenantInvoicesHandler())
	platform.Post("/tenant-invoices/:id/pay", billing.PayTenantInvoiceHandler())
	platform.Get("/reseller-invoices", billing.ListResellerInvoicesHandler())
	platform.Post("/reseller-invoices/:id/pay", billing.PayResellerInvoiceHandler())

	// Gestão da oficina (admin da oficina ou super admin)
	manage := protected.Group("")
	manage.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleTenantAdmin))

	manage.Post("/users", admin.CreateUserHandler())
	manage.Get("/users", admin.ListUsersHandler())

	manage.Post("/cards", admin.CreateCardHandler())
	manage.Put("/cards/:id", admin.UpdateCardHandler())
	manage.Delete("/cards/:id", admin.DeleteCardHandler())

	// Regras de comissão
	manage.Post("/commission/rules", commission.CreateRuleHandler())
	manage.Post("/commission/rules/:id/activate", commission.ActivateRuleHandler())
	manage.Post("/commission/rules/:id/deactivate", commission.DeactivateRuleHandler())
	manage.Delete("/commission/rules/:id", commission.DeleteRuleHandler())
	manage.Post("/commission/employee-fixed", commission.CreateEmployeeFixedHandler())
	manage.Post("/commission/employee-salary", commission.CreateEmployeeSalaryHandler())
	manage.Post("/commission/settle", commission.SettleHandler())

	// Estorno e baixa mexem no razão: restritos ao admin
	manage.Post("/receipts/:id/reverse", ledger.ReverseReceiptHandler())
	manage.Post("/receivables/:id/write-off", ledger.WriteOffHandler())
	manage.Post("/receivables/:id/cancel", ledger.CancelReceivableHandler())
	manage.Post("/payables/:id/cancel", ledger.CancelPayableHandler())
	manage.Post("/advances", ledger.RegisterAdvanceHandler())

	// Operação do dia a dia
	protected.Get("/cards", admin.ListCardsHandler())

	protected.Post("/receivables", ledger.CreateReceivableHandler())
	protected.Get("/receivables", ledger.ListReceivablesHandler())
	protected.Post("/receivables/:id/receipts", ledger.RegisterReceiptHandler())
	protected.Get("/receivables/:id/receipts", ledger.ListReceiptsHandler())

	protected.Post("/payables", ledger.CreatePayableHandler())
	protected.Get("/payables", ledger.ListPayablesHandler())
	protected.Post("/payables/:id/pay", ledger.PayPayableHandler())

	protected.Post("/expenses", ledger.RegisterExpenseHandler())
	protected.Get("/expenses", ledger.ListExpensesHandler())
	protected.Delete("/expenses/:id", ledger.DeleteExpenseHandler())

	// Comissão
	protected.Get("/commission/rules", commission.ListRulesHandler())
	protected.Get("/commission/monthly", commission.MonthlyHandler())
	protected.Get("/commission/employee-fixed", commission.ListEmployeeFixedHandler())
	protected.Get("/commission/employee-salary", commission.ListEmployeeSalaryHandler())

	// Relatórios
	protected.Get("/reports/cash-revenue", reports.CashRevenueHandler())
	protected.Get("/reports/cash-flow", reports.CashFlowHandler())
	protected.Get("/reports/payables", reports.PayablesReportHandler())
	protected.Get("/reports/profit-distributions", reports.ProfitDistributionsHandler())
	protected.Get("/reports/summary", reports.FinancialSummaryHandler())
	protected.Get("/reports/export", reports.ExportExcelHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Servidor rodando na porta", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
