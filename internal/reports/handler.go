package reports

import (
	"oficina-backend/internal/auth"
	"oficina-backend/internal/period"

	"github.com/gofiber/fiber/v2"
)

func monthFromQuery(c *fiber.Ctx) (uint, period.Month, error) {
	tenantID, err := auth.ResolveTenantIDFromQuery(c)
	if err != nil {
		return 0, period.Month{}, err
	}
	ref, err := period.FromKey(c.Query("month"))
	if err != nil {
		return 0, period.Month{}, fiber.NewError(fiber.StatusBadRequest, "Parâmetro month inválido (use YYYY-MM)")
	}
	return tenantID, ref, nil
}

// GET /api/reports/cash-revenue?month=2026-01
func CashRevenueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ref, err := monthFromQuery(c)
		if err != nil {
			return err
		}
		rows, total, err := CashRevenueReport(tenantID, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}
		return c.JSON(fiber.Map{
			"reference_month": ref.Key(),
			"by_method":       rows,
			"total":           total,
		})
	}
}

// GET /api/reports/cash-flow?month=2026-01
func CashFlowHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ref, err := monthFromQuery(c)
		if err != nil {
			return err
		}
		flow, err := MonthlyCashFlow(tenantID, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}
		return c.JSON(flow)
	}
}

// GET /api/reports/payables?month=2026-01
func PayablesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ref, err := monthFromQuery(c)
		if err != nil {
			return err
		}
		report, err := MonthlyPayablesReport(tenantID, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}
		return c.JSON(report)
	}
}

// GET /api/reports/profit-distributions?month=2026-01
func ProfitDistributionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ref, err := monthFromQuery(c)
		if err != nil {
			return err
		}
		rows, err := ListProfitDistributions(tenantID, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/summary?month=2026-01
func FinancialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ref, err := monthFromQuery(c)
		if err != nil {
			return err
		}
		summary, err := MonthlyFinancialSummary(tenantID, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o relatório")
		}
		return c.JSON(summary)
	}
}

// GET /api/reports/export?month=2026-01: planilha xlsx do fechamento
func ExportExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, ref, err := monthFromQuery(c)
		if err != nil {
			return err
		}
		buf, err := ExportMonthlyExcel(tenantID, ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="fechamento-`+ref.Key()+`.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
