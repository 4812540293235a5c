package reports

import (
	"bytes"
	"fmt"

	"oficina-backend/internal/period"

	"github.com/xuri/excelize/v2"
)

// ExportMonthlyExcel gera a planilha do fechamento mensal: resumo
// financeiro, receita por forma de pagamento e fluxo de caixa.
func ExportMonthlyExcel(tenantID uint, ref period.Month) (*bytes.Buffer, error) {
	summary, err := MonthlyFinancialSummary(tenantID, ref)
	if err != nil {
		return nil, err
	}
	revenueRows, revenueTotal, err := CashRevenueReport(tenantID, ref)
	if err != nil {
		return nil, err
	}
	flow, err := MonthlyCashFlow(tenantID, ref)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Resumo"
	f.SetSheetName("Sheet1", sheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "Fechamento "+ref.Key())
	f.SetCellStyle(sheet, "A1", "A1", bold)

	row := 3
	set := func(label string, value any) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value)
		row++
	}
	set("Receita de caixa", summary.Revenue.InexactFloat64())
	set("Imposto projetado (6%)", summary.ProjectedTax.InexactFloat64())
	set("Comissão provisionada", summary.AllocatedComission.InexactFloat64())
	set("Despesas", summary.TotalExpenses.InexactFloat64())
	set("Lucro líquido", summary.NetProfit.InexactFloat64())

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Despesas por categoria")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++
	for _, ct := range summary.Expenses {
		set(string(ct.Category), ct.Total.InexactFloat64())
	}

	const revSheet = "Receita"
	if _, err := f.NewSheet(revSheet); err != nil {
		return nil, err
	}
	f.SetCellValue(revSheet, "A1", "Forma de pagamento")
	f.SetCellValue(revSheet, "B1", "Quantidade")
	f.SetCellValue(revSheet, "C1", "Total")
	f.SetCellStyle(revSheet, "A1", "C1", bold)
	for i, r := range revenueRows {
		f.SetCellValue(revSheet, fmt.Sprintf("A%d", i+2), string(r.Method))
		f.SetCellValue(revSheet, fmt.Sprintf("B%d", i+2), r.Count)
		f.SetCellValue(revSheet, fmt.Sprintf("C%d", i+2), r.Total.InexactFloat64())
	}
	totalRow := len(revenueRows) + 2
	f.SetCellValue(revSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(revSheet, fmt.Sprintf("C%d", totalRow), revenueTotal.InexactFloat64())
	f.SetCellStyle(revSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("C%d", totalRow), bold)

	const flowSheet = "Fluxo de caixa"
	if _, err := f.NewSheet(flowSheet); err != nil {
		return nil, err
	}
	f.SetCellValue(flowSheet, "A1", "Saldo inicial")
	f.SetCellValue(flowSheet, "B1", flow.OpeningBalance.InexactFloat64())
	f.SetCellValue(flowSheet, "A2", "Entradas")
	f.SetCellValue(flowSheet, "B2", flow.TotalIn.InexactFloat64())
	f.SetCellValue(flowSheet, "A3", "Saídas")
	f.SetCellValue(flowSheet, "B3", flow.TotalOut.InexactFloat64())
	f.SetCellValue(flowSheet, "A4", "Saldo final")
	f.SetCellValue(flowSheet, "B4", flow.ClosingBalance.InexactFloat64())
	f.SetCellStyle(flowSheet, "A4", "B4", bold)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}
