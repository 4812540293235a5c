package reports

import (
	"errors"
	"time"

	"oficina-backend/internal/commission"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
)

// Alíquota do Simples Nacional usada na projeção do resumo mensal
var taxRate = decimal.NewFromFloat(0.06)

// CashRevenueRow: receita de caixa agregada por forma de pagamento.
type CashRevenueRow struct {
	Method models.PaymentMethod `json:"method"`
	Count  int64                `json:"count"`
	Total  decimal.Decimal      `json:"total"`
}

// CashRevenueReport agrega os recebimentos do mês por forma de pagamento.
// Fonte: somente CashReceipt, igual à base de comissão.
func CashRevenueReport(tenantID uint, ref period.Month) ([]CashRevenueRow, decimal.Decimal, error) {
	var rows []CashRevenueRow
	err := database.DB.Model(&models.CashReceipt{}).
		Select("method, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND payment_date >= ? AND payment_date < ?",
			tenantID, ref.Start(), ref.Next().Start()).
		Group("method").
		Order("total desc").
		Scan(&rows).Error
	if err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return rows, total, nil
}

// CashFlow: fluxo de caixa do mês. Saldo inicial vem de todo o histórico
// anterior; entradas são recebimentos, saídas são contas pagas no mês.
type CashFlow struct {
	ReferenceMonth string          `json:"reference_month"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	TotalIn        decimal.Decimal `json:"total_in"`
	TotalOut       decimal.Decimal `json:"total_out"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

func MonthlyCashFlow(tenantID uint, ref period.Month) (*CashFlow, error) {
	start := ref.Start()
	next := ref.Next().Start()

	inBefore, err := sumReceipts(tenantID, nil, &start)
	if err != nil {
		return nil, err
	}
	outBefore, err := sumPaidPayables(tenantID, nil, &start)
	if err != nil {
		return nil, err
	}
	totalIn, err := sumReceipts(tenantID, &start, &next)
	if err != nil {
		return nil, err
	}
	totalOut, err := sumPaidPayables(tenantID, &start, &next)
	if err != nil {
		return nil, err
	}

	opening := inBefore.Sub(outBefore)
	return &CashFlow{
		ReferenceMonth: ref.Key(),
		OpeningBalance: opening,
		TotalIn:        totalIn,
		TotalOut:       totalOut,
		ClosingBalance: opening.Add(totalIn).Sub(totalOut),
	}, nil
}

// sumReceipts soma os recebimentos no intervalo [from, to). Ponta nil é
// aberta.
func sumReceipts(tenantID uint, from, to *time.Time) (decimal.Decimal, error) {
	dbq := database.DB.Model(&models.CashReceipt{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ?", tenantID)
	if from != nil {
		dbq = dbq.Where("payment_date >= ?", *from)
	}
	if to != nil {
		dbq = dbq.Where("payment_date < ?", *to)
	}

	var row struct{ Total decimal.Decimal }
	if err := dbq.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func sumPaidPayables(tenantID uint, from, to *time.Time) (decimal.Decimal, error) {
	dbq := database.DB.Model(&models.Payable{}).
		Select("COALESCE(SUM(value), 0) AS total").
		Where("tenant_id = ? AND status = ?", tenantID, models.PayablePaid)
	if from != nil {
		dbq = dbq.Where("payment_date >= ?", *from)
	}
	if to != nil {
		dbq = dbq.Where("payment_date < ?", *to)
	}

	var row struct{ Total decimal.Decimal }
	if err := dbq.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// PayablesReport: contas do mês, na união dos dois recortes que interessam
// ao financeiro: o que vence no mês e o que foi pago no mês.
type PayablesReport struct {
	ReferenceMonth string           `json:"reference_month"`
	DueInMonth     []models.Payable `json:"due_in_month"`
	PaidInMonth    []models.Payable `json:"paid_in_month"`
	TotalDue       decimal.Decimal  `json:"total_due"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
}

func MonthlyPayablesReport(tenantID uint, ref period.Month) (*PayablesReport, error) {
	out := &PayablesReport{ReferenceMonth: ref.Key(), TotalDue: decimal.Zero, TotalPaid: decimal.Zero}

	err := database.DB.
		Where("tenant_id = ? AND status <> ? AND due_date >= ? AND due_date < ?",
			tenantID, models.PayableCancelled, ref.Start(), ref.Next().Start()).
		Order("due_date asc, id asc").
		Find(&out.DueInMonth).Error
	if err != nil {
		return nil, err
	}

	err = database.DB.
		Where("tenant_id = ? AND status = ? AND payment_date >= ? AND payment_date < ?",
			tenantID, models.PayablePaid, ref.Start(), ref.Next().Start()).
		Order("payment_date asc, id asc").
		Find(&out.PaidInMonth).Error
	if err != nil {
		return nil, err
	}

	for _, p := range out.DueInMonth {
		if p.Status != models.PayablePaid {
			out.TotalDue = out.TotalDue.Add(p.Value)
		}
	}
	for _, p := range out.PaidInMonth {
		out.TotalPaid = out.TotalPaid.Add(p.Value)
	}
	return out, nil
}

// ListProfitDistributions lista as retiradas de lucro do período.
func ListProfitDistributions(tenantID uint, ref period.Month) ([]models.Payable, error) {
	var rows []models.Payable
	err := database.DB.
		Where("tenant_id = ? AND kind = ? AND status <> ? AND competency_date >= ? AND competency_date < ?",
			tenantID, models.PayableProfitDistribution, models.PayableCancelled,
			ref.Start(), ref.Next().Start()).
		Order("competency_date asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryTotal: despesas agregadas por categoria.
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Total    decimal.Decimal        `json:"total"`
}

// FinancialSummary: resumo gerencial do mês. Imposto é uma projeção sobre a
// receita de caixa; comissão vem do snapshot coletivo quando há regra.
type FinancialSummary struct {
	ReferenceMonth     string          `json:"reference_month"`
	Revenue            decimal.Decimal `json:"revenue"`
	ProjectedTax       decimal.Decimal `json:"projected_tax"`
	AllocatedComission decimal.Decimal `json:"allocated_commission"`
	Expenses           []CategoryTotal `json:"expenses"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetProfit          decimal.Decimal `json:"net_profit"`
}

func MonthlyFinancialSummary(tenantID uint, ref period.Month) (*FinancialSummary, error) {
	_, revenue, err := CashRevenueReport(tenantID, ref)
	if err != nil {
		return nil, err
	}

	var byCategory []CategoryTotal
	err = database.DB.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) as total").
		Where("tenant_id = ? AND date >= ? AND date < ?",
			tenantID, ref.Start(), ref.Next().Start()).
		Group("category").
		Order("total desc").
		Scan(&byCategory).Error
	if err != nil {
		return nil, err
	}

	totalExpenses := decimal.Zero
	for _, ct := range byCategory {
		totalExpenses = totalExpenses.Add(ct.Total)
	}

	// Sem regra de comissão ativa o resumo sai com comissão zero; o 422 é
	// reservado para a consulta de comissão em si.
	allocated := decimal.Zero
	snap, err := commission.CalculateMonthly(tenantID, nil, ref)
	if err == nil {
		allocated = snap.GrossCommission
	} else {
		var noRule *commission.NoActiveRuleError
		var noTier *commission.NoMatchingTierError
		if !errors.As(err, &noRule) && !errors.As(err, &noTier) {
			return nil, err
		}
	}

	tax := revenue.Mul(taxRate).Round(2)

	return &FinancialSummary{
		ReferenceMonth:     ref.Key(),
		Revenue:            revenue,
		ProjectedTax:       tax,
		AllocatedComission: allocated,
		Expenses:           byCategory,
		TotalExpenses:      totalExpenses,
		NetProfit:          revenue.Sub(tax).Sub(allocated).Sub(totalExpenses),
	}, nil
}
