package cards

import (
	"errors"
	"fmt"
	"time"

	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrCardNotFound = errors.New("cartão não encontrado")

// LimitExceededError: a despesa estoura o limite disponível do cartão.
type LimitExceededError struct {
	CardID    uint
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limite do cartão %d excedido: disponível %s, solicitado %s",
		e.CardID, e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

// FindCard carrega o cartão do tenant.
func FindCard(tx *gorm.DB, tenantID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := tx.First(&card, "id = ? AND tenant_id = ?", cardID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// AvailableLimit calcula o limite disponível: limite menos as faturas em
// aberto do cartão. Cartão sem limite devolve nil.
func AvailableLimit(tx *gorm.DB, card *models.CreditCard) (*decimal.Decimal, error) {
	if card.CreditLimit == nil {
		return nil, nil
	}

	var open struct{ Total decimal.Decimal }
	err := tx.Model(&models.Payable{}).
		Select("COALESCE(SUM(value), 0) AS total").
		Where("tenant_id = ? AND card_id = ? AND kind = ? AND status = ?",
			card.TenantID, card.ID, models.PayableCardInvoice, models.PayablePending).
		Scan(&open).Error
	if err != nil {
		return nil, err
	}

	avail := card.CreditLimit.Sub(open.Total)
	return &avail, nil
}

// CheckLimit rejeita a despesa quando o cartão tem limite e o valor não cabe
// no disponível.
func CheckLimit(tx *gorm.DB, card *models.CreditCard, amount decimal.Decimal) error {
	avail, err := AvailableLimit(tx, card)
	if err != nil {
		return err
	}
	if avail != nil && amount.GreaterThan(*avail) {
		return &LimitExceededError{CardID: card.ID, Available: *avail, Requested: amount}
	}
	return nil
}

// ResolveOrCreateInvoice devolve a fatura (conta a pagar CARD_INVOICE) do
// ciclo de uma despesa. Reusa a fatura PENDENTE do ciclo; quando todas as
// faturas do ciclo já foram pagas, abre uma fatura complementar para o
// residual.
func ResolveOrCreateInvoice(tx *gorm.DB, card *models.CreditCard, expenseDate time.Time) (*models.Payable, error) {
	ref := CycleMonthFor(expenseDate, card.ClosingDay)

	var invoice models.Payable
	err := tx.Where("tenant_id = ? AND card_id = ? AND kind = ? AND reference_month = ? AND status = ?",
		card.TenantID, card.ID, models.PayableCardInvoice, ref.Key(), models.PayablePending).
		First(&invoice).Error
	if err == nil {
		return &invoice, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Sem fatura aberta: nova fatura (primeira do ciclo ou complementar)
	var paid int64
	if err := tx.Model(&models.Payable{}).
		Where("tenant_id = ? AND card_id = ? AND kind = ? AND reference_month = ? AND status = ?",
			card.TenantID, card.ID, models.PayableCardInvoice, ref.Key(), models.PayablePaid).
		Count(&paid).Error; err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Fatura %s - %s", card.Name, ref.Key())
	if paid > 0 {
		desc = fmt.Sprintf("Fatura complementar %s - %s", card.Name, ref.Key())
	}

	cardID := card.ID
	invoice = models.Payable{
		TenantID:       card.TenantID,
		Description:    desc,
		Value:          decimal.Zero,
		Status:         models.PayablePending,
		Kind:           models.PayableCardInvoice,
		CompetencyDate: ref.Start(),
		DueDate:        DueDateFor(ref, card.DueDay),
		CardID:         &cardID,
		ReferenceMonth: ref.Key(),
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RecalculateInvoiceTotal refaz o valor da fatura aberta a partir das
// despesas do ciclo, descontando o que já foi quitado em faturas anteriores
// do mesmo ciclo. O resultado nunca é negativo.
func RecalculateInvoiceTotal(tx *gorm.DB, card *models.CreditCard, invoice *models.Payable) error {
	ref, err := period.FromKey(invoice.ReferenceMonth)
	if err != nil {
		return err
	}
	start, end := CycleWindow(ref, card.ClosingDay)

	var spent struct{ Total decimal.Decimal }
	err = tx.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND card_id = ? AND date >= ? AND date < ?",
			card.TenantID, card.ID, start, end).
		Scan(&spent).Error
	if err != nil {
		return err
	}

	var alreadyPaid struct{ Total decimal.Decimal }
	err = tx.Model(&models.Payable{}).
		Select("COALESCE(SUM(value), 0) AS total").
		Where("tenant_id = ? AND card_id = ? AND kind = ? AND reference_month = ? AND status = ? AND id <> ?",
			card.TenantID, card.ID, models.PayableCardInvoice, invoice.ReferenceMonth, models.PayablePaid, invoice.ID).
		Scan(&alreadyPaid).Error
	if err != nil {
		return err
	}

	invoice.Value = invoiceResidual(spent.Total, alreadyPaid.Total)

	return tx.Model(&models.Payable{}).
		Where("id = ?", invoice.ID).
		Update("value", invoice.Value).Error
}

// invoiceResidual: o valor da fatura aberta é o gasto do ciclo menos o que já
// foi quitado em faturas anteriores do mesmo ciclo, nunca negativo.
func invoiceResidual(spent, alreadyPaid decimal.Decimal) decimal.Decimal {
	total := spent.Sub(alreadyPaid)
	if total.Sign() < 0 {
		return decimal.Zero
	}
	return total.Round(2)
}

// AddExpenseToInvoice coloca uma despesa de cartão na fatura do seu ciclo:
// valida o limite, resolve a fatura e recalcula o total.
func AddExpenseToInvoice(tx *gorm.DB, tenantID uint, expense *models.Expense) (*models.Payable, error) {
	if expense.CardID == nil {
		return nil, fmt.Errorf("despesa sem cartão associado")
	}

	card, err := FindCard(tx, tenantID, *expense.CardID)
	if err != nil {
		return nil, err
	}
	if err := CheckLimit(tx, card, expense.Amount); err != nil {
		return nil, err
	}

	invoice, err := ResolveOrCreateInvoice(tx, card, expense.Date)
	if err != nil {
		return nil, err
	}
	if err := RecalculateInvoiceTotal(tx, card, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// RemoveExpenseFromInvoice refaz a fatura aberta do ciclo após a exclusão de
// uma despesa de cartão. Fatura já paga não é tocada: a correção aparece na
// complementar.
func RemoveExpenseFromInvoice(tx *gorm.DB, tenantID uint, expense *models.Expense) error {
	if expense.CardID == nil {
		return nil
	}

	card, err := FindCard(tx, tenantID, *expense.CardID)
	if err != nil {
		return err
	}

	ref := CycleMonthFor(expense.Date, card.ClosingDay)

	var invoice models.Payable
	err = tx.Where("tenant_id = ? AND card_id = ? AND kind = ? AND reference_month = ? AND status = ?",
		tenantID, card.ID, models.PayableCardInvoice, ref.Key(), models.PayablePending).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return RecalculateInvoiceTotal(tx, card, &invoice)
}
