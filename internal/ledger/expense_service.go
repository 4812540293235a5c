package ledger

import (
	"errors"
	"time"

	"oficina-backend/internal/cards"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterExpenseInput: lançamento de despesa. Com CardID a despesa entra na
// fatura do ciclo; sem cartão ela gera a própria conta a pagar.
type RegisterExpenseInput struct {
	TenantID    uint
	Date        time.Time
	Amount      decimal.Decimal
	Category    models.ExpenseCategory
	Description string
	CardID      *uint
	DueDate     *time.Time // ignorado em despesa de cartão
	PaidNow     bool
	Method      models.PaymentMethod
}

// RegisterExpense lança a despesa e materializa o compromisso de caixa
// correspondente: fatura de cartão ou conta a pagar direta.
func RegisterExpense(in RegisterExpenseInput) (*models.Expense, *models.Payable, error) {
	if in.Amount.Sign() <= 0 {
		return nil, nil, models.ErrAmountNotPositive
	}

	exp := &models.Expense{
		TenantID:    in.TenantID,
		Date:        in.Date,
		Amount:      in.Amount.Round(2),
		Category:    in.Category,
		Description: in.Description,
		CardID:      in.CardID,
	}

	var payable *models.Payable
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(exp).Error; err != nil {
			return err
		}

		if in.CardID != nil {
			invoice, err := cards.AddExpenseToInvoice(tx, in.TenantID, exp)
			if err != nil {
				return err
			}
			payable = invoice
			return nil
		}

		due := in.Date
		if in.DueDate != nil {
			due = *in.DueDate
		}
		expID := exp.ID
		p := &models.Payable{
			TenantID:       in.TenantID,
			Description:    in.Description,
			Value:          exp.Amount,
			Status:         models.PayablePending,
			Kind:           models.PayableOperatingExpense,
			CompetencyDate: in.Date,
			DueDate:        due,
			ExpenseID:      &expID,
		}
		if in.PaidNow {
			if err := p.Pay(in.Date, in.Method); err != nil {
				return err
			}
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		payable = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return exp, payable, nil
}

// DeleteExpense remove a despesa e desfaz o compromisso: cancela a conta a
// pagar direta pendente, ou recalcula a fatura aberta do ciclo. Despesa cujo
// compromisso já foi pago não pode ser removida.
func DeleteExpense(tenantID, expenseID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var exp models.Expense
		if err := tx.First(&exp, "id = ? AND tenant_id = ?", expenseID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if exp.CardID == nil {
			var p models.Payable
			err := tx.Where("tenant_id = ? AND expense_id = ?", tenantID, exp.ID).First(&p).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				if p.Status == models.PayablePaid {
					return models.ErrAlreadyPaid
				}
				if p.Status == models.PayablePending {
					if err := p.Cancel(); err != nil {
						return err
					}
					if err := savePayable(tx, &p); err != nil {
						return err
					}
				}
			}
		}

		if err := tx.Delete(&exp).Error; err != nil {
			return err
		}

		if exp.CardID != nil {
			return cards.RemoveExpenseFromInvoice(tx, tenantID, &exp)
		}
		return nil
	})
}

// ListExpenses lista as despesas do tenant num intervalo, com filtro
// opcional de categoria.
func ListExpenses(tenantID uint, from, to time.Time, category models.ExpenseCategory) ([]models.Expense, error) {
	dbq := database.DB.
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to).
		Order("date asc, id asc")
	if category != "" {
		dbq = dbq.Where("category = ?", category)
	}
	var rows []models.Expense
	if err := dbq.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
