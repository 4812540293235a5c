package ledger

import (
	"errors"
	"fmt"
	"time"

	"oficina-backend/internal/commission"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePayableInput cobre os lançamentos diretos (despesa operacional,
// distribuição de lucro, imposto). Fatura de cartão e comissão nascem nos
// seus próprios fluxos.
type CreatePayableInput struct {
	TenantID       uint
	Description    string
	Value          decimal.Decimal
	Kind           models.PayableKind
	CompetencyDate time.Time
	DueDate        time.Time
	ExpenseID      *uint
	EmployeeID     *uint
	PaidNow        bool
	Method         models.PaymentMethod
}

// CreatePayable cria uma conta a pagar. Com PaidNow a conta já nasce PAGA
// com a data de competência como data de pagamento.
func CreatePayable(in CreatePayableInput) (*models.Payable, error) {
	if in.Value.Sign() <= 0 {
		return nil, models.ErrAmountNotPositive
	}

	p := &models.Payable{
		TenantID:       in.TenantID,
		Description:    in.Description,
		Value:          in.Value.Round(2),
		Status:         models.PayablePending,
		Kind:           in.Kind,
		CompetencyDate: in.CompetencyDate,
		DueDate:        in.DueDate,
		ExpenseID:      in.ExpenseID,
		EmployeeID:     in.EmployeeID,
	}

	if in.PaidNow {
		if err := p.Pay(in.CompetencyDate, in.Method); err != nil {
			return nil, err
		}
	}

	if err := database.DB.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// CreateInstallmentPayables parcela um valor em n contas mensais. As parcelas
// recebem o valor arredondado e a última absorve a sobra do arredondamento,
// garantindo que a soma feche com o total.
func CreateInstallmentPayables(in CreatePayableInput, installments int) ([]models.Payable, error) {
	if in.Value.Sign() <= 0 {
		return nil, models.ErrAmountNotPositive
	}
	if installments < 2 {
		return nil, fmt.Errorf("parcelamento exige pelo menos 2 parcelas")
	}

	values := splitInstallments(in.Value.Round(2), installments)

	var created []models.Payable
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var originID *uint
		for i := 0; i < installments; i++ {
			value := values[i]
			num := i + 1
			tot := installments
			p := models.Payable{
				TenantID:          in.TenantID,
				Description:       fmt.Sprintf("%s (%d/%d)", in.Description, num, tot),
				Value:             value,
				Status:            models.PayablePending,
				Kind:              in.Kind,
				CompetencyDate:    in.CompetencyDate,
				DueDate:           in.DueDate.AddDate(0, i, 0),
				ExpenseID:         in.ExpenseID,
				EmployeeID:        in.EmployeeID,
				InstallmentNumber: &num,
				InstallmentTotal:  &tot,
			}
			p.OriginInstallmentID = originID
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			if originID == nil {
				id := p.ID
				originID = &id
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CreateProfitDistribution registra uma retirada de lucro dos sócios. Nasce
// paga: a retirada só é lançada depois de efetivada.
func CreateProfitDistribution(tenantID uint, description string, value decimal.Decimal, date time.Time, method models.PaymentMethod) (*models.Payable, error) {
	return CreatePayable(CreatePayableInput{
		TenantID:       tenantID,
		Description:    description,
		Value:          value,
		Kind:           models.PayableProfitDistribution,
		CompetencyDate: date,
		DueDate:        date,
		PaidNow:        true,
		Method:         method,
	})
}

// CreateTaxPayment registra uma guia de imposto a pagar.
func CreateTaxPayment(tenantID uint, description string, value decimal.Decimal, competency, due time.Time) (*models.Payable, error) {
	return CreatePayable(CreatePayableInput{
		TenantID:       tenantID,
		Description:    description,
		Value:          value,
		Kind:           models.PayableTaxPayment,
		CompetencyDate: competency,
		DueDate:        due,
	})
}

// splitInstallments divide o total em n parcelas de dois decimais. A última
// absorve a sobra do arredondamento para que a soma feche com o total.
func splitInstallments(total decimal.Decimal, n int) []decimal.Decimal {
	parcel := total.Div(decimal.NewFromInt(int64(n))).Round(2)

	values := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i := 0; i < n-1; i++ {
		values[i] = parcel
		sum = sum.Add(parcel)
	}
	values[n-1] = total.Sub(sum)
	return values
}

// PayPayable quita a conta inteira. Pagamento parcial de conta a pagar não
// existe no razão.
func PayPayable(tenantID, payableID uint, date time.Time, method models.PaymentMethod) (*models.Payable, error) {
	var p models.Payable

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findPayable(tx, tenantID, payableID, &p); err != nil {
			return err
		}
		if err := p.Pay(date, method); err != nil {
			return err
		}
		return savePayable(tx, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CancelPayable cancela uma conta pendente.
func CancelPayable(tenantID, payableID uint) (*models.Payable, error) {
	var p models.Payable

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findPayable(tx, tenantID, payableID, &p); err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		return savePayable(tx, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RegisterAdvance registra um adiantamento de comissão: grava o Advance,
// gera a conta a pagar já quitada e derruba o snapshot do mês, porque o
// saldo líquido do funcionário mudou.
func RegisterAdvance(tenantID uint, employeeID *uint, amount decimal.Decimal, date time.Time, description string, method models.PaymentMethod) (*models.Advance, error) {
	if amount.Sign() <= 0 {
		return nil, models.ErrAmountNotPositive
	}

	adv := &models.Advance{
		TenantID:    tenantID,
		EmployeeID:  employeeID,
		Amount:      amount.Round(2),
		PaymentDate: date,
		Description: description,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(adv).Error; err != nil {
			return err
		}

		p := advancePayable(adv)
		if err := p.Pay(date, method); err != nil {
			return err
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		return commission.Invalidate(tx, tenantID, employeeID, period.FromDate(date))
	})
	if err != nil {
		return nil, err
	}
	return adv, nil
}

// advancePayable monta a conta a pagar espelho de um adiantamento. É folha de
// comissão, não despesa operacional: o adiantamento desconta do acerto do
// funcionário e aparece junto dele nos relatórios por tipo.
func advancePayable(adv *models.Advance) models.Payable {
	return models.Payable{
		TenantID:       adv.TenantID,
		Description:    "Adiantamento: " + adv.Description,
		Value:          adv.Amount,
		Status:         models.PayablePending,
		Kind:           models.PayableEmployeeCommission,
		CompetencyDate: adv.PaymentDate,
		DueDate:        adv.PaymentDate,
		EmployeeID:     adv.EmployeeID,
	}
}

// ListPayables lista as contas do tenant, com filtro opcional de status.
func ListPayables(tenantID uint, status models.PayableStatus) ([]models.Payable, error) {
	dbq := database.DB.Where("tenant_id = ?", tenantID).Order("due_date asc, id asc")
	if status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	var rows []models.Payable
	if err := dbq.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOverduePayables: vencidas é derivado, nunca persistido.
func ListOverduePayables(tenantID uint, today time.Time) ([]models.Payable, error) {
	var rows []models.Payable
	err := database.DB.
		Where("tenant_id = ? AND status = ? AND due_date < ?",
			tenantID, models.PayablePending, today).
		Order("due_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func findPayable(tx *gorm.DB, tenantID, id uint, out *models.Payable) error {
	if err := tx.First(out, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func savePayable(tx *gorm.DB, p *models.Payable) error {
	prev := p.Version
	p.Version = prev + 1

	res := tx.Model(&models.Payable{}).
		Where("id = ? AND version = ?", p.ID, prev).
		Updates(map[string]any{
			"status":       p.Status,
			"method":       p.Method,
			"payment_date": p.PaymentDate,
			"version":      p.Version,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
