package ledger

import (
	"errors"
	"time"

	"oficina-backend/internal/commission"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateReceivableInput: parâmetros de criação a partir da finalização de
// uma OS/venda (contrato do §6 com o módulo de ordens de serviço).
type CreateReceivableInput struct {
	TenantID        uint
	SaleID          *uint
	EmployeeID      *uint // responsável, para comissão individual
	Description     string
	Value           decimal.Decimal
	RecognitionDate time.Time
	DueDate         time.Time
	CashSettledNow  bool // pagamento à vista na finalização
	Method          models.PaymentMethod
}

// CreateReceivableFromSale cria a conta a receber de uma venda finalizada.
// Pagamento à vista nasce PAGO com um recebimento sintético no caixa.
func CreateReceivableFromSale(in CreateReceivableInput) (*models.Receivable, error) {
	if in.Value.Sign() <= 0 {
		return nil, models.ErrAmountNotPositive
	}

	r := &models.Receivable{
		TenantID:        in.TenantID,
		SaleID:          in.SaleID,
		EmployeeID:      in.EmployeeID,
		Description:     in.Description,
		Value:           in.Value.Round(2),
		AmountReceived:  decimal.Zero,
		WriteOffAmount:  decimal.Zero,
		Status:          models.ReceivablePending,
		RecognitionDate: in.RecognitionDate,
		DueDate:         in.DueDate,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return err
		}

		if !in.CashSettledNow {
			return nil
		}

		receipt, err := r.Receive(r.Value, in.RecognitionDate, in.Method, "pagamento à vista")
		if err != nil {
			return err
		}
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		if err := saveReceivable(tx, r); err != nil {
			return err
		}
		return commission.Invalidate(tx, in.TenantID, r.EmployeeID, period.FromDate(in.RecognitionDate))
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterReceipt registra um recebimento (total ou parcial) contra a conta.
// Valor acima do saldo em aberto é violação de invariante e nada é gravado.
func RegisterReceipt(tenantID, receivableID uint, amount decimal.Decimal, date time.Time, method models.PaymentMethod, note string) (*models.Receivable, *models.CashReceipt, error) {
	var r models.Receivable
	var receipt *models.CashReceipt

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findReceivable(tx, tenantID, receivableID, &r); err != nil {
			return err
		}

		var err error
		receipt, err = r.Receive(amount.Round(2), date, method, note)
		if err != nil {
			return err
		}

		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		if err := saveReceivable(tx, &r); err != nil {
			return err
		}

		// O recebimento mexe na receita do mês: derruba o snapshot para
		// forçar recálculo na próxima leitura.
		return commission.Invalidate(tx, tenantID, r.EmployeeID, period.FromDate(date))
	})
	if err != nil {
		return nil, nil, err
	}
	return &r, receipt, nil
}

// ReverseReceipt estorna um recebimento específico: remove o CashReceipt e
// reverte o acumulado da conta. Não é um delete em cascata: o estorno é uma
// operação do razão.
func ReverseReceipt(tenantID, receiptID uint) (*models.Receivable, error) {
	var r models.Receivable

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var receipt models.CashReceipt
		if err := tx.First(&receipt, "id = ? AND tenant_id = ?", receiptID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := findReceivable(tx, tenantID, receipt.ReceivableID, &r); err != nil {
			return err
		}

		if err := r.Reverse(receipt.Amount); err != nil {
			return err
		}

		if err := tx.Delete(&receipt).Error; err != nil {
			return err
		}
		if err := saveReceivable(tx, &r); err != nil {
			return err
		}

		return commission.Invalidate(tx, tenantID, receipt.EmployeeID, period.FromDate(receipt.PaymentDate))
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// WriteOffReceivable baixa o saldo em aberto como perda (calote).
// Não cria CashReceipt, então o valor baixado nunca entra na comissão;
// recebimentos anteriores permanecem reconhecidos.
func WriteOffReceivable(tenantID, receivableID uint, reason string) (*models.Receivable, error) {
	var r models.Receivable

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findReceivable(tx, tenantID, receivableID, &r); err != nil {
			return err
		}
		if err := r.WriteOff(reason); err != nil {
			return err
		}
		return saveReceivable(tx, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CancelReceivable cancela a conta. Legal em qualquer estágio antes da
// quitação total.
func CancelReceivable(tenantID, receivableID uint) (*models.Receivable, error) {
	var r models.Receivable

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := findReceivable(tx, tenantID, receivableID, &r); err != nil {
			return err
		}
		if err := r.Cancel(); err != nil {
			return err
		}
		return saveReceivable(tx, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReceivables lista as contas do tenant, com filtro opcional de status.
func ListReceivables(tenantID uint, status models.ReceivableStatus) ([]models.Receivable, error) {
	dbq := database.DB.Where("tenant_id = ?", tenantID).Order("due_date asc, id asc")
	if status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	var rows []models.Receivable
	if err := dbq.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOverdueReceivables: vencidas é derivado, nunca persistido.
func ListOverdueReceivables(tenantID uint, today time.Time) ([]models.Receivable, error) {
	var rows []models.Receivable
	err := database.DB.
		Where("tenant_id = ? AND status IN ? AND due_date < ?",
			tenantID, []models.ReceivableStatus{models.ReceivablePending, models.ReceivablePartial}, today).
		Order("due_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListReceiptsForReceivable lista o extrato de recebimentos de uma conta.
func ListReceiptsForReceivable(tenantID, receivableID uint) ([]models.CashReceipt, error) {
	var rows []models.CashReceipt
	err := database.DB.
		Where("tenant_id = ? AND receivable_id = ?", tenantID, receivableID).
		Order("payment_date asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func findReceivable(tx *gorm.DB, tenantID, id uint, out *models.Receivable) error {
	if err := tx.First(out, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// saveReceivable grava via compare-and-swap na versão: se outra transação
// alterou a conta no meio do caminho, nenhuma linha casa e o chamador recebe
// ErrVersionConflict para reler e repetir.
func saveReceivable(tx *gorm.DB, r *models.Receivable) error {
	prev := r.Version
	r.Version = prev + 1

	res := tx.Model(&models.Receivable{}).
		Where("id = ? AND version = ?", r.ID, prev).
		Updates(map[string]any{
			"amount_received":  r.AmountReceived,
			"write_off_amount": r.WriteOffAmount,
			"write_off_reason": r.WriteOffReason,
			"status":           r.Status,
			"payment_date":     r.PaymentDate,
			"version":          r.Version,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
