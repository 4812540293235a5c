package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"oficina-backend/internal/config"
	"oficina-backend/internal/database"
	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvoiceNotFound = errors.New("fatura não encontrada")

// Dia padrão de vencimento das faturas da plataforma
const platformDueDay = 10

// BatchResult resume um lote de emissão: quantas faturas novas, quantas já
// existiam (idempotência) e quantas falharam.
type BatchResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// GenerateTenantInvoices emite as faturas mensais dos tenants ativos com
// mensalidade. Idempotente por (tenant, mês): rodar o lote duas vezes não
// duplica nada. Falha em um tenant não derruba o lote. Ao final, uma
// varredura tenta gerar o link de pagamento de toda fatura pendente do mês
// que ainda não tem um, inclusive as deixadas para trás por falha do gateway
// em lotes anteriores.
func GenerateTenantInvoices(cfg *config.Config, ref period.Month) (*BatchResult, error) {
	var tenants []models.Tenant
	if err := database.DB.
		Where("status = ? AND monthly_fee > 0", models.TenantStatusActive).
		Find(&tenants).Error; err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i := range tenants {
		if !billable(&tenants[i]) {
			continue
		}
		created, err := generateTenantInvoice(&tenants[i], ref)
		if err != nil {
			log.Printf("Cobrança do tenant %d em %s falhou: %v", tenants[i].ID, ref.Key(), err)
			result.Failed++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	attachMissingLinks(cfg, ref)
	return result, nil
}

// billable diz se o tenant entra no lote de cobrança: ativo e com
// mensalidade. Tenant bloqueado por inadimplência não acumula fatura nova.
func billable(tenant *models.Tenant) bool {
	return tenant.Status == models.TenantStatusActive && tenant.MonthlyFee.Sign() > 0
}

func generateTenantInvoice(tenant *models.Tenant, ref period.Month) (bool, error) {
	invoice := models.TenantInvoice{
		TenantID:       tenant.ID,
		ResellerID:     tenant.ResellerID,
		ReferenceMonth: ref.Key(),
		Value:          tenant.MonthlyFee.Round(2),
		IssueDate:      time.Now(),
		DueDate:        ref.Day(platformDueDay),
		Status:         models.PlatformInvoicePending,
	}

	// Índice único (tenant, mês) garante a idempotência do lote
	res := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&invoice)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// needsPaymentLink diz se a fatura ainda precisa de um link de pagamento:
// pendente e sem cobrança registrada no gateway.
func needsPaymentLink(invoice *models.TenantInvoice) bool {
	return invoice.Status == models.PlatformInvoicePending && invoice.PaymentID == ""
}

// attachMissingLinks varre as faturas pendentes do mês sem link de pagamento
// e tenta a cobrança no gateway para cada uma. Cobre tanto as faturas recém
// emitidas quanto as que ficaram sem link por falha externa em lote anterior.
func attachMissingLinks(cfg *config.Config, ref period.Month) {
	var invoices []models.TenantInvoice
	err := database.DB.
		Where("reference_month = ? AND status = ? AND payment_id = ''",
			ref.Key(), models.PlatformInvoicePending).
		Find(&invoices).Error
	if err != nil {
		log.Printf("Varredura de links de pagamento em %s falhou: %v", ref.Key(), err)
		return
	}

	for i := range invoices {
		if !needsPaymentLink(&invoices[i]) {
			continue
		}
		var tenant models.Tenant
		if err := database.DB.First(&tenant, "id = ?", invoices[i].TenantID).Error; err != nil {
			log.Printf("Tenant %d da fatura %d não carregou: %v", invoices[i].TenantID, invoices[i].ID, err)
			continue
		}
		attachPaymentLink(cfg, &tenant, &invoices[i])
	}
}

// attachPaymentLink chama o gateway FORA de qualquer transação: a fatura já
// está gravada e a falha externa só a deixa sem link.
func attachPaymentLink(cfg *config.Config, tenant *models.Tenant, invoice *models.TenantInvoice) {
	gw := gatewayForTenant(cfg, tenant)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.GatewayTimeoutSec)*time.Second)
	defer cancel()

	result, err := gw.CreateCharge(ctx, ChargeRequest{
		Description: fmt.Sprintf("Mensalidade %s", invoice.ReferenceMonth),
		Amount:      invoice.Value,
		DueDate:     invoice.DueDate,
		PayerName:   tenant.Name,
		ExternalRef: fmt.Sprintf("tenant-%d-%s", tenant.ID, invoice.ReferenceMonth),
	})
	if err != nil {
		log.Printf("Gateway falhou para a fatura %d: %v", invoice.ID, err)
		return
	}

	err = database.DB.Model(&models.TenantInvoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"payment_id":  result.PaymentID,
			"payment_url": result.PaymentURL,
		}).Error
	if err != nil {
		log.Printf("Não foi possível gravar o link de pagamento da fatura %d: %v", invoice.ID, err)
	}
}

func gatewayForTenant(cfg *config.Config, tenant *models.Tenant) PaymentGateway {
	if tenant.ResellerID != nil {
		var reseller models.Reseller
		if err := database.DB.First(&reseller, "id = ?", *tenant.ResellerID).Error; err == nil {
			return GatewayFor(cfg, string(reseller.Gateway))
		}
	}
	return GatewayFor(cfg, string(models.GatewayManual))
}

// GenerateResellerInvoices emite as faturas mensais dos revendedores:
// mensalidade base mais o valor por tenant ativo da carteira. Mesma
// idempotência por (revendedor, mês).
func GenerateResellerInvoices(ref period.Month) (*BatchResult, error) {
	var resellers []models.Reseller
	if err := database.DB.
		Where("status = ?", models.ResellerStatusActive).
		Find(&resellers).Error; err != nil {
		return nil, err
	}

	result := &BatchResult{}
	for i := range resellers {
		created, err := generateResellerInvoice(&resellers[i], ref)
		if err != nil {
			log.Printf("Cobrança do revendedor %d em %s falhou: %v", resellers[i].ID, ref.Key(), err)
			result.Failed++
			continue
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}
	return result, nil
}

func generateResellerInvoice(reseller *models.Reseller, ref period.Month) (bool, error) {
	var tenantCount int64
	err := database.DB.Model(&models.Tenant{}).
		Where("reseller_id = ? AND status = ?", reseller.ID, models.TenantStatusActive).
		Count(&tenantCount).Error
	if err != nil {
		return false, err
	}

	tenantsFee := reseller.FeePerTenant.Mul(decimal.NewFromInt(tenantCount)).Round(2)
	total := reseller.MonthlyFee.Add(tenantsFee).Round(2)

	invoice := models.ResellerInvoice{
		ResellerID:     reseller.ID,
		ReferenceMonth: ref.Key(),
		BaseFee:        reseller.MonthlyFee.Round(2),
		TenantCount:    int(tenantCount),
		FeePerTenant:   reseller.FeePerTenant,
		TenantsFee:     tenantsFee,
		Total:          total,
		IssueDate:      time.Now(),
		DueDate:        ref.Day(platformDueDay),
		Status:         models.PlatformInvoicePending,
	}

	res := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&invoice)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SuspensionResult resume um ciclo de suspensão por inadimplência.
type SuspensionResult struct {
	TenantsBlocked     int `json:"tenants_blocked"`
	ResellersSuspended int `json:"resellers_suspended"`
}

// SuspendDelinquent aplica a cascata de inadimplência: fatura pendente além
// do prazo de carência vira VENCIDA e bloqueia o tenant; revendedor
// inadimplente é suspenso junto com a carteira inteira.
func SuspendDelinquent(today time.Time, graceDays int) (*SuspensionResult, error) {
	cutoff := today.AddDate(0, 0, -graceDays)
	out := &SuspensionResult{}

	var tenantInvoices []models.TenantInvoice
	err := database.DB.
		Where("status = ? AND due_date < ?", models.PlatformInvoicePending, cutoff).
		Find(&tenantInvoices).Error
	if err != nil {
		return nil, err
	}

	for i := range tenantInvoices {
		inv := &tenantInvoices[i]
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.TenantInvoice{}).
				Where("id = ?", inv.ID).
				Update("status", models.PlatformInvoiceOverdue).Error; err != nil {
				return err
			}
			return tx.Model(&models.Tenant{}).
				Where("id = ? AND status = ?", inv.TenantID, models.TenantStatusActive).
				Updates(map[string]any{
					"status":                models.TenantStatusBlocked,
					"blocked_by_invoice_id": inv.ID,
				}).Error
		})
		if err != nil {
			log.Printf("Bloqueio do tenant %d falhou: %v", inv.TenantID, err)
			continue
		}
		out.TenantsBlocked++
	}

	var resellerInvoices []models.ResellerInvoice
	err = database.DB.
		Where("status = ? AND due_date < ?", models.PlatformInvoicePending, cutoff).
		Find(&resellerInvoices).Error
	if err != nil {
		return nil, err
	}

	for i := range resellerInvoices {
		inv := &resellerInvoices[i]
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.ResellerInvoice{}).
				Where("id = ?", inv.ID).
				Update("status", models.PlatformInvoiceOverdue).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Reseller{}).
				Where("id = ?", inv.ResellerID).
				Updates(map[string]any{
					"status":            models.ResellerStatusSuspended,
					"suspension_reason": fmt.Sprintf("Fatura %s em atraso", inv.ReferenceMonth),
				}).Error; err != nil {
				return err
			}
			// A carteira inteira do revendedor cai junto
			return tx.Model(&models.Tenant{}).
				Where("reseller_id = ? AND status = ?", inv.ResellerID, models.TenantStatusActive).
				Updates(map[string]any{
					"status":                models.TenantStatusBlocked,
					"blocked_by_invoice_id": nil,
				}).Error
		})
		if err != nil {
			log.Printf("Suspensão do revendedor %d falhou: %v", inv.ResellerID, err)
			continue
		}
		out.ResellersSuspended++
	}

	return out, nil
}

// MarkTenantInvoicePaid quita a fatura e desbloqueia o tenant que estava
// bloqueado por ela.
func MarkTenantInvoicePaid(invoiceID uint, paymentDate time.Time) (*models.TenantInvoice, error) {
	var invoice models.TenantInvoice

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if invoice.Status == models.PlatformInvoicePaid {
			return models.ErrAlreadyPaid
		}
		if invoice.Status == models.PlatformInvoiceCancelled {
			return models.ErrCancelled
		}

		d := paymentDate
		invoice.Status = models.PlatformInvoicePaid
		invoice.PaymentDate = &d
		if err := tx.Model(&models.TenantInvoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]any{
				"status":       invoice.Status,
				"payment_date": invoice.PaymentDate,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Tenant{}).
			Where("id = ? AND blocked_by_invoice_id = ?", invoice.TenantID, invoice.ID).
			Updates(map[string]any{
				"status":                models.TenantStatusActive,
				"blocked_by_invoice_id": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// MarkResellerInvoicePaid quita a fatura do revendedor e reativa o
// revendedor suspenso com a carteira.
func MarkResellerInvoicePaid(invoiceID uint, paymentDate time.Time) (*models.ResellerInvoice, error) {
	var invoice models.ResellerInvoice

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if invoice.Status == models.PlatformInvoicePaid {
			return models.ErrAlreadyPaid
		}
		if invoice.Status == models.PlatformInvoiceCancelled {
			return models.ErrCancelled
		}

		d := paymentDate
		invoice.Status = models.PlatformInvoicePaid
		invoice.PaymentDate = &d
		if err := tx.Model(&models.ResellerInvoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]any{
				"status":       invoice.Status,
				"payment_date": invoice.PaymentDate,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Reseller{}).
			Where("id = ? AND status = ?", invoice.ResellerID, models.ResellerStatusSuspended).
			Updates(map[string]any{
				"status":            models.ResellerStatusActive,
				"suspension_reason": "",
			}).Error; err != nil {
			return err
		}

		// Reativa só os tenants bloqueados pela cascata do revendedor, não
		// os bloqueados por fatura própria
		return tx.Model(&models.Tenant{}).
			Where("reseller_id = ? AND status = ? AND blocked_by_invoice_id IS NULL",
				invoice.ResellerID, models.TenantStatusBlocked).
			Update("status", models.TenantStatusActive).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
