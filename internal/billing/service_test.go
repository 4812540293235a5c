package billing

import (
	"testing"

	"oficina-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBillable(t *testing.T) {
	fee := decimal.NewFromInt(199)

	active := models.Tenant{Status: models.TenantStatusActive, MonthlyFee: fee}
	assert.True(t, billable(&active))

	// Bloqueado por inadimplência não acumula fatura nova
	blocked := models.Tenant{Status: models.TenantStatusBlocked, MonthlyFee: fee}
	assert.False(t, billable(&blocked))

	// Sem mensalidade não entra no lote
	free := models.Tenant{Status: models.TenantStatusActive, MonthlyFee: decimal.Zero}
	assert.False(t, billable(&free))
}

func TestNeedsPaymentLink(t *testing.T) {
	pending := models.TenantInvoice{Status: models.PlatformInvoicePending}
	assert.True(t, needsPaymentLink(&pending))

	linked := models.TenantInvoice{Status: models.PlatformInvoicePending, PaymentID: "mp-123"}
	assert.False(t, needsPaymentLink(&linked))

	paid := models.TenantInvoice{Status: models.PlatformInvoicePaid}
	assert.False(t, needsPaymentLink(&paid))
}
