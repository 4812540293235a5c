package cards

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInvoiceResidual(t *testing.T) {
	// Primeira fatura do ciclo: nada quitado ainda
	assert.True(t, dec("850.00").Equal(invoiceResidual(dec("850.00"), decimal.Zero)))

	// Fatura complementar: só o residual após a quitação da primeira
	assert.True(t, dec("120.50").Equal(invoiceResidual(dec("970.50"), dec("850.00"))))

	// Despesa excluída depois da quitação: nunca negativo
	assert.True(t, invoiceResidual(dec("700.00"), dec("850.00")).IsZero())

	// Ciclo integralmente quitado
	assert.True(t, invoiceResidual(dec("850.00"), dec("850.00")).IsZero())
}
