package commission

import (
	"testing"

	"oficina-backend/internal/period"

	"github.com/stretchr/testify/assert"
)

func TestNewSnapshot_Deterministic(t *testing.T) {
	// Mesmos insumos, mesmo snapshot: é isso que torna o cache por
	// (tenant, funcionário, mês) idempotente entre recálculos
	ref := period.Of(2026, 3)
	res := &Resolution{Percentage: dec("6.00"), Description: "Faixa acima de 20000.00"}

	a := newSnapshot(1, nil, ref, dec("22500.50"), res, dec("200.00"))
	b := newSnapshot(1, nil, ref, dec("22500.50"), res, dec("200.00"))

	assert.Equal(t, a.ReferenceMonth, b.ReferenceMonth)
	assert.True(t, a.GrossCommission.Equal(b.GrossCommission))
	assert.True(t, a.NetBalance.Equal(b.NetBalance))
	assert.Equal(t, a.TierDescription, b.TierDescription)
}

func TestNewSnapshot_Math(t *testing.T) {
	ref := period.Of(2026, 3)
	res := &Resolution{Percentage: dec("6.00")}

	snap := newSnapshot(1, nil, ref, dec("22500.50"), res, dec("200.00"))

	assert.Equal(t, "2026-03", snap.ReferenceMonth)
	assert.True(t, snap.GrossCommission.Equal(dec("1350.03")), "got %s", snap.GrossCommission)
	assert.True(t, snap.NetBalance.Equal(dec("1150.03")), "got %s", snap.NetBalance)
}

func TestNewSnapshot_ScopeKeys(t *testing.T) {
	// Coletivo e individual são chaves distintas do cache: o snapshot da
	// empresa não responde pela consulta do funcionário
	ref := period.Of(2026, 3)
	res := &Resolution{Percentage: dec("5.00")}
	emp := uint(7)

	collective := newSnapshot(1, nil, ref, dec("1000.00"), res, dec("0"))
	individual := newSnapshot(1, &emp, ref, dec("1000.00"), res, dec("0"))

	assert.Nil(t, collective.EmployeeID)
	assert.Equal(t, emp, *individual.EmployeeID)
	assert.Equal(t, collective.ReferenceMonth, individual.ReferenceMonth)
}
