package commission

import (
	"testing"

	"oficina-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementAmount(t *testing.T) {
	net := dec("1150.03")

	// Sem configuração salarial, o acerto é o saldo líquido
	assert.True(t, settlementAmount(net, nil).Equal(net))

	// Só comissão: configuração não mexe no saldo
	commissionOnly := &models.EmployeeSalaryConfig{PayType: models.PayTypeCommission}
	assert.True(t, settlementAmount(net, commissionOnly).Equal(net))

	// Salário fixo substitui a comissão
	base := dec("2500.00")
	fixed := &models.EmployeeSalaryConfig{PayType: models.PayTypeFixedSalary, BaseSalary: &base}
	assert.True(t, settlementAmount(net, fixed).Equal(dec("2500.00")))

	// Mista soma o salário base ao saldo
	mixed := &models.EmployeeSalaryConfig{PayType: models.PayTypeMixed, BaseSalary: &base}
	assert.True(t, settlementAmount(net, mixed).Equal(dec("3650.03")))

	// Mista com saldo negativo: adiantamentos descontam do salário base
	mixedNegative := settlementAmount(dec("-300.00"), mixed)
	assert.True(t, mixedNegative.Equal(dec("2200.00")))
}

func TestValidateSalaryConfig(t *testing.T) {
	base := dec("2500.00")
	zero := dec("0.00")

	assert.NoError(t, validateSalaryConfig(models.PayTypeCommission, nil))
	assert.NoError(t, validateSalaryConfig(models.PayTypeFixedSalary, &base))
	assert.NoError(t, validateSalaryConfig(models.PayTypeMixed, &base))

	var invalid *InvalidSalaryConfigError
	require.ErrorAs(t, validateSalaryConfig(models.PayTypeFixedSalary, nil), &invalid)
	require.ErrorAs(t, validateSalaryConfig(models.PayTypeMixed, &zero), &invalid)
	require.ErrorAs(t, validateSalaryConfig(models.PayType("BONUS"), nil), &invalid)
}

func TestScopeFor(t *testing.T) {
	emp := uint(3)

	// Coletivo: consulta é sempre da empresa inteira
	scope, err := ScopeFor(models.CommissionCollective, nil)
	require.NoError(t, err)
	assert.Nil(t, scope)

	_, err = ScopeFor(models.CommissionCollective, &emp)
	assert.ErrorIs(t, err, ErrCollectiveScope)

	// Individual: exige o funcionário
	scope, err = ScopeFor(models.CommissionIndividual, &emp)
	require.NoError(t, err)
	assert.Equal(t, emp, *scope)

	_, err = ScopeFor(models.CommissionIndividual, nil)
	assert.ErrorIs(t, err, ErrEmployeeScopeRequired)
}
