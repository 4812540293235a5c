package commission

import (
	"testing"
	"time"

	"oficina-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tieredRule() *models.CommissionRule {
	max1 := dec("1000.00")
	max2 := dec("20000.00")
	return &models.CommissionRule{
		ID:        1,
		TenantID:  1,
		Name:      "Faixas padrão",
		Kind:      models.RuleRevenueTier,
		Active:    true,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Tiers: []models.RevenueTier{
			{MinRevenue: dec("0.00"), MaxRevenue: &max1, Percentage: dec("4.00"), Order: 0},
			{MinRevenue: dec("1000.01"), MaxRevenue: &max2, Percentage: dec("5.00"), Order: 1},
			{MinRevenue: dec("20000.01"), MaxRevenue: nil, Percentage: dec("6.00"), Order: 2},
		},
	}
}

func TestResolveTier_Boundaries(t *testing.T) {
	rule := tieredRule()

	tier, err := ResolveTier(rule, dec("1000.00"))
	require.NoError(t, err)
	assert.True(t, tier.Percentage.Equal(dec("4.00")), "teto é inclusivo")

	tier, err = ResolveTier(rule, dec("1000.01"))
	require.NoError(t, err)
	assert.True(t, tier.Percentage.Equal(dec("5.00")))

	tier, err = ResolveTier(rule, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, tier.Percentage.Equal(dec("4.00")))

	tier, err = ResolveTier(rule, dec("22500.50"))
	require.NoError(t, err)
	assert.True(t, tier.Percentage.Equal(dec("6.00")), "última faixa sem teto")
}

func TestResolveTier_GapIsConfigurationError(t *testing.T) {
	max1 := dec("1000.00")
	rule := &models.CommissionRule{
		ID:   9,
		Kind: models.RuleRevenueTier,
		Tiers: []models.RevenueTier{
			{MinRevenue: dec("0.00"), MaxRevenue: &max1, Percentage: dec("4.00")},
			// buraco entre 1000.00 e 5000.00
			{MinRevenue: dec("5000.00"), MaxRevenue: nil, Percentage: dec("6.00")},
		},
	}

	_, err := ResolveTier(rule, dec("3000.00"))
	var noTier *NoMatchingTierError
	require.ErrorAs(t, err, &noTier)
	assert.Equal(t, uint(9), noTier.RuleID)
}

func TestResolveTier_FirstMatchWins(t *testing.T) {
	// Faixas sobrepostas: vence a primeira na ordem configurada
	max1 := dec("2000.00")
	rule := &models.CommissionRule{
		Kind: models.RuleRevenueTier,
		Tiers: []models.RevenueTier{
			{MinRevenue: dec("0.00"), MaxRevenue: &max1, Percentage: dec("4.00"), Order: 0},
			{MinRevenue: dec("1000.00"), MaxRevenue: nil, Percentage: dec("6.00"), Order: 1},
		},
	}

	tier, err := ResolveTier(rule, dec("1500.00"))
	require.NoError(t, err)
	assert.True(t, tier.Percentage.Equal(dec("4.00")))
}

func TestCommissionMath_HalfUpRounding(t *testing.T) {
	// 22.500,50 a 6% = 1.350,03
	gross := dec("22500.50").Mul(dec("6.00")).Div(oneHundred).Round(2)
	assert.True(t, gross.Equal(dec("1350.03")), "got %s", gross)

	// 333,33 a 5% = 16,6665 -> 16,67
	gross = dec("333.33").Mul(dec("5.00")).Div(oneHundred).Round(2)
	assert.True(t, gross.Equal(dec("16.67")), "got %s", gross)
}

func TestRuleIsActiveOn_Window(t *testing.T) {
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	rule := &models.CommissionRule{
		Active:    true,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}

	assert.False(t, rule.IsActiveOn(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rule.IsActiveOn(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, rule.IsActiveOn(end))
	assert.False(t, rule.IsActiveOn(end.AddDate(0, 0, 1)))

	rule.Active = false
	assert.False(t, rule.IsActiveOn(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestValidateRuleInput(t *testing.T) {
	pct := dec("5.00")

	err := validateRuleInput(CreateRuleInput{Kind: models.RuleFixedRate})
	var invalid *InvalidRuleError
	assert.ErrorAs(t, err, &invalid)

	err = validateRuleInput(CreateRuleInput{Kind: models.RuleFixedRate, FixedPercentage: &pct})
	assert.NoError(t, err)

	err = validateRuleInput(CreateRuleInput{Kind: models.RuleRevenueTier})
	assert.ErrorAs(t, err, &invalid)

	max := dec("10.00")
	err = validateRuleInput(CreateRuleInput{
		Kind: models.RuleRevenueTier,
		Tiers: []TierInput{
			{MinRevenue: dec("100.00"), MaxRevenue: &max, Percentage: dec("5.00")},
		},
	})
	assert.ErrorAs(t, err, &invalid, "máximo menor que o mínimo")

	err = validateRuleInput(CreateRuleInput{
		Kind:            models.RuleHybrid,
		FixedPercentage: &pct,
		Tiers:           []TierInput{{MinRevenue: decimal.Zero, Percentage: dec("5.00")}},
	})
	assert.NoError(t, err)
}
