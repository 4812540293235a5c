package commission

import (
	"errors"

	"oficina-backend/internal/models"
	"oficina-backend/internal/period"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Resolution: percentual decidido para um período, com a origem da decisão
// (descrição da faixa ou da regra) para exibição no relatório.
type Resolution struct {
	Percentage  decimal.Decimal
	Description string
}

// ResolveActiveRule busca a regra ativa e vigente no fim do mês de
// referência. O fim do mês é o instante de corte: regra que expirou no meio
// do mês não comissiona o mês.
func ResolveActiveRule(tx *gorm.DB, tenantID uint, ref period.Month) (*models.CommissionRule, error) {
	var rule models.CommissionRule
	err := tx.Preload("Tiers", func(db *gorm.DB) *gorm.DB {
		return db.Order("tier_order asc")
	}).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NoActiveRuleError{TenantID: tenantID, ReferenceMonth: ref.Key()}
		}
		return nil, err
	}

	if !rule.IsActiveOn(ref.End()) {
		return nil, &NoActiveRuleError{TenantID: tenantID, ReferenceMonth: ref.Key()}
	}
	return &rule, nil
}

// ResolveTier escolhe a faixa para um faturamento: primeira faixa, na ordem
// configurada, onde min <= x <= (max ou infinito). Lacuna entre faixas é
// erro de configuração, nunca comissão zero silenciosa.
func ResolveTier(rule *models.CommissionRule, revenue decimal.Decimal) (*models.RevenueTier, error) {
	for i := range rule.Tiers {
		if rule.Tiers[i].InRange(revenue) {
			return &rule.Tiers[i], nil
		}
	}
	return nil, &NoMatchingTierError{RuleID: rule.ID, Revenue: revenue}
}

// ResolveEmployeeOverride busca o percentual fixo próprio do funcionário,
// vigente no fim do mês. Quando existe, tem precedência sobre a regra geral.
func ResolveEmployeeOverride(tx *gorm.DB, tenantID, employeeID uint, ref period.Month) (*models.EmployeeFixedCommission, error) {
	var configs []models.EmployeeFixedCommission
	err := tx.Where("tenant_id = ? AND employee_id = ? AND active = ?", tenantID, employeeID, true).
		Order("id desc").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	for i := range configs {
		if configs[i].IsActiveOn(ref.End()) {
			return &configs[i], nil
		}
	}
	return nil, nil
}

// Resolve decide o percentual aplicado a um período:
//
//  1. percentual fixo do funcionário, se houver (precedência);
//  2. senão, o percentual da remuneração mista do funcionário, se houver;
//  3. senão, a regra ativa da empresa: percentual fixo ou faixa pelo
//     faturamento, conforme o tipo da regra.
func Resolve(tx *gorm.DB, tenantID uint, employeeID *uint, ref period.Month, revenue decimal.Decimal) (*Resolution, error) {
	if employeeID != nil {
		override, err := ResolveEmployeeOverride(tx, tenantID, *employeeID, ref)
		if err != nil {
			return nil, err
		}
		if override != nil {
			return &Resolution{
				Percentage:  override.Percentage,
				Description: "Percentual fixo do funcionário",
			}, nil
		}

		salary, err := resolveSalaryConfig(tx, tenantID, *employeeID, ref)
		if err != nil {
			return nil, err
		}
		if salary != nil && salary.PayType == models.PayTypeMixed && salary.CommissionPercent != nil {
			return &Resolution{
				Percentage:  *salary.CommissionPercent,
				Description: "Percentual da remuneração mista",
			}, nil
		}
	}

	rule, err := ResolveActiveRule(tx, tenantID, ref)
	if err != nil {
		return nil, err
	}

	switch rule.Kind {
	case models.RuleFixedRate:
		return &Resolution{
			Percentage:  *rule.FixedPercentage,
			Description: rule.Name,
		}, nil

	case models.RuleRevenueTier, models.RuleHybrid:
		tier, err := ResolveTier(rule, revenue)
		if err != nil {
			// Híbrida: sem faixa aplicável, cai no percentual fixo da regra
			if rule.Kind == models.RuleHybrid && rule.FixedPercentage != nil {
				return &Resolution{
					Percentage:  *rule.FixedPercentage,
					Description: rule.Name + " (percentual base)",
				}, nil
			}
			return nil, err
		}
		desc := tier.Description
		if desc == "" {
			desc = tierRangeLabel(tier)
		}
		return &Resolution{Percentage: tier.Percentage, Description: desc}, nil
	}

	return nil, &InvalidRuleError{Reason: "tipo de regra desconhecido"}
}

// ScopeFor valida o escopo pedido contra o modo de comissão da empresa: modo
// individual calcula por funcionário, modo coletivo sempre sobre a empresa
// inteira.
func ScopeFor(mode models.CommissionMode, employeeID *uint) (*uint, error) {
	if mode == models.CommissionIndividual {
		if employeeID == nil {
			return nil, ErrEmployeeScopeRequired
		}
		return employeeID, nil
	}
	if employeeID != nil {
		return nil, ErrCollectiveScope
	}
	return nil, nil
}

func tierRangeLabel(t *models.RevenueTier) string {
	if t.MaxRevenue == nil {
		return "Faixa acima de " + t.MinRevenue.StringFixed(2)
	}
	return "Faixa de " + t.MinRevenue.StringFixed(2) + " a " + t.MaxRevenue.StringFixed(2)
}
