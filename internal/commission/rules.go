package commission

import (
	"errors"
	"time"

	"oficina-backend/internal/database"
	"oficina-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrRuleNotFound = errors.New("regra de comissão não encontrada")

type TierInput struct {
	MinRevenue  decimal.Decimal
	MaxRevenue  *decimal.Decimal
	Percentage  decimal.Decimal
	Description string
}

type CreateRuleInput struct {
	TenantID        uint
	Name            string
	Kind            models.CommissionRuleKind
	Description     string
	FixedPercentage *decimal.Decimal
	StartDate       time.Time
	EndDate         *time.Time
	Tiers           []TierInput
}

// CreateRule cria uma regra de comissão. Regras nascem inativas; a ativação
// é um passo separado que desativa a anterior.
func CreateRule(in CreateRuleInput) (*models.CommissionRule, error) {
	if err := validateRuleInput(in); err != nil {
		return nil, err
	}

	rule := &models.CommissionRule{
		TenantID:        in.TenantID,
		Name:            in.Name,
		Kind:            in.Kind,
		Description:     in.Description,
		Active:          false,
		FixedPercentage: in.FixedPercentage,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
	}
	for i, t := range in.Tiers {
		rule.Tiers = append(rule.Tiers, models.RevenueTier{
			MinRevenue:  t.MinRevenue.Round(2),
			MaxRevenue:  t.MaxRevenue,
			Percentage:  t.Percentage,
			Description: t.Description,
			Order:       i,
		})
	}

	if err := database.DB.Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func validateRuleInput(in CreateRuleInput) error {
	switch in.Kind {
	case models.RuleFixedRate:
		if in.FixedPercentage == nil || in.FixedPercentage.Sign() <= 0 {
			return &InvalidRuleError{Reason: "regra de percentual fixo exige percentual positivo"}
		}
	case models.RuleRevenueTier:
		if len(in.Tiers) == 0 {
			return &InvalidRuleError{Reason: "regra por faixas exige pelo menos uma faixa"}
		}
	case models.RuleHybrid:
		if in.FixedPercentage == nil || len(in.Tiers) == 0 {
			return &InvalidRuleError{Reason: "regra híbrida exige percentual fixo e faixas"}
		}
	default:
		return &InvalidRuleError{Reason: "tipo de regra desconhecido"}
	}

	for _, t := range in.Tiers {
		if t.Percentage.Sign() < 0 {
			return &InvalidRuleError{Reason: "percentual de faixa não pode ser negativo"}
		}
		if t.MinRevenue.Sign() < 0 {
			return &InvalidRuleError{Reason: "faixa com mínimo negativo"}
		}
		if t.MaxRevenue != nil && t.MaxRevenue.LessThan(t.MinRevenue) {
			return &InvalidRuleError{Reason: "faixa com máximo menor que o mínimo"}
		}
	}
	return nil
}

// ActivateRule ativa uma regra e desativa qualquer outra que esteja ativa.
// É esta operação que mantém a invariante de uma única regra ativa por
// empresa. Snapshots do tenant são derrubados: a regra vigente mudou.
func ActivateRule(tenantID, ruleID uint) (*models.CommissionRule, error) {
	var rule models.CommissionRule

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Tiers").First(&rule, "id = ? AND tenant_id = ?", ruleID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRuleNotFound
			}
			return err
		}

		if err := tx.Model(&models.CommissionRule{}).
			Where("tenant_id = ? AND active = ? AND id <> ?", tenantID, true, ruleID).
			Update("active", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.CommissionRule{}).
			Where("id = ?", ruleID).
			Update("active", true).Error; err != nil {
			return err
		}
		rule.Active = true

		return InvalidateTenant(tx, tenantID)
	})
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// DeactivateRule desativa a regra. Com nenhuma regra ativa o cálculo passa a
// devolver NoActiveRuleError.
func DeactivateRule(tenantID, ruleID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CommissionRule{}).
			Where("id = ? AND tenant_id = ?", ruleID, tenantID).
			Update("active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRuleNotFound
		}
		return InvalidateTenant(tx, tenantID)
	})
}

// DeleteRule remove uma regra inativa. Regra ativa não pode ser apagada.
func DeleteRule(tenantID, ruleID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var rule models.CommissionRule
		if err := tx.First(&rule, "id = ? AND tenant_id = ?", ruleID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRuleNotFound
			}
			return err
		}
		if rule.Active {
			return &InvalidRuleError{Reason: "desative a regra antes de excluir"}
		}
		return tx.Select("Tiers").Delete(&rule).Error
	})
}

// ListRules lista as regras do tenant com as faixas carregadas.
func ListRules(tenantID uint) ([]models.CommissionRule, error) {
	var rules []models.CommissionRule
	err := database.DB.
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("tier_order asc")
		}).
		Where("tenant_id = ?", tenantID).
		Order("id asc").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
