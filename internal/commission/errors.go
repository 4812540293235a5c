package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de escopo: a consulta não combina com o modo de comissão da empresa.
var (
	ErrEmployeeScopeRequired = errors.New("empresa em modo individual: informe o funcionário da consulta")
	ErrCollectiveScope       = errors.New("empresa em modo coletivo: a comissão é calculada sobre a empresa inteira")
)

// Erros de configuração: o estado do tenant impede o cálculo. São devolvidos
// como estão para virar 422 na borda HTTP; cálculo nunca "chuta" um valor.

// NoActiveRuleError: o tenant não tem regra de comissão ativa e vigente no
// período, e o funcionário (se houver) não tem percentual fixo próprio.
type NoActiveRuleError struct {
	TenantID       uint
	ReferenceMonth string
}

func (e *NoActiveRuleError) Error() string {
	return fmt.Sprintf("nenhuma regra de comissão ativa para a empresa %d em %s",
		e.TenantID, e.ReferenceMonth)
}

// NoMatchingTierError: a regra por faixas tem um buraco e o faturamento do
// mês não cai em nenhuma faixa. Configuração com lacuna é erro do tenant,
// não caso de comissão zero.
type NoMatchingTierError struct {
	RuleID  uint
	Revenue decimal.Decimal
}

func (e *NoMatchingTierError) Error() string {
	return fmt.Sprintf("faturamento %s fora de todas as faixas da regra %d",
		e.Revenue.StringFixed(2), e.RuleID)
}

// InvalidRuleError: tentativa de criar ou ativar uma regra mal formada.
type InvalidRuleError struct {
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return "regra de comissão inválida: " + e.Reason
}

// InvalidSalaryConfigError: configuração de remuneração incoerente com o tipo
// escolhido.
type InvalidSalaryConfigError struct {
	Reason string
}

func (e *InvalidSalaryConfigError) Error() string {
	return "configuração salarial inválida: " + e.Reason
}
