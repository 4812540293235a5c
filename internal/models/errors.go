package models

import "errors"

// Violações de invariante do razão. Sempre rejeitadas ANTES de qualquer
// mutação: uma transição que retorna erro não altera a entidade.
var (
	ErrAmountNotPositive = errors.New("valor deve ser maior que zero")
	ErrOverPayment       = errors.New("valor excede o saldo em aberto")
	ErrOverReversal      = errors.New("valor excede o total já recebido")
	ErrAlreadyPaid       = errors.New("conta já está paga")
	ErrCancelled         = errors.New("conta está cancelada")
	ErrWrittenOff        = errors.New("conta está baixada como perda")
)
