package ledger

import "errors"

var (
	// Lock otimista: outra operação alterou a conta entre a leitura e o
	// UPDATE. O chamador deve reler e repetir; o núcleo não retenta.
	ErrVersionConflict = errors.New("conta alterada por operação concorrente")

	ErrNotFound = errors.New("conta não encontrada")
)
