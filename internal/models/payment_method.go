package models

// PaymentMethod: meio de pagamento utilizado em recebimentos e pagamentos.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash" // dinheiro
	MethodPix      PaymentMethod = "pix"
	MethodCredit   PaymentMethod = "credit_card" // cartão de crédito
	MethodDebit    PaymentMethod = "debit_card"  // cartão de débito
	MethodBoleto   PaymentMethod = "boleto"
	MethodTransfer PaymentMethod = "transfer" // transferência bancária
	MethodCheck    PaymentMethod = "check"    // cheque
	MethodOther    PaymentMethod = "other"
)
