package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"oficina-backend/internal/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeRequest: cobrança a criar no gateway de pagamento.
type ChargeRequest struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	PayerName   string
	ExternalRef string // "tenant-42-2026-01"
}

// ChargeResult: identificador e link de pagamento devolvidos pelo gateway.
type ChargeResult struct {
	PaymentID  string
	PaymentURL string
}

// PaymentGateway cria cobranças de fatura. A falha do gateway nunca impede a
// emissão da fatura: ela fica PENDENTE sem link e o próximo ciclo tenta de
// novo.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ManualGateway: cobrança manual (boleto emitido fora do sistema). Gera só
// uma referência interna.
type ManualGateway struct{}

func (ManualGateway) CreateCharge(_ context.Context, _ ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{PaymentID: "manual-" + uuid.NewString()}, nil
}

// MercadoPagoGateway cria a cobrança via API HTTP do Mercado Pago.
type MercadoPagoGateway struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewMercadoPagoGateway(cfg *config.Config) *MercadoPagoGateway {
	return &MercadoPagoGateway{
		BaseURL: cfg.GatewayBaseURL,
		Token:   cfg.GatewayToken,
		Client: &http.Client{
			Timeout: time.Duration(cfg.GatewayTimeoutSec) * time.Second,
		},
	}
}

type mercadoPagoPayload struct {
	Description       string  `json:"description"`
	TransactionAmount float64 `json:"transaction_amount"`
	DateOfExpiration  string  `json:"date_of_expiration"`
	ExternalReference string  `json:"external_reference"`
	PayerName         string  `json:"payer_name"`
}

type mercadoPagoResponse struct {
	ID        json.Number `json:"id"`
	InitPoint string      `json:"init_point"`
}

func (g *MercadoPagoGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	amount, _ := req.Amount.Float64()
	payload := mercadoPagoPayload{
		Description:       req.Description,
		TransactionAmount: amount,
		DateOfExpiration:  req.DueDate.Format("2006-01-02"),
		ExternalReference: req.ExternalRef,
		PayerName:         req.PayerName,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.Token)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway indisponível: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway respondeu %d", resp.StatusCode)
	}

	var out mercadoPagoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("resposta do gateway inválida: %w", err)
	}

	return &ChargeResult{
		PaymentID:  out.ID.String(),
		PaymentURL: out.InitPoint,
	}, nil
}

// GatewayFor escolhe o gateway conforme a configuração do revendedor.
func GatewayFor(cfg *config.Config, kind string) PaymentGateway {
	if kind == "mercado_pago" && cfg.GatewayBaseURL != "" {
		return NewMercadoPagoGateway(cfg)
	}
	return ManualGateway{}
}
