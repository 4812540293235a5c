package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualGateway(t *testing.T) {
	result, err := ManualGateway{}.CreateCharge(context.Background(), ChargeRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.PaymentID)
	assert.Empty(t, result.PaymentURL)
}

func TestMercadoPagoGateway_CreateCharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload mercadoPagoPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Mensalidade 2026-01", payload.Description)
		assert.InDelta(t, 199.90, payload.TransactionAmount, 0.001)
		assert.Equal(t, "tenant-42-2026-01", payload.ExternalReference)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 123456, "init_point": "https://pay.example/123456"}`))
	}))
	defer srv.Close()

	gw := &MercadoPagoGateway{
		BaseURL: srv.URL,
		Token:   "test-token",
		Client:  srv.Client(),
	}

	result, err := gw.CreateCharge(context.Background(), ChargeRequest{
		Description: "Mensalidade 2026-01",
		Amount:      decimal.RequireFromString("199.90"),
		DueDate:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		PayerName:   "Oficina Teste",
		ExternalRef: "tenant-42-2026-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "123456", result.PaymentID)
	assert.Equal(t, "https://pay.example/123456", result.PaymentURL)
}

func TestMercadoPagoGateway_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gw := &MercadoPagoGateway{BaseURL: srv.URL, Client: srv.Client()}

	_, err := gw.CreateCharge(context.Background(), ChargeRequest{Amount: decimal.Zero})
	assert.Error(t, err)
}

func TestMercadoPagoGateway_Unreachable(t *testing.T) {
	gw := &MercadoPagoGateway{
		BaseURL: "http://127.0.0.1:1",
		Client:  &http.Client{Timeout: 200 * time.Millisecond},
	}

	_, err := gw.CreateCharge(context.Background(), ChargeRequest{Amount: decimal.Zero})
	assert.Error(t, err)
}
