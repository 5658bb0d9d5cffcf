package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckychip/casino_backend/config"
	"github.com/luckychip/casino_backend/models"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*CryptoPaymentService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway := NewCryptoPaymentService(config.CryptoConfig{
		APIKey:  "test-key",
		APIURL:  server.URL,
		SiteURL: "https://casino.example",
	})
	return gateway, server
}

func TestCreateInvoiceSuccess(t *testing.T) {
	var captured map[string]interface{}
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/invoice", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc123"}`))
	})

	resp := gateway.CreateInvoice(models.CryptoInvoiceRequest{
		Amount:         25,
		CryptoCurrency: "btc",
		Description:    "chips",
	})

	assert.Equal(t, "crypto", resp.Type)
	assert.Equal(t, models.CryptoResultSuccess, resp.Result)

	payload, ok := resp.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc123", payload["id"])

	assert.Equal(t, float64(25), captured["price_amount"])
	assert.Equal(t, "usd", captured["price_currency"])
	assert.Equal(t, "btc", captured["pay_currency"])
	assert.Equal(t, "chips", captured["order_description"])
	assert.Equal(t, "https://casino.example/api/crypto/success", captured["success_url"])
	assert.Equal(t, "https://casino.example/api/crypto/cancel", captured["cancel_url"])
}

func TestCreateInvoiceProviderFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "provider error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"invalid api key"}`, http.StatusForbidden)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, _ := newTestGateway(t, tt.handler)

			resp := gateway.CreateInvoice(models.CryptoInvoiceRequest{Amount: 25, CryptoCurrency: "btc"})

			assert.Equal(t, "crypto", resp.Type)
			assert.Equal(t, models.CryptoResultError, resp.Result)
			assert.NotEmpty(t, resp.Payload)
		})
	}
}

func TestCreateInvoiceMissingCredentialFailsClosed(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	gateway := NewCryptoPaymentService(config.CryptoConfig{APIURL: server.URL, SiteURL: "https://casino.example"})

	resp := gateway.CreateInvoice(models.CryptoInvoiceRequest{Amount: 25, CryptoCurrency: "btc"})

	assert.Equal(t, models.CryptoResultError, resp.Result)
	assert.Equal(t, 0, calls, "no provider call should be made without a credential")
}

func TestGetMinimumPaymentRoundsFiatEquivalent(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/min-amount", r.URL.Path)
		assert.Equal(t, "btc", r.URL.Query().Get("currency_from"))
		assert.Equal(t, "usd", r.URL.Query().Get("fiat_equivalent"))
		w.Write([]byte(`{"currency_from":"btc","min_amount":0.0001,"fiat_equivalent":8.3456}`))
	})

	resp := gateway.GetMinimumPayment("btc")

	assert.Equal(t, models.CryptoResultMin, resp.Result)

	payload, ok := resp.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "8.3", payload["fiat_equivalent"])
	assert.Equal(t, 0.0001, payload["min_amount"])
}

func TestGetMinimumPaymentCapturesFailure(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	resp := gateway.GetMinimumPayment("ltc")

	assert.Equal(t, models.CryptoResultError, resp.Result)
	assert.NotEmpty(t, resp.Payload)
}

func TestGetInvoiceDetails(t *testing.T) {
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoice/abc123", r.URL.Path)
		w.Write([]byte(`{"foo":1}`))
	})

	resp := gateway.GetInvoiceDetails("abc123")

	assert.Equal(t, models.CryptoResultSuccess, resp.Result)
	payload, ok := resp.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), payload["foo"])
}
