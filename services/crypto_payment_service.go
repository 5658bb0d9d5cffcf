package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckychip/casino_backend/config"
	"github.com/luckychip/casino_backend/models"
)

// fiatReference is the fiat currency every provider amount is quoted against.
const fiatReference = "usd"

// CryptoPaymentService handles interactions with the invoice-based crypto
// payment provider. Every public operation captures its own failures and
// answers with a models.CryptoResponse envelope; no error escapes past this
// boundary.
type CryptoPaymentService struct {
	apiKey  string
	apiURL  string
	siteURL string
	client  *http.Client
}

// NewCryptoPaymentService creates a new payment provider client. The
// configuration is resolved once at startup and injected; a missing API key
// makes every call fail closed with an error envelope instead of crashing.
func NewCryptoPaymentService(cfg config.CryptoConfig) *CryptoPaymentService {
	return &CryptoPaymentService{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		siteURL: cfg.SiteURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest performs an HTTP request to the payment provider API
func (s *CryptoPaymentService) makeRequest(method, endpoint string, payload interface{}) (map[string]interface{}, error) {
	// Validate credentials
	if s.apiKey == "" {
		return nil, fmt.Errorf("missing payment provider credentials. Please set the CRYPTO_API_KEY environment variable")
	}

	reqURL := s.apiURL + endpoint

	// Create request body
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", s.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Send request
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	// Parse response
	var data map[string]interface{}
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w\nResponse body: %s", err, string(respBody))
	}

	return data, nil
}

// CreateInvoice submits a new invoice to the payment provider. The fiat
// amount is quoted in USD and the success/cancel URLs point back at this
// deployment's callback endpoints.
func (s *CryptoPaymentService) CreateInvoice(req models.CryptoInvoiceRequest) models.CryptoResponse {
	payload := map[string]interface{}{
		"price_amount":      req.Amount,
		"price_currency":    fiatReference,
		"pay_currency":      req.CryptoCurrency,
		"order_description": req.Description,
		"success_url":       s.siteURL + "/api/crypto/success",
		"cancel_url":        s.siteURL + "/api/crypto/cancel",
	}

	data, err := s.makeRequest(http.MethodPost, "/invoice", payload)
	if err != nil {
		log.Printf("Failed to create crypto invoice: %v", err)
		return models.CryptoError(err.Error())
	}

	return models.CryptoSuccess(data)
}

// GetMinimumPayment queries the provider's minimum-payment threshold for the
// given currency against the USD reference. The fiat_equivalent figure is
// rounded to one decimal place before being handed upstream; that is a
// display-precision decision, never used in comparisons.
func (s *CryptoPaymentService) GetMinimumPayment(currency string) models.CryptoResponse {
	endpoint := "/min-amount?currency_from=" + url.QueryEscape(currency) + "&fiat_equivalent=" + fiatReference

	data, err := s.makeRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("Failed to fetch minimum payment for %s: %v", currency, err)
		return models.CryptoError(err.Error())
	}

	if fiat, ok := data["fiat_equivalent"].(float64); ok {
		data["fiat_equivalent"] = decimal.NewFromFloat(fiat).StringFixed(1)
	}

	return models.CryptoResponse{Type: "crypto", Result: models.CryptoResultMin, Payload: data}
}

// GetInvoiceDetails fetches provider-side invoice state by its order
// identifier, used to reconcile payment-success callbacks.
func (s *CryptoPaymentService) GetInvoiceDetails(orderID string) models.CryptoResponse {
	data, err := s.makeRequest(http.MethodGet, "/invoice/"+url.PathEscape(orderID), nil)
	if err != nil {
		log.Printf("Failed to fetch invoice %s: %v", orderID, err)
		return models.CryptoError(err.Error())
	}

	return models.CryptoSuccess(data)
}
