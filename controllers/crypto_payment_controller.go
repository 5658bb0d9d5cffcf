package controllers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/luckychip/casino_backend/models"
	"github.com/luckychip/casino_backend/services"
	"github.com/luckychip/casino_backend/utils"
)

// minPaymentCurrencies are the tickers the combined minimum-payment query
// always reports on, in response order.
var minPaymentCurrencies = []string{"btc", "ltc"}

// Validation messages, reported first-violation-only in the fixed order
// amount, currency, description.
const (
	msgInvalidAmount      = "Invalid amount provided"
	msgInvalidCurrency    = "Invalid cryptocurrency provided"
	msgInvalidDescription = "Invalid description provided"
)

// PaymentGateway is the slice of the crypto payment service the controller
// needs, narrowed to an interface so tests can count provider calls.
type PaymentGateway interface {
	CreateInvoice(req models.CryptoInvoiceRequest) models.CryptoResponse
	GetMinimumPayment(currency string) models.CryptoResponse
	GetInvoiceDetails(orderID string) models.CryptoResponse
}

// CryptoPaymentController handles the /api/crypto endpoints
type CryptoPaymentController struct {
	gateway PaymentGateway
	orders  services.OrderTracker
}

// NewCryptoPaymentController creates a new crypto payment controller
func NewCryptoPaymentController(gateway PaymentGateway, orders services.OrderTracker) *CryptoPaymentController {
	return &CryptoPaymentController{gateway: gateway, orders: orders}
}

// cryptoInvoiceInput keeps the raw JSON values so type violations surface in
// the same fixed order as value violations.
type cryptoInvoiceInput struct {
	Amount         interface{} `json:"amount"`
	CryptoCurrency interface{} `json:"crypto_currency"`
	Description    interface{} `json:"description"`
}

// CreateInvoice validates an inbound payment request and relays the gateway
// client's envelope verbatim. Validation short-circuits on the first
// violation found; gateway failures still answer HTTP 200 with an error
// envelope.
func (cc *CryptoPaymentController) CreateInvoice(c echo.Context) error {
	var input cryptoInvoiceInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, models.CryptoError(msgInvalidAmount))
	}

	amount, ok := input.Amount.(float64)
	if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return c.JSON(http.StatusBadRequest, models.CryptoError(msgInvalidAmount))
	}

	currency, ok := input.CryptoCurrency.(string)
	if !ok || strings.TrimSpace(currency) == "" {
		return c.JSON(http.StatusBadRequest, models.CryptoError(msgInvalidCurrency))
	}

	description := ""
	if input.Description != nil {
		if description, ok = input.Description.(string); !ok {
			return c.JSON(http.StatusBadRequest, models.CryptoError(msgInvalidDescription))
		}
	}

	req := models.CryptoInvoiceRequest{
		Amount:         amount,
		CryptoCurrency: strings.ToLower(strings.TrimSpace(currency)),
		Description:    utils.SanitizeInput(description),
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.CryptoError(firstViolationMessage(err)))
	}

	return c.JSON(http.StatusOK, cc.gateway.CreateInvoice(req))
}

// MinimumPayments fans out one minimum-payment lookup per currency, joins on
// both completing and answers with the payload array. Each lookup captures
// its own failures, so a partial failure still yields two entries.
func (cc *CryptoPaymentController) MinimumPayments(c echo.Context) error {
	results := make([]models.CryptoResponse, len(minPaymentCurrencies))

	var wg sync.WaitGroup
	for i, currency := range minPaymentCurrencies {
		wg.Add(1)
		go func(i int, currency string) {
			defer wg.Done()
			results[i] = cc.gateway.GetMinimumPayment(currency)
		}(i, currency)
	}
	wg.Wait()

	payload := make([]interface{}, len(results))
	for i, result := range results {
		payload[i] = result.Payload
	}

	return c.JSON(http.StatusOK, models.CryptoResponse{
		Type:    "crypto",
		Result:  models.CryptoResultSuccess,
		Payload: payload,
	})
}

// PaymentSuccess handles the provider's payment-success callback. Both
// correlation ids are required before any gateway call is made; anything
// other than a "paid" status is answered with the error_charge envelope.
func (cc *CryptoPaymentController) PaymentSuccess(c echo.Context) error {
	var callback models.PaymentCallback
	if err := c.Bind(&callback); err != nil {
		return c.JSON(http.StatusOK, models.CryptoError(models.PayloadErrorCharge))
	}

	if callback.OrderID == "" || callback.TokenID == "" {
		log.Printf("Payment callback rejected: missing correlation ids (order_id=%q, token_id=%q)", callback.OrderID, callback.TokenID)
		return c.JSON(http.StatusOK, models.CryptoError(models.PayloadErrorCharge))
	}

	if callback.PaymentStatus != models.PaymentStatusPaid {
		log.Printf("Payment callback for order %s not paid: status=%q", callback.OrderID, callback.PaymentStatus)
		return c.JSON(http.StatusOK, models.CryptoError(models.PayloadErrorCharge))
	}

	// Provider webhooks are retried; flag replays so downstream crediting
	// keys off the first delivery only.
	if !cc.orders.FirstSeen(c.Request().Context(), callback.OrderID) {
		log.Printf("Payment callback replay detected for order %s", callback.OrderID)
		c.Response().Header().Set("X-Replayed-Callback", "true")
	}

	details := cc.gateway.GetInvoiceDetails(callback.OrderID)
	if details.Result == models.CryptoResultError {
		return c.JSON(http.StatusOK, details)
	}

	log.Printf("Payment confirmed for order %s", callback.OrderID)
	return c.JSON(http.StatusOK, models.CryptoSuccess(details.Payload))
}

// PaymentCancel handles the provider's cancel callback. No validation, no
// side effects.
func (cc *CryptoPaymentController) PaymentCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, models.CryptoCancel())
}

// firstViolationMessage maps the first field the validator rejected to its
// user-facing message.
func firstViolationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "CryptoCurrency" {
		return msgInvalidCurrency
	}
	return msgInvalidAmount
}
