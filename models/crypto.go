package models

// Result discriminators used in the crypto payment envelope.
const (
	CryptoResultSuccess = "success"
	CryptoResultError   = "error"
	CryptoResultCancel  = "cancel"
	CryptoResultMin     = "crypto_min"
)

// PaymentStatusPaid is the provider status that marks an invoice as settled.
const PaymentStatusPaid = "paid"

// PayloadErrorCharge is returned on any callback that cannot be charged:
// missing correlation ids or a non-paid provider status.
const PayloadErrorCharge = "error_charge"

// CryptoResponse is the uniform envelope every crypto payment operation
// answers with. Payload is only meaningful for the Result it was built with:
// provider invoice data on success, error detail on error, nothing on cancel.
type CryptoResponse struct {
	Type    string      `json:"type"`
	Result  string      `json:"result"`
	Payload interface{} `json:"payload,omitempty"`
}

// CryptoSuccess wraps a provider payload in a success envelope.
func CryptoSuccess(payload interface{}) CryptoResponse {
	return CryptoResponse{Type: "crypto", Result: CryptoResultSuccess, Payload: payload}
}

// CryptoError wraps a captured failure in an error envelope.
func CryptoError(payload interface{}) CryptoResponse {
	return CryptoResponse{Type: "crypto", Result: CryptoResultError, Payload: payload}
}

// CryptoCancel returns the fixed cancel envelope.
func CryptoCancel() CryptoResponse {
	return CryptoResponse{Type: "crypto", Result: CryptoResultCancel}
}

// CryptoInvoiceRequest is one payment attempt as handed to the gateway
// client after endpoint validation.
type CryptoInvoiceRequest struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	CryptoCurrency string  `json:"crypto_currency" validate:"required,alphanum,min=2,max=12"`
	Description    string  `json:"description,omitempty"`
}

// PaymentCallback is the provider's inbound payment-status notification.
// OrderID and TokenID are both required to correlate the callback; a
// callback missing either is never treated as a successful payment.
type PaymentCallback struct {
	PaymentStatus string `json:"payment_status"`
	OrderID       string `json:"order_id"`
	TokenID       string `json:"token_id"`
}
