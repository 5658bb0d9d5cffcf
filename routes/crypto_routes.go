package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/luckychip/casino_backend/controllers"
)

// RegisterCryptoRoutes wires the crypto payment endpoints
func RegisterCryptoRoutes(e *echo.Echo, cryptoController *controllers.CryptoPaymentController) {
	e.POST("/api/crypto", cryptoController.CreateInvoice)
	e.POST("/api/crypto_min", cryptoController.MinimumPayments)
	e.POST("/api/crypto/success", cryptoController.PaymentSuccess)
	e.POST("/api/crypto/cancel", cryptoController.PaymentCancel)
}
