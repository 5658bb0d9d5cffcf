package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/luckychip/casino_backend/config"
	"github.com/luckychip/casino_backend/controllers"
	"github.com/luckychip/casino_backend/middleware"
	"github.com/luckychip/casino_backend/repositories"
	"github.com/luckychip/casino_backend/routes"
	"github.com/luckychip/casino_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Resolve configuration once; nothing below branches on the environment
	cryptoConfig := config.LoadCryptoConfig()
	storeConfig := config.LoadStoreConfig()

	// Connect to Redis (optional; the order tracker falls back to memory)
	redisClient := config.ConnectRedis()

	// Connect to the database unless the fixture store is selected
	var store repositories.Store
	if storeConfig.UseFixtures {
		store = repositories.NewStore(storeConfig, nil)
	} else {
		client := config.ConnectDB()
		store = repositories.NewStore(storeConfig, client)
	}

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		PaymentProviderDomains: []string{cryptoConfig.APIURL},
		AllowInlineJS:          false,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Casino payment backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		database := "connected"
		if store.Execute(c.Request().Context(), "users", nil) == nil {
			database = "unavailable"
		}
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": database,
		})
	})

	// Initialize the payment gateway client and callback replay tracking
	gateway := services.NewCryptoPaymentService(cryptoConfig)

	var orderTracker services.OrderTracker
	if redisClient != nil {
		orderTracker = services.NewRedisOrderTracker(redisClient)
	} else {
		orderTracker = services.NewMemoryOrderTracker()
	}

	// Initialize controllers
	cryptoController := controllers.NewCryptoPaymentController(gateway, orderTracker)

	// Register routes
	routes.RegisterCryptoRoutes(e, cryptoController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
