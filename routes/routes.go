package routes

import (
	parcelController "parcel-payment/controllers/parcel"
	paymentController "parcel-payment/controllers/payment"
	"parcel-payment/logger"
	"parcel-payment/middleware"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the components the HTTP layer is built from. They are
// constructed once in main.
type Dependencies struct {
	Parcels    parcelController.ParcelStore
	Reconciler paymentController.Reconciler
	Payments   paymentController.PaymentLister
	Logger     *logger.AsyncLogger
	// JWTSecret enables bearer authentication on every API route when set.
	JWTSecret string
}

// SetupRoutes registers exactly one handler per method and path.
// TestRoutesAreUnique guards against a path being bound twice.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	parcels := parcelController.NewParcelController(deps.Parcels, deps.Logger)
	payments := paymentController.NewPaymentController(deps.Reconciler, deps.Payments, deps.Logger)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("The parcel is coming .....")
	})

	api := app.Group("")
	if deps.JWTSecret != "" {
		api.Use(middleware.Authenticate(deps.JWTSecret))
	}

	/*=============================================================================
	| Parcel Routes
	===============================================================================*/
	api.Get("/parcels", parcels.Index)
	api.Post("/parcels", parcels.Store)
	api.Get("/parcels/:id", parcels.Show)
	api.Delete("/parcels/:id", parcels.Destroy)
	api.Get("/parcels/:id/payment-events", parcels.PaymentEvents)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	api.Post("/create-payment-intent", payments.CreateIntent)
	api.Patch("/parcels/payment/:id", payments.Confirm)
	api.Get("/payments", payments.Index)
}
