package payment

import (
	"context"
	"fmt"
	"time"

	"parcel-payment/controllers"
	"parcel-payment/errs"
	"parcel-payment/logger"
	paymentModel "parcel-payment/models/payment"
	"parcel-payment/services/ledger"
	"parcel-payment/services/reconciliation"
	"parcel-payment/types"
	payment_types "parcel-payment/types/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Reconciler interface {
	CreatePaymentIntent(ctx context.Context, parcelID uuid.UUID) (string, error)
	ConfirmPayment(ctx context.Context, req reconciliation.ConfirmRequest) (*reconciliation.Confirmation, error)
}

type PaymentLister interface {
	List(ctx context.Context, filter ledger.Filter) ([]paymentModel.Record, error)
}

// PaymentController handles payment intent, confirmation and ledger requests.
type PaymentController struct {
	controllers.Base
	Reconciler Reconciler
	Payments   PaymentLister
}

func NewPaymentController(reconciler Reconciler, payments PaymentLister, asyncLogger *logger.AsyncLogger) *PaymentController {
	return &PaymentController{
		Base:       controllers.Base{Logger: asyncLogger},
		Reconciler: reconciler,
		Payments:   payments,
	}
}

// CreateIntent handles POST /create-payment-intent
func (pc *PaymentController) CreateIntent(c *fiber.Ctx) error {
	var request payment_types.CreateIntentRequest
	if err := c.BodyParser(&request); err != nil {
		return pc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request format",
		})
	}

	parcelID, err := controllers.ParseID(request.ParcelID)
	if err != nil {
		return pc.SendError(c, err, "Invalid parcel id")
	}

	secret, err := pc.Reconciler.CreatePaymentIntent(c.UserContext(), parcelID)
	if err != nil {
		return pc.SendError(c, err, "Failed to create payment intent")
	}

	return pc.SendJSONWithLog(c, fiber.StatusOK, payment_types.CreateIntentResponse{
		ClientSecret: secret,
	})
}

// Confirm handles PATCH /parcels/payment/:id
func (pc *PaymentController) Confirm(c *fiber.Ctx) error {
	parcelID, err := controllers.ParseID(c.Params("id"))
	if err != nil {
		return pc.SendError(c, err, "Invalid parcel id")
	}

	var request payment_types.ConfirmPaymentRequest
	if err := c.BodyParser(&request); err != nil {
		return pc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request format",
		})
	}

	confirmation, err := pc.Reconciler.ConfirmPayment(c.UserContext(), reconciliation.ConfirmRequest{
		ParcelID:      parcelID,
		TransactionID: request.TransactionID,
		Email:         request.Email,
		Method:        request.Method,
	})
	if err != nil {
		return pc.SendError(c, err, "Failed to update payment status")
	}

	if confirmation.Duplicate {
		logger.Info(fmt.Sprintf("Duplicate payment confirmation for parcel %s transaction %s", parcelID, request.TransactionID))
	}

	return pc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Payment status updated",
		ID:      confirmation.Record.ID.String(),
	})
}

// Index handles GET /payments?parcelId=&email=&date=YYYY-MM-DD
func (pc *PaymentController) Index(c *fiber.Ctx) error {
	filter := ledger.Filter{Email: c.Query("email")}

	if raw := c.Query("parcelId"); raw != "" {
		parcelID, err := controllers.ParseID(raw)
		if err != nil {
			return pc.SendError(c, err, "Invalid parcel id")
		}
		filter.ParcelID = parcelID
	}

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return pc.SendError(c, fmt.Errorf("date must be YYYY-MM-DD: %w", errs.ErrInvalidInput), "Invalid date")
		}
		filter.Day = &day
	}

	records, err := pc.Payments.List(c.UserContext(), filter)
	if err != nil {
		return pc.SendError(c, err, "Failed to get payments")
	}
	return pc.SendJSONWithLog(c, fiber.StatusOK, records)
}
