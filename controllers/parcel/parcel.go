package parcel

import (
	"context"

	"parcel-payment/controllers"
	"parcel-payment/logger"
	parcelModel "parcel-payment/models/parcel"
	"parcel-payment/types"
	parcel_types "parcel-payment/types/parcel"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ParcelStore interface {
	Create(ctx context.Context, p *parcelModel.Parcel) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*parcelModel.Parcel, error)
	List(ctx context.Context, email string) ([]parcelModel.Parcel, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PaymentEvents(ctx context.Context, id uuid.UUID) ([]parcelModel.ParcelPaymentEvent, error)
}

// ParcelController handles parcel CRUD requests.
type ParcelController struct {
	controllers.Base
	Parcels ParcelStore
}

func NewParcelController(parcels ParcelStore, asyncLogger *logger.AsyncLogger) *ParcelController {
	return &ParcelController{
		Base:    controllers.Base{Logger: asyncLogger},
		Parcels: parcels,
	}
}

// Index handles GET /parcels?email=
func (pc *ParcelController) Index(c *fiber.Ctx) error {
	parcels, err := pc.Parcels.List(c.UserContext(), c.Query("email"))
	if err != nil {
		return pc.SendError(c, err, "Failed to get parcels")
	}
	return pc.SendJSONWithLog(c, fiber.StatusOK, parcels)
}

// Show handles GET /parcels/:id
func (pc *ParcelController) Show(c *fiber.Ctx) error {
	id, err := controllers.ParseID(c.Params("id"))
	if err != nil {
		return pc.SendError(c, err, "Invalid parcel id")
	}

	p, err := pc.Parcels.Get(c.UserContext(), id)
	if err != nil {
		return pc.SendError(c, err, "Failed to get parcel")
	}
	return pc.SendJSONWithLog(c, fiber.StatusOK, p)
}

// Store handles POST /parcels
func (pc *ParcelController) Store(c *fiber.Ctx) error {
	var request parcel_types.StoreParcelRequest
	if err := c.BodyParser(&request); err != nil {
		return pc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request format",
		})
	}

	if request.Email == "" {
		return pc.SendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Email is required and must be a string",
		})
	}

	weight, err := parcel_types.ParseNumber("weight", request.Weight)
	if err != nil {
		return pc.SendError(c, err, "Invalid weight")
	}
	cost, err := parcel_types.ParseNumber("cost", request.Cost)
	if err != nil {
		return pc.SendError(c, err, "Invalid cost")
	}

	newParcel := parcelModel.Parcel{
		Email:  request.Email,
		Weight: weight,
		Cost:   cost,
	}

	id, err := pc.Parcels.Create(c.UserContext(), &newParcel)
	if err != nil {
		return pc.SendError(c, err, "Failed to create parcel")
	}

	return pc.SendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Parcel created successfully",
		ID:      id.String(),
	})
}

// Destroy handles DELETE /parcels/:id
func (pc *ParcelController) Destroy(c *fiber.Ctx) error {
	id, err := controllers.ParseID(c.Params("id"))
	if err != nil {
		return pc.SendError(c, err, "Invalid parcel id")
	}

	if err := pc.Parcels.Delete(c.UserContext(), id); err != nil {
		return pc.SendError(c, err, "Failed to delete parcel")
	}
	return pc.SendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Parcel deleted",
	})
}

// PaymentEvents handles GET /parcels/:id/payment-events
func (pc *ParcelController) PaymentEvents(c *fiber.Ctx) error {
	id, err := controllers.ParseID(c.Params("id"))
	if err != nil {
		return pc.SendError(c, err, "Invalid parcel id")
	}

	events, err := pc.Parcels.PaymentEvents(c.UserContext(), id)
	if err != nil {
		return pc.SendError(c, err, "Failed to get payment events")
	}
	return pc.SendJSONWithLog(c, fiber.StatusOK, events)
}
