package controllers

import (
	"fmt"

	"parcel-payment/errs"
	"parcel-payment/logger"
	"parcel-payment/types"
	"parcel-payment/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Base carries the response helpers shared by every controller.
type Base struct {
	Logger *logger.AsyncLogger
}

// logAPIRequest queues the finished exchange for the request log.
func (b *Base) logAPIRequest(c *fiber.Ctx) {
	if b.Logger == nil {
		return
	}
	b.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

// SendResponseWithLog writes an ApiResponse envelope and logs the exchange.
func (b *Base) SendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	response.Status = status
	result := c.Status(status).JSON(response)
	b.logAPIRequest(c)
	return result
}

// SendJSONWithLog writes a bare JSON payload and logs the exchange.
func (b *Base) SendJSONWithLog(c *fiber.Ctx, status int, payload interface{}) error {
	result := c.Status(status).JSON(payload)
	b.logAPIRequest(c)
	return result
}

// SendError maps err onto the error taxonomy. Client errors are echoed;
// gateway and internal failures are logged and replaced by fallback.
func (b *Base) SendError(c *fiber.Ctx, err error, fallback string) error {
	status := errs.HTTPStatus(err)
	message := fallback
	if errs.IsClientError(err) {
		message = err.Error()
	} else {
		logger.Error(fmt.Sprintf("%s %s: %s", c.Method(), c.Path(), fallback), err)
	}
	return b.SendResponseWithLog(c, status, types.ApiResponse{Message: message})
}

// ParseID parses a path or body id.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, errs.ErrInvalidInput)
	}
	return id, nil
}
