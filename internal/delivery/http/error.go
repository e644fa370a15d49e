package http

import (
	"errors"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sendUsecaseError maps a usecase error onto the right response shape.
// Validation errors pick their status from the error code, anything else
// is a 500.
func sendUsecaseError(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Code {
		case constant.ERR_NOT_FOUND_ERROR:
			return util.SendErrorResponseNotFound(ctx, err)
		case constant.ERR_FORBIDDEN_ERROR:
			return util.SendErrorResponseForbidden(ctx, err)
		case constant.ERR_UNATHORIZED_ERROR:
			return util.SendErrorResponseUnauthorized(ctx, err)
		default:
			return util.SendErrorResponse(ctx, err)
		}
	}

	return util.SendErrorResponseInternalServer(ctx, log, err)
}

// optionalUserId returns the authenticated user id, or uuid.Nil on
// public routes that run without the auth middleware.
func optionalUserId(ctx *fiber.Ctx) uuid.UUID {
	if userId, ok := ctx.Locals("userId").(uuid.UUID); ok {
		return userId
	}
	return uuid.Nil
}

func parseUUIDParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return id, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Parameter must be a valid UUID",
			Param:   name,
		}
	}

	return id, nil
}
