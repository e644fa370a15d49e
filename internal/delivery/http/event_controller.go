package http

import (
	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/usecase"
	"github.com/congregateapp/congregate/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type EventController struct {
	EventUsecase *usecase.EventUsecase
	Log          *zap.Logger
	Config       *koanf.Koanf
}

func NewEventController(eventUsecase *usecase.EventUsecase, zap *zap.Logger, koanf *koanf.Koanf) *EventController {
	return &EventController{
		EventUsecase: eventUsecase,
		Log:          zap,
		Config:       koanf,
	}
}

func (controller EventController) CreateSeries(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	var payload model.EventSeriesCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.EventUsecase.CreateSeries(ctx, adminId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller EventController) UpdateSeries(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	seriesId, err := parseUUIDParam(ctx, "seriesId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.EventSeriesCreateRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.EventUsecase.UpdateSeries(ctx, adminId, seriesId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller EventController) DeleteSeries(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	seriesId, err := parseUUIDParam(ctx, "seriesId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	err = controller.EventUsecase.DeleteSeries(ctx, adminId, seriesId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller EventController) ListSeries(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	response, err := controller.EventUsecase.ListSeries(ctx, adminId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller EventController) ListUpcoming(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	response, err := controller.EventUsecase.ListUpcoming(ctx, userId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller EventController) OverrideInstance(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	instanceId, err := parseUUIDParam(ctx, "instanceId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.EventInstanceOverrideRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.EventUsecase.OverrideInstance(ctx, adminId, instanceId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller EventController) Register(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	instanceId, err := parseUUIDParam(ctx, "instanceId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	err = controller.EventUsecase.Register(ctx, userId, instanceId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller EventController) CancelRegistration(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	instanceId, err := parseUUIDParam(ctx, "instanceId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	err = controller.EventUsecase.CancelRegistration(ctx, userId, instanceId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}
