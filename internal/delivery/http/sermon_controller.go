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

type SermonController struct {
	SermonUsecase *usecase.SermonUsecase
	Log           *zap.Logger
	Config        *koanf.Koanf
}

func NewSermonController(sermonUsecase *usecase.SermonUsecase, zap *zap.Logger, koanf *koanf.Koanf) *SermonController {
	return &SermonController{
		SermonUsecase: sermonUsecase,
		Log:           zap,
		Config:        koanf,
	}
}

func (controller SermonController) Create(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	var payload model.SermonUpsertRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.SermonUsecase.Create(ctx, adminId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller SermonController) Get(ctx *fiber.Ctx) error {
	sermonId, err := parseUUIDParam(ctx, "sermonId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	response, err := controller.SermonUsecase.Get(ctx, sermonId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller SermonController) List(ctx *fiber.Ctx) error {
	response, err := controller.SermonUsecase.List(ctx, ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller SermonController) Update(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	sermonId, err := parseUUIDParam(ctx, "sermonId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.SermonUpsertRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.SermonUsecase.Update(ctx, adminId, sermonId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller SermonController) Delete(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	sermonId, err := parseUUIDParam(ctx, "sermonId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	err = controller.SermonUsecase.Delete(ctx, adminId, sermonId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller SermonController) UploadThumbnail(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	sermonId, err := parseUUIDParam(ctx, "sermonId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	response, err := controller.SermonUsecase.UploadThumbnail(ctx, adminId, sermonId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
