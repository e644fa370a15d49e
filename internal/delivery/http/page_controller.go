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

type PageController struct {
	PageUsecase *usecase.PageUsecase
	Log         *zap.Logger
	Config      *koanf.Koanf
}

func NewPageController(pageUsecase *usecase.PageUsecase, zap *zap.Logger, koanf *koanf.Koanf) *PageController {
	return &PageController{
		PageUsecase: pageUsecase,
		Log:         zap,
		Config:      koanf,
	}
}

func (controller PageController) SavePage(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	var payload model.SitePageUpsertRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.PageUsecase.SavePage(ctx, adminId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PageController) GetPage(ctx *fiber.Ctx) error {
	userId := optionalUserId(ctx)

	response, err := controller.PageUsecase.GetPage(ctx, userId, ctx.Params("slug"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PageController) ListPages(ctx *fiber.Ctx) error {
	userId := optionalUserId(ctx)

	response, err := controller.PageUsecase.ListPages(ctx, userId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PageController) DeletePage(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	err := controller.PageUsecase.DeletePage(ctx, adminId, ctx.Params("slug"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller PageController) SaveFragment(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	var payload model.SiteFragmentUpdateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.PageUsecase.SaveFragment(ctx, adminId, ctx.Params("name"), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller PageController) GetFragment(ctx *fiber.Ctx) error {
	response, err := controller.PageUsecase.GetFragment(ctx, ctx.Params("name"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
