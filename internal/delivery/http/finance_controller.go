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

type FinanceController struct {
	FinanceUsecase *usecase.FinanceUsecase
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewFinanceController(financeUsecase *usecase.FinanceUsecase, zap *zap.Logger, koanf *koanf.Koanf) *FinanceController {
	return &FinanceController{
		FinanceUsecase: financeUsecase,
		Log:            zap,
		Config:         koanf,
	}
}

func (controller FinanceController) RecordDonation(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	var payload model.DonationCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.FinanceUsecase.RecordDonation(ctx, adminId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FinanceController) GetReport(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	response, err := controller.FinanceUsecase.GetReport(ctx, adminId, ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FinanceController) RequestRefund(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	var payload model.RefundCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.FinanceUsecase.RequestRefund(ctx, adminId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FinanceController) ProcessRefund(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	refundId, err := parseUUIDParam(ctx, "refundId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.RefundProcessRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.FinanceUsecase.ProcessRefund(ctx, adminId, refundId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller FinanceController) ListRefunds(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	donationId, err := parseUUIDParam(ctx, "donationId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	response, err := controller.FinanceUsecase.ListRefunds(ctx, adminId, donationId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
