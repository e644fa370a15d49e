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

type MembershipController struct {
	MembershipUsecase *usecase.MembershipUsecase
	Log               *zap.Logger
	Config            *koanf.Koanf
}

func NewMembershipController(membershipUsecase *usecase.MembershipUsecase, zap *zap.Logger, koanf *koanf.Koanf) *MembershipController {
	return &MembershipController{
		MembershipUsecase: membershipUsecase,
		Log:               zap,
		Config:            koanf,
	}
}

// GetCard returns the caller's status tuple plus the derived card.
func (controller MembershipController) GetCard(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	response, err := controller.MembershipUsecase.GetCard(ctx, userId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

// Submit covers both first submission and resubmission.
func (controller MembershipController) Submit(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(uuid.UUID)

	var payload model.MembershipSubmitRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	response, err := controller.MembershipUsecase.Submit(ctx, userId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller MembershipController) Review(ctx *fiber.Ctx) error {
	reviewerId := ctx.Locals("userId").(uuid.UUID)

	requestId, err := parseUUIDParam(ctx, "requestId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	var payload model.MembershipReviewRequest
	err = util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	err = controller.MembershipUsecase.Review(ctx, reviewerId, requestId, payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller MembershipController) Search(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	search := model.MembershipSearchQuery{
		Tab:   ctx.Query("tab"),
		Field: ctx.Query("field"),
		Term:  ctx.Query("term"),
		Page:  ctx.QueryInt("page", 1),
		Limit: ctx.QueryInt("limit", 20),
	}

	response, err := controller.MembershipUsecase.Search(ctx, adminId, search)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller MembershipController) GetReviewHistory(ctx *fiber.Ctx) error {
	adminId := ctx.Locals("userId").(uuid.UUID)

	requestId, err := parseUUIDParam(ctx, "requestId")
	if err != nil {
		return util.SendErrorResponse(ctx, err)
	}

	response, err := controller.MembershipUsecase.GetReviewHistory(ctx, adminId, requestId)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
