package usecase

import (
	"bytes"
	"html/template"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/membership"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/repository"
	"github.com/congregateapp/congregate/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type MembershipUsecase struct {
	MembershipRepository *repository.MembershipRepository
	UserRepository       *repository.UserRepository
	DB                   *pgxpool.Pool
	Log                  *zap.Logger
	Config               *koanf.Koanf
}

func NewMembershipUsecase(membershipRepository *repository.MembershipRepository, userRepository *repository.UserRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf) *MembershipUsecase {
	return &MembershipUsecase{
		MembershipRepository: membershipRepository,
		UserRepository:       userRepository,
		DB:                   db,
		Log:                  zap,
		Config:               koanf,
	}
}

// GetCard reads the caller's status tuple and derives the one card the
// client should render. Derivation happens here, never on the client.
func (usecase *MembershipUsecase) GetCard(ctx *fiber.Ctx, userId uuid.UUID) (membership.CardResponse, error) {
	response := membership.CardResponse{}

	status, err := usecase.MembershipRepository.GetStatus(ctx.Context(), userId)
	if err != nil {
		return response, err
	}

	response.Status = status
	response.State = membership.StateOf(status)
	response.Card = membership.Derive(status)

	return response, nil
}

// Submit handles both a first request and a resubmission over the same
// row. Muted users are refused before anything is written.
func (usecase *MembershipUsecase) Submit(ctx *fiber.Ctx, userId uuid.UUID, payload model.MembershipSubmitRequest) (membership.CardResponse, error) {
	ctxContext := ctx.Context()
	response := membership.CardResponse{}

	if payload.Message == "" {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Message is required to not be empty",
			Param:   "message",
		}
	} else if len(payload.Message) > 1000 {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Message must be at most 1000 characters",
			Param:   "message",
		}
	}

	status, err := usecase.MembershipRepository.GetStatus(ctxContext, userId)
	if err != nil {
		return response, err
	}

	if status.Membership {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "You are already a member",
			Param:   "message",
		}
	}

	if !membership.CanSubmit(status) {
		return response, &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are prohibited from making membership requests",
			Param:   "message",
		}
	}

	now := time.Now().UTC()
	request := model.MembershipRequest{
		Id:             uuid.New(),
		UserId:         userId,
		Message:        payload.Message,
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	err = usecase.MembershipRepository.UpsertRequest(ctxContext, request)
	if err != nil {
		return response, err
	}

	return usecase.GetCard(ctx, userId)
}

// Review resolves a request. The muted flag is written exactly as the
// reviewer sent it, on approvals too, so leaving it unchecked always
// clears a previous mute. Approving grants membership, denying revokes
// it. The decision email is best effort and sent after commit.
func (usecase *MembershipUsecase) Review(ctx *fiber.Ctx, reviewerId uuid.UUID, requestId uuid.UUID, payload model.MembershipReviewRequest) error {
	ctxContext := ctx.Context()

	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctxContext, reviewerId)
	if err != nil {
		return err
	}

	if !capabilities.CanReviewMembership() {
		return &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to review membership requests",
			Param:   "userId",
		}
	}

	if payload.Decision != model.MembershipDecisionApprove && payload.Decision != model.MembershipDecisionDeny {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Decision must be either approve or deny",
			Param:   "decision",
		}
	}

	if payload.Reason != nil && len(*payload.Reason) > 1000 {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Reason must be at most 1000 characters",
			Param:   "reason",
		}
	}

	request, err := usecase.MembershipRepository.GetRequestById(ctxContext, requestId)
	if err != nil {
		return err
	}

	approved := payload.Decision == model.MembershipDecisionApprove
	now := time.Now().UTC()

	// start transaction
	tx, err := usecase.DB.Begin(ctxContext)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctxContext)

	err = usecase.MembershipRepository.ResolveRequest(ctxContext, tx, requestId, approved, payload.Muted, payload.Reason, now)
	if err != nil {
		return err
	}

	err = usecase.UserRepository.SetMembership(ctxContext, tx, request.UserId, approved, now)
	if err != nil {
		return err
	}

	review := model.MembershipReview{
		Id:             uuid.New(),
		RequestId:      requestId,
		UserId:         request.UserId,
		ReviewerId:     reviewerId,
		Approved:       approved,
		Muted:          payload.Muted,
		Reason:         payload.Reason,
		Message:        request.Message,
		CreateDatetime: now,
	}

	err = usecase.MembershipRepository.InsertReview(ctxContext, tx, review)
	if err != nil {
		return err
	}

	err = tx.Commit(ctxContext)
	if err != nil {
		return err
	}

	err = usecase.sendDecisionEmail(ctx, request.UserId, approved, payload.Reason)
	if err != nil {
		usecase.Log.Warn("failed to send membership decision email", zap.String("userId", request.UserId.String()), zap.Error(err))
	}

	return nil
}

func (usecase *MembershipUsecase) sendDecisionEmail(ctx *fiber.Ctx, userId uuid.UUID, approved bool, reason *string) error {
	fullname, email, err := usecase.UserRepository.GetUserContact(ctx.Context(), userId)
	if err != nil {
		return err
	}

	templateData := model.MembershipDecisionTemplateData{
		Fullname: fullname,
		Approved: approved,
		Reason:   reason,
	}

	template, err := template.ParseFS(util.TemplateFS, "template/membership_decision.html")
	if err != nil {
		return err
	}

	var tmpl bytes.Buffer
	err = template.Execute(&tmpl, templateData)
	if err != nil {
		return err
	}

	smtpHost := usecase.Config.String("SMTP_HOST")
	smtpPort := usecase.Config.Int("SMTP_PORT")
	senderName := usecase.Config.String("SENDER_NAME")
	senderEmail := usecase.Config.String("SENDER_EMAIL")
	senderPassword := usecase.Config.String("SENDER_PASSWORD")

	subject := "Your Membership Request Was Reviewed"
	return util.SendEmail(smtpHost, smtpPort, senderName, senderEmail, senderPassword, email, subject, tmpl.String())
}

// Search pages the admin review queue. Unknown tab and field values fall
// back to the defaults instead of erroring, matching what the review
// screen sends.
func (usecase *MembershipUsecase) Search(ctx *fiber.Ctx, adminId uuid.UUID, search model.MembershipSearchQuery) (model.MembershipRequestListResponse, error) {
	ctxContext := ctx.Context()
	response := model.MembershipRequestListResponse{}

	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctxContext, adminId)
	if err != nil {
		return response, err
	}

	if !capabilities.CanReviewMembership() {
		return response, &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to review membership requests",
			Param:   "userId",
		}
	}

	if search.Tab != model.MembershipTabApproved && search.Tab != model.MembershipTabRejected {
		search.Tab = model.MembershipTabPending
	}
	if search.Field != model.MembershipSearchFieldEmail {
		search.Field = model.MembershipSearchFieldName
	}
	if search.Page < 1 {
		search.Page = 1
	}
	if search.Limit < 1 || search.Limit > 100 {
		search.Limit = 20
	}

	items, total, err := usecase.MembershipRepository.SearchRequests(ctxContext, search)
	if err != nil {
		return response, err
	}

	response.Items = items
	response.Page = search.Page
	response.Limit = search.Limit
	response.Total = total

	return response, nil
}

func (usecase *MembershipUsecase) GetReviewHistory(ctx *fiber.Ctx, adminId uuid.UUID, requestId uuid.UUID) ([]model.MembershipReview, error) {
	ctxContext := ctx.Context()

	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctxContext, adminId)
	if err != nil {
		return nil, err
	}

	if !capabilities.CanReviewMembership() {
		return nil, &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to review membership requests",
			Param:   "userId",
		}
	}

	reviews, err := usecase.MembershipRepository.ListReviews(ctxContext, requestId)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}
