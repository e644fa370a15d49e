package usecase

import (
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/repository"
	"github.com/congregateapp/congregate/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type FinanceUsecase struct {
	FinanceRepository *repository.FinanceRepository
	UserRepository    *repository.UserRepository
	DB                *pgxpool.Pool
	Log               *zap.Logger
	Config            *koanf.Koanf
}

func NewFinanceUsecase(financeRepository *repository.FinanceRepository, userRepository *repository.UserRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf) *FinanceUsecase {
	return &FinanceUsecase{
		FinanceRepository: financeRepository,
		UserRepository:    userRepository,
		DB:                db,
		Log:               zap,
		Config:            koanf,
	}
}

func (usecase *FinanceUsecase) requireAdmin(ctx *fiber.Ctx, userId uuid.UUID) error {
	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctx.Context(), userId)
	if err != nil {
		return err
	}

	if !capabilities.Admin {
		return &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to manage finances",
			Param:   "userId",
		}
	}

	return nil
}

func parseAmount(raw string, param string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return amount, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Amount must be a decimal number",
			Param:   param,
		}
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return amount, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Amount must be greater than zero",
			Param:   param,
		}
	}

	return amount, nil
}

func (usecase *FinanceUsecase) RecordDonation(ctx *fiber.Ctx, adminId uuid.UUID, payload model.DonationCreateRequest) (model.Donation, error) {
	ctxContext := ctx.Context()
	donation := model.Donation{}

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return donation, err
	}

	if payload.Fund == "" {
		return donation, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Fund is required to not be empty",
			Param:   "fund",
		}
	}

	amount, err := parseAmount(payload.Amount, "amount")
	if err != nil {
		return donation, err
	}

	var donorId *uuid.UUID
	if payload.UserId != nil {
		parsed, err := uuid.Parse(*payload.UserId)
		if err != nil {
			return donation, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "User id must be a valid UUID",
				Param:   "userId",
			}
		}
		donorId = &parsed
	}

	reference := payload.Reference
	if reference == "" {
		reference, err = util.GenerateReference("don")
		if err != nil {
			return donation, err
		}
	}

	now := time.Now().UTC()
	donation = model.Donation{
		Id:               uuid.New(),
		UserId:           donorId,
		Fund:             payload.Fund,
		Amount:           amount,
		Reference:        reference,
		ReceivedDatetime: now,
		CreateDatetime:   now,
	}

	err = usecase.FinanceRepository.CreateDonation(ctxContext, donation)
	if err != nil {
		return donation, err
	}

	return donation, nil
}

func (usecase *FinanceUsecase) GetReport(ctx *fiber.Ctx, adminId uuid.UUID, fromRaw string, toRaw string) (model.FinancialReportResponse, error) {
	ctxContext := ctx.Context()
	report := model.FinancialReportResponse{}

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return report, err
	}

	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now

	if fromRaw != "" {
		from, err = time.Parse("2006-01-02", fromRaw)
		if err != nil {
			return report, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "From must be a date in YYYY-MM-DD format",
				Param:   "from",
			}
		}
	}
	if toRaw != "" {
		to, err = time.Parse("2006-01-02", toRaw)
		if err != nil {
			return report, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "To must be a date in YYYY-MM-DD format",
				Param:   "to",
			}
		}
	}

	if to.Before(from) {
		return report, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "To must not be before from",
			Param:   "to",
		}
	}

	totals, err := usecase.FinanceRepository.GetFundTotals(ctxContext, from, to)
	if err != nil {
		return report, err
	}

	grandTotal := decimal.Zero
	for _, total := range totals {
		grandTotal = grandTotal.Add(total.Total)
	}

	usecase.Log.Debug("financial report generated", zap.String("range", util.FormatDateRange(from, to)), zap.Int("funds", len(totals)))

	report.From = from
	report.To = to
	report.Funds = totals
	report.GrandTotal = grandTotal

	return report, nil
}

// RequestRefund opens a refund against a donation. Refunds must never
// exceed the donation across all non-denied refund rows.
func (usecase *FinanceUsecase) RequestRefund(ctx *fiber.Ctx, adminId uuid.UUID, payload model.RefundCreateRequest) (model.Refund, error) {
	ctxContext := ctx.Context()
	refund := model.Refund{}

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return refund, err
	}

	donationId, err := uuid.Parse(payload.DonationId)
	if err != nil {
		return refund, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Donation id must be a valid UUID",
			Param:   "donationId",
		}
	}

	amount, err := parseAmount(payload.Amount, "amount")
	if err != nil {
		return refund, err
	}

	if payload.Reason == "" {
		return refund, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Reason is required to not be empty",
			Param:   "reason",
		}
	}

	donation, err := usecase.FinanceRepository.GetDonation(ctxContext, donationId)
	if err != nil {
		return refund, err
	}

	refunded, err := usecase.FinanceRepository.GetRefundedTotal(ctxContext, donationId)
	if err != nil {
		return refund, err
	}

	if refunded.Add(amount).GreaterThan(donation.Amount) {
		return refund, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Refund amount exceeds the remaining donation amount",
			Param:   "amount",
		}
	}

	now := time.Now().UTC()
	refund = model.Refund{
		Id:             uuid.New(),
		DonationId:     donationId,
		Amount:         amount,
		Reason:         payload.Reason,
		Status:         model.RefundStatusPending,
		CreateDatetime: now,
		UpdateDatetime: now,
		CreateUserId:   adminId,
		UpdateUserId:   adminId,
	}

	err = usecase.FinanceRepository.CreateRefund(ctxContext, refund)
	if err != nil {
		return refund, err
	}

	return refund, nil
}

// ProcessRefund records the payment processor's outcome. The processor
// reference stays opaque; only a settled refund needs one.
func (usecase *FinanceUsecase) ProcessRefund(ctx *fiber.Ctx, adminId uuid.UUID, refundId uuid.UUID, payload model.RefundProcessRequest) (model.Refund, error) {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return model.Refund{}, err
	}

	refund, err := usecase.FinanceRepository.GetRefund(ctxContext, refundId)
	if err != nil {
		return refund, err
	}

	if refund.Status != model.RefundStatusPending {
		return refund, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Refund is already processed",
			Param:   "refundId",
		}
	}

	status := model.RefundStatusProcessed
	var processorReference *string
	if payload.Denied {
		status = model.RefundStatusDenied
	} else {
		if payload.ProcessorReference == "" {
			return refund, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Processor reference is required to not be empty",
				Param:   "processorReference",
			}
		}
		processorReference = &payload.ProcessorReference
	}

	now := time.Now().UTC()
	err = usecase.FinanceRepository.UpdateRefundStatus(ctxContext, refundId, status, processorReference, adminId, now)
	if err != nil {
		return refund, err
	}

	refund.Status = status
	refund.ProcessorReference = processorReference
	refund.UpdateDatetime = now
	refund.UpdateUserId = adminId

	return refund, nil
}

func (usecase *FinanceUsecase) ListRefunds(ctx *fiber.Ctx, adminId uuid.UUID, donationId uuid.UUID) ([]model.Refund, error) {
	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return nil, err
	}

	return usecase.FinanceRepository.ListRefundsByDonation(ctx.Context(), donationId)
}
