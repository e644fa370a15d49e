package repository

import (
	"context"
	"errors"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FinanceRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewFinanceRepository(zap *zap.Logger, db *pgxpool.Pool) *FinanceRepository {
	return &FinanceRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *FinanceRepository) CreateDonation(ctx context.Context, donation model.Donation) error {
	query := `INSERT INTO donations (id, user_id, fund, amount, reference, received_datetime, create_datetime)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := repository.DB.Exec(ctx, query, donation.Id, donation.UserId, donation.Fund, donation.Amount, donation.Reference, donation.ReceivedDatetime, donation.CreateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *FinanceRepository) GetDonation(ctx context.Context, donationId uuid.UUID) (model.Donation, error) {
	query := "SELECT id,user_id,fund,amount,reference,received_datetime,create_datetime FROM donations WHERE id=$1 LIMIT 1"

	donation := model.Donation{}
	err := repository.DB.QueryRow(ctx, query, donationId).Scan(&donation.Id, &donation.UserId, &donation.Fund, &donation.Amount, &donation.Reference, &donation.ReceivedDatetime, &donation.CreateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return donation, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Donation not found",
				Param:   "donationId",
			}
		}
		return donation, err
	}

	return donation, nil
}

// GetFundTotals aggregates refund-adjusted totals per fund over a range.
// Processed refunds subtract from the fund their donation credited.
func (repository *FinanceRepository) GetFundTotals(ctx context.Context, from time.Time, to time.Time) ([]model.FundTotal, error) {
	query := `SELECT D.fund,
			SUM(D.amount) - COALESCE(SUM(R.refunded), 0),
			COUNT(D.id)
			FROM donations D
			LEFT JOIN (
				SELECT donation_id, SUM(amount) AS refunded
				FROM refunds
				WHERE status = 'processed'
				GROUP BY donation_id
			) R ON R.donation_id = D.id
			WHERE D.received_datetime >= $1 AND D.received_datetime < $2
			GROUP BY D.fund
			ORDER BY D.fund`

	rows, err := repository.DB.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []model.FundTotal{}
	for rows.Next() {
		total := model.FundTotal{}
		err := rows.Scan(&total.Fund, &total.Total, &total.Count)
		if err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}

// GetRefundedTotal sums processed and pending refunds for one donation,
// so a new refund cannot push the refunded amount past the donation.
func (repository *FinanceRepository) GetRefundedTotal(ctx context.Context, donationId uuid.UUID) (decimal.Decimal, error) {
	query := "SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE donation_id=$1 AND status <> 'denied'"

	var total decimal.Decimal
	err := repository.DB.QueryRow(ctx, query, donationId).Scan(&total)
	if err != nil {
		return total, err
	}

	return total, nil
}

func (repository *FinanceRepository) CreateRefund(ctx context.Context, refund model.Refund) error {
	query := `INSERT INTO refunds (id, donation_id, amount, reason, status, processor_reference, create_datetime, update_datetime, create_user_id, update_user_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := repository.DB.Exec(ctx, query, refund.Id, refund.DonationId, refund.Amount, refund.Reason, refund.Status, refund.ProcessorReference, refund.CreateDatetime, refund.UpdateDatetime, refund.CreateUserId, refund.UpdateUserId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *FinanceRepository) GetRefund(ctx context.Context, refundId uuid.UUID) (model.Refund, error) {
	query := "SELECT id,donation_id,amount,reason,status,processor_reference,create_datetime,update_datetime,create_user_id,update_user_id FROM refunds WHERE id=$1 LIMIT 1"

	refund := model.Refund{}
	err := repository.DB.QueryRow(ctx, query, refundId).Scan(&refund.Id, &refund.DonationId, &refund.Amount, &refund.Reason, &refund.Status, &refund.ProcessorReference, &refund.CreateDatetime, &refund.UpdateDatetime, &refund.CreateUserId, &refund.UpdateUserId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return refund, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Refund not found",
				Param:   "refundId",
			}
		}
		return refund, err
	}

	return refund, nil
}

func (repository *FinanceRepository) UpdateRefundStatus(ctx context.Context, refundId uuid.UUID, status model.RefundStatus, processorReference *string, updateUserId uuid.UUID, updateDatetime time.Time) error {
	query := "UPDATE refunds SET status = $1, processor_reference = $2, update_datetime = $3, update_user_id = $4 WHERE id = $5"

	_, err := repository.DB.Exec(ctx, query, status, processorReference, updateDatetime, updateUserId, refundId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *FinanceRepository) ListRefundsByDonation(ctx context.Context, donationId uuid.UUID) ([]model.Refund, error) {
	query := "SELECT id,donation_id,amount,reason,status,processor_reference,create_datetime,update_datetime,create_user_id,update_user_id FROM refunds WHERE donation_id=$1 ORDER BY create_datetime DESC"

	rows, err := repository.DB.Query(ctx, query, donationId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refunds := []model.Refund{}
	for rows.Next() {
		refund := model.Refund{}
		err := rows.Scan(&refund.Id, &refund.DonationId, &refund.Amount, &refund.Reason, &refund.Status, &refund.ProcessorReference, &refund.CreateDatetime, &refund.UpdateDatetime, &refund.CreateUserId, &refund.UpdateUserId)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, refund)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return refunds, nil
}
