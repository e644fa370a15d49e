package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MembershipRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewMembershipRepository(zap *zap.Logger, db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		Log: zap,
		DB:  db,
	}
}

// GetStatus reads the membership flag together with the user's request
// row, if any. One query, one round trip; the request columns come back
// NULL when no request exists.
func (repository *MembershipRepository) GetStatus(ctx context.Context, userId uuid.UUID) (model.MembershipStatus, error) {
	query := `SELECT A.membership,B.id,B.message,B.resolved,B.approved,B.reason,B.muted,B.create_datetime,B.update_datetime
			FROM users A
			LEFT JOIN membership_requests B ON A.id = B.user_id
			WHERE A.id=$1
			LIMIT 1`

	status := model.MembershipStatus{}
	var requestId *uuid.UUID
	var message *string
	var resolved *bool
	var approved *bool
	var reason *string
	var muted *bool
	var createDatetime *time.Time
	var updateDatetime *time.Time

	err := repository.DB.QueryRow(ctx, query, userId).Scan(&status.Membership, &requestId, &message, &resolved, &approved, &reason, &muted, &createDatetime, &updateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return status, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "userId",
			}
		}
		return status, err
	}

	if requestId != nil {
		status.PendingRequest = &model.MembershipRequest{
			Id:             *requestId,
			UserId:         userId,
			Message:        *message,
			Resolved:       *resolved,
			Approved:       approved,
			Reason:         reason,
			Muted:          *muted,
			CreateDatetime: *createDatetime,
			UpdateDatetime: *updateDatetime,
		}
	}

	return status, nil
}

func (repository *MembershipRepository) GetRequestById(ctx context.Context, requestId uuid.UUID) (model.MembershipRequest, error) {
	query := "SELECT id,user_id,message,resolved,approved,reason,muted,create_datetime,update_datetime FROM membership_requests WHERE id=$1 LIMIT 1"

	request := model.MembershipRequest{}
	err := repository.DB.QueryRow(ctx, query, requestId).Scan(&request.Id, &request.UserId, &request.Message, &request.Resolved, &request.Approved, &request.Reason, &request.Muted, &request.CreateDatetime, &request.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Membership request not found",
				Param:   "requestId",
			}
		}
		return request, err
	}

	return request, nil
}

// UpsertRequest records a submit or resubmit. A resubmit reopens the
// user's single request row: the message is replaced and the prior
// decision (approved, reason) is cleared, while muted survives untouched.
func (repository *MembershipRepository) UpsertRequest(ctx context.Context, request model.MembershipRequest) error {
	query := `INSERT INTO membership_requests (id, user_id, message, resolved, approved, reason, muted, create_datetime, update_datetime)
			VALUES ($1,$2,$3,false,NULL,NULL,false,$4,$5)
			ON CONFLICT (user_id) DO UPDATE
			SET message = EXCLUDED.message,
				resolved = false,
				approved = NULL,
				reason = NULL,
				update_datetime = EXCLUDED.update_datetime`

	_, err := repository.DB.Exec(ctx, query, request.Id, request.UserId, request.Message, request.CreateDatetime, request.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

// ResolveRequest writes a review decision onto the request row. Muted is
// written unconditionally on every review, so a reviewer who leaves the
// checkbox unchecked clears any previous mute.
func (repository *MembershipRepository) ResolveRequest(ctx context.Context, tx pgx.Tx, requestId uuid.UUID, approved bool, muted bool, reason *string, updateDatetime time.Time) error {
	query := "UPDATE membership_requests SET resolved = true, approved = $1, muted = $2, reason = $3, update_datetime = $4 WHERE id = $5"

	_, err := tx.Exec(ctx, query, approved, muted, reason, updateDatetime, requestId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *MembershipRepository) InsertReview(ctx context.Context, tx pgx.Tx, review model.MembershipReview) error {
	query := "INSERT INTO membership_reviews (id, request_id, user_id, reviewer_id, approved, muted, reason, message, create_datetime) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)"

	_, err := tx.Exec(ctx, query, review.Id, review.RequestId, review.UserId, review.ReviewerId, review.Approved, review.Muted, review.Reason, review.Message, review.CreateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *MembershipRepository) ListReviews(ctx context.Context, requestId uuid.UUID) ([]model.MembershipReview, error) {
	query := "SELECT id,request_id,user_id,reviewer_id,approved,muted,reason,message,create_datetime FROM membership_reviews WHERE request_id=$1 ORDER BY create_datetime DESC"

	rows, err := repository.DB.Query(ctx, query, requestId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []model.MembershipReview{}
	for rows.Next() {
		review := model.MembershipReview{}
		err := rows.Scan(&review.Id, &review.RequestId, &review.UserId, &review.ReviewerId, &review.Approved, &review.Muted, &review.Reason, &review.Message, &review.CreateDatetime)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

// tab predicates over (resolved, approved)
const (
	tabPendingWhere  = "B.resolved = false"
	tabApprovedWhere = "B.resolved = true AND B.approved = true"
	tabRejectedWhere = "B.resolved = true AND B.approved = false"
)

// SearchRequests pages through the admin review queue. The tab selects a
// lifecycle slice, field and term narrow by requester identity.
func (repository *MembershipRepository) SearchRequests(ctx context.Context, search model.MembershipSearchQuery) ([]model.MembershipRequestListItem, int, error) {
	var tabWhere string
	switch search.Tab {
	case model.MembershipTabApproved:
		tabWhere = tabApprovedWhere
	case model.MembershipTabRejected:
		tabWhere = tabRejectedWhere
	default:
		tabWhere = tabPendingWhere
	}

	args := []interface{}{}
	termWhere := ""
	if search.Term != "" {
		column := "A.fullname"
		if search.Field == model.MembershipSearchFieldEmail {
			column = "A.email"
		}
		args = append(args, "%"+search.Term+"%")
		termWhere = fmt.Sprintf(" AND %s ILIKE $%d", column, len(args))
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*)
			FROM users A
			JOIN membership_requests B ON A.id = B.user_id
			WHERE %s%s`, tabWhere, termWhere)

	var total int
	err := repository.DB.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (search.Page - 1) * search.Limit
	args = append(args, search.Limit, offset)
	listQuery := fmt.Sprintf(`SELECT B.id,A.id,A.fullname,A.email,A.membership,B.message,B.resolved,B.approved,B.reason,B.muted,B.update_datetime
			FROM users A
			JOIN membership_requests B ON A.id = B.user_id
			WHERE %s%s
			ORDER BY B.update_datetime DESC
			LIMIT $%d OFFSET $%d`, tabWhere, termWhere, len(args)-1, len(args))

	rows, err := repository.DB.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []model.MembershipRequestListItem{}
	for rows.Next() {
		item := model.MembershipRequestListItem{}
		err := rows.Scan(&item.RequestId, &item.UserId, &item.Fullname, &item.Email, &item.Membership, &item.Message, &item.Resolved, &item.Approved, &item.Reason, &item.Muted, &item.UpdateDatetime)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
