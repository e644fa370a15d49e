package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/util"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type UserRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewUserRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *UserRepository {
	return &UserRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

// Postgresql
func (repository *UserRepository) Register(ctx context.Context, user model.User) error {
	query := "INSERT INTO users (id, fullname, email, password, membership, admin, permissions_management, create_datetime, update_datetime) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)"

	_, err := repository.DB.Exec(ctx, query, user.Id, user.Fullname, user.Email, user.Password, user.Membership, user.Admin, user.PermissionsManagement, user.CreateDatetime, user.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) CheckEmailUnique(ctx context.Context, email string) (int, error) {
	query := "SELECT 1 FROM users WHERE email=$1 LIMIT 1"

	var exists int
	err := repository.DB.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}
		return exists, err
	}

	return exists, nil
}

func (repository *UserRepository) GetUserAuth(ctx context.Context, email string) (uuid.UUID, string, error) {
	query := "SELECT id,password FROM users WHERE email=$1 LIMIT 1"

	var id uuid.UUID
	var passwordHash string

	err := repository.DB.QueryRow(ctx, query, email).Scan(&id, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return id, passwordHash, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Email is not found",
				Param:   "email",
			}
		}
		return id, passwordHash, err
	}

	return id, passwordHash, nil
}

func (repository *UserRepository) GetUserInfo(ctx context.Context, id uuid.UUID) (model.UserResponse, error) {
	query := `SELECT id,fullname,email,membership,admin,permissions_management,create_datetime,update_datetime
			FROM users
			WHERE id=$1
			LIMIT 1`

	user := model.UserResponse{}
	err := repository.DB.QueryRow(ctx, query, id).Scan(&user.Id, &user.Fullname, &user.Email, &user.Membership, &user.Admin, &user.PermissionsManagement, &user.CreateDatetime, &user.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "userId",
			}
		}
		return user, err
	}

	return user, nil
}

func (repository *UserRepository) GetUserCapabilities(ctx context.Context, id uuid.UUID) (model.UserCapabilities, error) {
	query := "SELECT admin,permissions_management FROM users WHERE id=$1 LIMIT 1"

	capabilities := model.UserCapabilities{}
	err := repository.DB.QueryRow(ctx, query, id).Scan(&capabilities.Admin, &capabilities.PermissionsManagement)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return capabilities, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "userId",
			}
		}
		return capabilities, err
	}

	return capabilities, nil
}

func (repository *UserRepository) GetUserContact(ctx context.Context, id uuid.UUID) (string, string, error) {
	query := "SELECT fullname,email FROM users WHERE id=$1 LIMIT 1"

	var fullname string
	var email string
	err := repository.DB.QueryRow(ctx, query, id).Scan(&fullname, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fullname, email, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "userId",
			}
		}
		return fullname, email, err
	}

	return fullname, email, nil
}

func (repository *UserRepository) GetMembershipFlag(ctx context.Context, id uuid.UUID) (bool, error) {
	query := "SELECT membership FROM users WHERE id=$1 LIMIT 1"

	var membership bool
	err := repository.DB.QueryRow(ctx, query, id).Scan(&membership)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return membership, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "User not found",
				Param:   "userId",
			}
		}
		return membership, err
	}

	return membership, nil
}

func (repository *UserRepository) SetMembership(ctx context.Context, tx pgx.Tx, userId uuid.UUID, membership bool, updateDatetime time.Time) error {
	query := "UPDATE users SET membership = $1, update_datetime = $2 WHERE id = $3"

	_, err := tx.Exec(ctx, query, membership, updateDatetime, userId)
	if err != nil {
		return err
	}

	return nil
}

// Redis - Cache
func (repository *UserRepository) SetAuthTokenInCache(ctx context.Context, accessToken string, refreeshToken string, userId uuid.UUID) error {
	accessTokenKey := fmt.Sprintf("auth:acccessToken:%s", userId)
	refreshTokenKey := fmt.Sprintf("auth:refreshToken:%s", userId)

	// Hash tokens before storing in Redis for security
	hashedAccessToken := util.HashToken(accessToken)
	hashedRefreshToken := util.HashToken(refreeshToken)

	err := repository.DBCache.Set(ctx, accessTokenKey, hashedAccessToken, 15*time.Minute).Err()
	if err != nil {
		return err
	}

	err = repository.DBCache.Set(ctx, refreshTokenKey, hashedRefreshToken, 15*time.Minute).Err()
	if err != nil {
		return err
	}

	return nil
}

func (repository *UserRepository) GetAccessTokenInCache(ctx context.Context, userId uuid.UUID) (string, error) {
	accessTokenKey := fmt.Sprintf("auth:acccessToken:%s", userId)
	hashedToken, err := repository.DBCache.Get(ctx, accessTokenKey).Result()
	if err == redis.Nil {
		return hashedToken, &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Authorization token not found or expired",
			Param:   "accessToken",
		}
	} else if err != nil {
		return hashedToken, err
	}

	return hashedToken, nil
}

func (repository *UserRepository) RemoveAuthToken(ctx context.Context, userId uuid.UUID) error {
	accessTokenKey := fmt.Sprintf("auth:acccessToken:%s", userId)
	refreshTokenKey := fmt.Sprintf("auth:refreshToken:%s", userId)

	err := repository.DBCache.Del(ctx, accessTokenKey).Err()
	if err != nil {
		return err
	}

	err = repository.DBCache.Del(ctx, refreshTokenKey).Err()
	if err != nil {
		return err
	}

	return nil
}
