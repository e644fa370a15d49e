package middleware

import (
	"errors"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/usecase"
	"github.com/congregateapp/congregate/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	App         *fiber.App
	Log         *zap.Logger
	Config      *koanf.Koanf
	UserUsecase *usecase.UserUsecase
}

func NewAuthMiddleware(app *fiber.App, zap *zap.Logger, koanf *koanf.Koanf, userUsecase *usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		App:         app,
		Log:         zap,
		Config:      koanf,
		UserUsecase: userUsecase,
	}
}

func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var validationErr *model.ValidationError

		accessToken := ctx.Get("Authorization")
		tokenString, userId, err := util.ValidateAccessToken(accessToken, middleware.Log, middleware.Config.String("JWT_SECRET_KEY"))
		if err != nil {
			if errors.As(err, &validationErr) {
				return util.SendErrorResponseUnauthorized(ctx, err)
			}

			return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
		}

		err = middleware.UserUsecase.GetAccessToken(ctx, userId, tokenString)
		if err != nil {
			if errors.As(err, &validationErr) {
				return util.SendErrorResponseNotFound(ctx, err)
			}

			return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
		}

		ctx.Locals("userId", userId)

		middleware.Log.Debug("middleware here", zap.String("userId", userId.String()))

		return ctx.Next()
	}
}

// AdminRoute gates a route on the admin capability. It assumes
// ProtectedRoute already ran and stored the user id. Usecases still
// re-check capabilities themselves.
func (middleware *AuthMiddleware) AdminRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var validationErr *model.ValidationError

		userId := ctx.Locals("userId").(uuid.UUID)

		capabilities, err := middleware.UserUsecase.GetCapabilities(ctx, userId)
		if err != nil {
			if errors.As(err, &validationErr) {
				return util.SendErrorResponseForbidden(ctx, err)
			}

			return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
		}

		if !capabilities.Admin {
			return util.SendErrorResponseForbidden(ctx, &model.ValidationError{
				Code:    constant.ERR_FORBIDDEN_ERROR,
				Message: "You are not allowed to access this resource",
				Param:   "userId",
			})
		}

		return ctx.Next()
	}
}
