package config

import (
	"github.com/congregateapp/congregate/internal/cron"
	http "github.com/congregateapp/congregate/internal/delivery/http"
	"github.com/congregateapp/congregate/internal/delivery/http/middleware"
	"github.com/congregateapp/congregate/internal/delivery/http/route"
	"github.com/congregateapp/congregate/internal/repository"
	"github.com/congregateapp/congregate/internal/usecase"
	"github.com/minio/minio-go/v7"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router  *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Log     *zap.Logger
	Config  *koanf.Koanf
	MinIO   *minio.Client
}

func Server(config *ServerConfig) *cron.Scheduler {
	userRepository := repository.NewUserRepository(config.Log, config.DB, config.DBCache)
	userUsecase := usecase.NewUserUsecase(userRepository, config.DB, config.Log, config.Config)
	userController := http.NewUserController(userUsecase, config.Log, config.Config)

	membershipRepository := repository.NewMembershipRepository(config.Log, config.DB)
	membershipUsecase := usecase.NewMembershipUsecase(membershipRepository, userRepository, config.DB, config.Log, config.Config)
	membershipController := http.NewMembershipController(membershipUsecase, config.Log, config.Config)

	eventRepository := repository.NewEventRepository(config.Log, config.DB)
	eventUsecase := usecase.NewEventUsecase(eventRepository, userRepository, config.DB, config.Log, config.Config)
	eventController := http.NewEventController(eventUsecase, config.Log, config.Config)

	sermonRepository := repository.NewSermonRepository(config.Log, config.DB, config.MinIO)
	sermonUsecase := usecase.NewSermonUsecase(sermonRepository, userRepository, config.DB, config.Log, config.Config)
	sermonController := http.NewSermonController(sermonUsecase, config.Log, config.Config)

	financeRepository := repository.NewFinanceRepository(config.Log, config.DB)
	financeUsecase := usecase.NewFinanceUsecase(financeRepository, userRepository, config.DB, config.Log, config.Config)
	financeController := http.NewFinanceController(financeUsecase, config.Log, config.Config)

	pageRepository := repository.NewPageRepository(config.Log, config.DB)
	pageUsecase := usecase.NewPageUsecase(pageRepository, userRepository, config.DB, config.Log, config.Config)
	pageController := http.NewPageController(pageUsecase, config.Log, config.Config)

	authMiddleware := middleware.NewAuthMiddleware(config.Router, config.Log, config.Config, userUsecase)

	routeConfig := route.RouteConfig{
		App:                  config.Router,
		Log:                  config.Log,
		AuthMiddleware:       authMiddleware,
		UserController:       userController,
		MembershipController: membershipController,
		EventController:      eventController,
		SermonController:     sermonController,
		FinanceController:    financeController,
		PageController:       pageController,
	}

	routeConfig.SetupRoute()

	return cron.NewScheduler(eventUsecase, config.Log)
}
