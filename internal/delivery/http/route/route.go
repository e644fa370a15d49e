package route

import (
	"github.com/congregateapp/congregate/internal/delivery/http"
	"github.com/congregateapp/congregate/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RouteConfig struct {
	App                  *fiber.App
	Log                  *zap.Logger
	AuthMiddleware       *middleware.AuthMiddleware
	UserController       *http.UserController
	MembershipController *http.MembershipController
	EventController      *http.EventController
	SermonController     *http.SermonController
	FinanceController    *http.FinanceController
	PageController       *http.PageController
}

func (c *RouteConfig) SetupRoute() {
	api := c.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := api.Group("/auth", middleware.SetupAuthRateLimiter(c.Log))
	authGroup.Post("/register", c.UserController.Register)
	authGroup.Post("/login", c.UserController.Login)

	userGroup := api.Group("/users", c.AuthMiddleware.ProtectedRoute())
	userGroup.Get("/me", c.UserController.GetUserInfo)
	userGroup.Post("/logout", c.UserController.Logout)

	membershipGroup := api.Group("/membership", c.AuthMiddleware.ProtectedRoute())
	membershipGroup.Get("/card", c.MembershipController.GetCard)
	membershipGroup.Post("/requests", c.MembershipController.Submit)
	membershipGroup.Get("/requests", c.MembershipController.Search)
	membershipGroup.Post("/requests/:requestId/review", c.MembershipController.Review)
	membershipGroup.Get("/requests/:requestId/reviews", c.MembershipController.GetReviewHistory)

	eventGroup := api.Group("/events", c.AuthMiddleware.ProtectedRoute())
	eventGroup.Get("/upcoming", c.EventController.ListUpcoming)
	eventGroup.Get("/series", c.EventController.ListSeries)
	eventGroup.Post("/series", c.EventController.CreateSeries)
	eventGroup.Put("/series/:seriesId", c.EventController.UpdateSeries)
	eventGroup.Delete("/series/:seriesId", c.EventController.DeleteSeries)
	eventGroup.Patch("/instances/:instanceId", c.EventController.OverrideInstance)
	eventGroup.Post("/instances/:instanceId/registrations", c.EventController.Register)
	eventGroup.Delete("/instances/:instanceId/registrations", c.EventController.CancelRegistration)

	// Sermon and site reads are public, only the writes sit behind auth.
	api.Get("/sermons", c.SermonController.List)
	api.Get("/sermons/:sermonId", c.SermonController.Get)

	sermonGroup := api.Group("/sermons", c.AuthMiddleware.ProtectedRoute(), c.AuthMiddleware.AdminRoute())
	sermonGroup.Post("/", c.SermonController.Create)
	sermonGroup.Put("/:sermonId", c.SermonController.Update)
	sermonGroup.Delete("/:sermonId", c.SermonController.Delete)
	sermonGroup.Put("/:sermonId/thumbnail", c.SermonController.UploadThumbnail)

	financeGroup := api.Group("/finance", c.AuthMiddleware.ProtectedRoute(), c.AuthMiddleware.AdminRoute())
	financeGroup.Post("/donations", c.FinanceController.RecordDonation)
	financeGroup.Get("/donations/:donationId/refunds", c.FinanceController.ListRefunds)
	financeGroup.Post("/refunds", c.FinanceController.RequestRefund)
	financeGroup.Post("/refunds/:refundId/process", c.FinanceController.ProcessRefund)
	financeGroup.Get("/report", c.FinanceController.GetReport)

	api.Get("/site/pages", c.PageController.ListPages)
	api.Get("/site/pages/:slug", c.PageController.GetPage)
	api.Get("/site/fragments/:name", c.PageController.GetFragment)

	siteGroup := api.Group("/site", c.AuthMiddleware.ProtectedRoute(), c.AuthMiddleware.AdminRoute())
	siteGroup.Post("/pages", c.PageController.SavePage)
	siteGroup.Delete("/pages/:slug", c.PageController.DeletePage)
	siteGroup.Put("/fragments/:name", c.PageController.SaveFragment)
}
