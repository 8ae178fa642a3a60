package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/pkg/config"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	corsmiddleware "github.com/mentorlink/mentorlink-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mentorlink/mentorlink-api/pkg/middleware/requestid"
)

// RouterDeps carries everything the HTTP surface needs. Export and
// Notifications may be nil when the matching feature flag is off.
type RouterDeps struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *service.MetricsService
	Requests      *MentorshipRequestHandler
	Mentors       *MentorHandler
	Users         *UserHandler
	Notifications *NotificationHandler
	Export        *ExportHandler

	// Readiness reports whether downstream dependencies are reachable.
	Readiness func(ctx context.Context) error
}

// NewRouter assembles the gin engine with all middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if deps.Readiness != nil {
			if err := deps.Readiness(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT))

	requests := api.Group("/requests")
	{
		requests.POST("", middleware.RequireMentee(), deps.Requests.Create)
		requests.GET("/mine", middleware.RequireMentee(), deps.Requests.ListMine)
		requests.GET("/mine/watch", middleware.RequireMentee(), deps.Requests.WatchMine)
		requests.GET("/feed", middleware.RequireMentee(), deps.Requests.WatchFeed)
		requests.GET("/outstanding", middleware.RequireMentee(), deps.Requests.Outstanding)
		requests.GET("/calendar-access", middleware.RequireMentee(), deps.Requests.CalendarAccess)
		requests.GET("/calendar-access/watch", middleware.RequireMentee(), deps.Requests.WatchCalendarAccess)
		requests.GET("/:id", deps.Requests.Get)
		requests.GET("/:id/watch", deps.Requests.Watch)
		requests.POST("/:id/approve", middleware.RequireMentor(), deps.Requests.Approve)
		requests.POST("/:id/reject", middleware.RequireMentor(), deps.Requests.Reject)
		requests.POST("/:id/complete", middleware.RequireMentor(), deps.Requests.Complete)
		requests.PUT("/:id/booking-url", deps.Requests.SaveBookingURL)
	}

	mentor := api.Group("/mentor", middleware.RequireMentor())
	{
		mentor.GET("/requests", deps.Requests.ListForMentor)
		mentor.GET("/requests/watch", deps.Requests.WatchForMentor)
		if deps.Export != nil {
			mentor.GET("/requests/export", deps.Export.RequestHistory)
			mentor.GET("/requests/export/download", deps.Export.Download)
		}
	}

	mentors := api.Group("/mentors")
	{
		mentors.GET("", deps.Mentors.List)
		mentors.GET("/scroll", deps.Mentors.Scroll)
		mentors.GET("/watch", deps.Mentors.Watch)
	}

	users := api.Group("/users")
	{
		users.GET("/me", deps.Users.Me)
		users.PUT("/me", deps.Users.Update)
		users.POST("/me/calendar", middleware.RequireMentor(), deps.Users.LinkCalendar)
		users.GET("/:id", deps.Users.Get)
		users.GET("/:id/watch", deps.Users.Watch)
	}

	if deps.Notifications != nil {
		api.GET("/notifications", deps.Notifications.List)
	}

	return r
}
