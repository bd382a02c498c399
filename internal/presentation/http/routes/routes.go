package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rosedale/studio-api/internal/config"
	"github.com/rosedale/studio-api/internal/presentation/http/handler"
	"github.com/rosedale/studio-api/internal/presentation/http/middleware"
	"github.com/rosedale/studio-api/pkg/promocode"
	"github.com/rosedale/studio-api/pkg/ratelimit"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	CustomerWebhook *handler.CustomerWebhookHandler
	OrderWebhook    *handler.OrderWebhookHandler
	CodeGenerator   *handler.CodeGeneratorHandler
	Campfire        *handler.CampfireHandler
	Appointment     *handler.AppointmentHandler
	Health          *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	// NewLimiter builds one independent limiter per endpoint group so a
	// burst on one webhook cannot starve the others.
	NewLimiter func(requests int, window time.Duration) ratelimit.Limiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/healthcheck", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerCustomerWebhooks(router, h, deps)
	registerOrderWebhooks(router, h, deps)
	registerCampfireWebhook(router, h, deps)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyMiddleware(deps.Cfg.Integrations.APIKey))
	{
		registerCodeGeneratorRoutes(v1, h, deps)
		registerAppointmentRoutes(v1, h)
	}

	return router
}

func registerCustomerWebhooks(router *gin.Engine, h *Handlers, deps *Deps) {
	customers := router.Group("/customers/new")
	{
		latepoint := customers.Group("")
		latepoint.Use(middleware.IPAllowlistMiddleware(deps.Cfg.Integrations.LatepointAllowlist))
		latepoint.Use(middleware.RateLimitMiddleware(deps.NewLimiter(20, time.Minute)))
		latepoint.POST("/latepoint", h.CustomerWebhook.NewLatepoint)

		square := customers.Group("")
		square.Use(middleware.IPAllowlistMiddleware(deps.Cfg.Integrations.SquareAllowlist))
		square.Use(middleware.SignatureMiddleware(deps.Cfg.Integrations.SquareSignatureKey))
		square.Use(middleware.RateLimitMiddleware(deps.NewLimiter(15, time.Minute)))
		square.POST("/square", h.CustomerWebhook.NewSquare)
	}
}

func registerOrderWebhooks(router *gin.Engine, h *Handlers, deps *Deps) {
	orders := router.Group("/webhooks/orders")
	orders.Use(middleware.RateLimitMiddleware(deps.NewLimiter(deps.Cfg.RateLimit.Requests, time.Duration(deps.Cfg.RateLimit.Duration)*time.Second)))
	{
		orders.POST("/new", h.OrderWebhook.New)
	}
}

func registerCampfireWebhook(router *gin.Engine, h *Handlers, deps *Deps) {
	campfire := router.Group("/webhooks/campfire")
	campfire.Use(middleware.RateLimitMiddleware(deps.NewLimiter(20, time.Minute)))
	{
		campfire.POST("/:token", h.Campfire.Handle)
	}
}

func registerCodeGeneratorRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	generate := v1.Group("/code-generator/generate")
	generate.Use(middleware.RateLimitMiddleware(deps.NewLimiter(10, time.Minute)))
	{
		generate.GET("/unlimited", h.CodeGenerator.Generate(promocode.KindUnlimited))
		generate.GET("/school-code", h.CodeGenerator.Generate(promocode.KindSchool))
		generate.GET("/referral-code", h.CodeGenerator.Generate(promocode.KindReferral))
		generate.GET("/guest-pass", h.CodeGenerator.Generate(promocode.KindGuest))
		generate.GET("/gift-card", h.CodeGenerator.Generate(promocode.KindGift))
		generate.GET("/gift-card/bulk", h.CodeGenerator.Generate(promocode.KindBulk))
		generate.GET("/personal-code", h.CodeGenerator.Generate(promocode.KindPersonal))
	}
}

func registerAppointmentRoutes(v1 *gin.RouterGroup, h *Handlers) {
	appointments := v1.Group("/appointments")
	{
		appointments.POST("/new", h.Appointment.New)
		appointments.GET("/upcoming", h.Appointment.Upcoming)
	}
}
