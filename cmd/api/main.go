package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/rosedale/studio-api/internal/application/service"
	"github.com/rosedale/studio-api/internal/config"
	"github.com/rosedale/studio-api/internal/infrastructure/database"
	"github.com/rosedale/studio-api/internal/infrastructure/repository"
	"github.com/rosedale/studio-api/internal/presentation/http/handler"
	"github.com/rosedale/studio-api/internal/presentation/http/routes"
	"github.com/rosedale/studio-api/pkg/campfire"
	"github.com/rosedale/studio-api/pkg/convertkit"
	"github.com/rosedale/studio-api/pkg/genderapi"
	"github.com/rosedale/studio-api/pkg/monitoring"
	"github.com/rosedale/studio-api/pkg/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize error reporting
	if err := monitoring.Init(cfg.SentryDSN, cfg.App.Env, cfg.App.Debug); err != nil {
		log.Printf("Warning: Failed to initialize error reporting: %v", err)
	}
	defer monitoring.Flush()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize integration clients
	chatClient := campfire.NewClient(campfire.Config{
		StudioURL: cfg.Integrations.CampfireStudioURL,
		AlertURL:  cfg.Integrations.CampfireAlertURL,
		BotURL:    cfg.Integrations.CampfireBotURL,
	})
	mailingList := convertkit.NewClient(cfg.Integrations.ConvertKitAPIKey)
	genderClient := genderapi.NewClient(cfg.Integrations.GenderAPIKey)
	monitor := monitoring.NewMonitor(chatClient, cfg.IsProduction())

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	itemRepo := repository.NewItemRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	// Initialize services
	normalizer := service.NewNormalizer(genderClient)
	customerService := service.NewCustomerService(customerRepo, cfg.CompanyDomain)
	orderService := service.NewOrderService(orderRepo, itemRepo, customerService)
	appointmentService := service.NewAppointmentService(appointmentRepo)
	notificationService := service.NewNotificationService(
		chatClient,
		mailingList,
		cfg.Integrations.ConvertKitFormID,
		cfg.IsProduction(),
	)

	// Rate limiter backend: Redis when configured, per-instance otherwise
	newLimiter := func(requests int, window time.Duration) ratelimit.Limiter {
		return ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: requests, Window: window})
	}
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		newLimiter = func(requests int, window time.Duration) ratelimit.Limiter {
			return ratelimit.NewRedisLimiter(redisClient, ratelimit.Config{Requests: requests, Window: window})
		}
	}

	// The chat bot calls the code generator over HTTP like any other
	// internal client
	codegenBaseURL := "http://localhost:" + cfg.App.Port + "/api/v1/code-generator/generate"
	if cfg.IsProduction() {
		codegenBaseURL = "https://app.rosedalemassage.co.uk/api/v1/code-generator/generate"
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		CustomerWebhook: handler.NewCustomerWebhookHandler(customerService, normalizer, notificationService, monitor, cfg.PhonePrefix),
		OrderWebhook:    handler.NewOrderWebhookHandler(orderService, monitor),
		CodeGenerator:   handler.NewCodeGeneratorHandler(),
		Campfire:        handler.NewCampfireHandler(chatClient, monitor, cfg.Integrations.CampfireWebhookToken, cfg.Integrations.APIKey, codegenBaseURL),
		Appointment:     handler.NewAppointmentHandler(appointmentService),
		Health:          handler.NewHealthHandler(db),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:        cfg,
		NewLimiter: newLimiter,
	})

	log.Printf("Starting %s on port %s (env: %s)", cfg.App.Name, cfg.App.Port, cfg.App.Env)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
