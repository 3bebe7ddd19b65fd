package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"portal/config"
	"portal/database"
	"portal/logger"
	"portal/metrics"
	"portal/middleware"
	"portal/notifications"
	adminRoutes "portal/routers/adminRoutes"
	applicationRoutes "portal/routers/applicationRoutes"
	authRoutes "portal/routers/authRoutes"
	newsletterRoutes "portal/routers/newsletterRoutes"
	opportunityRoutes "portal/routers/opportunityRoutes"
	profileRoutes "portal/routers/profileRoutes"
	uploadRoutes "portal/routers/uploadRoutes"
	userRoutes "portal/routers/userRoutes"
	"portal/services"
	"portal/storage"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Setup(cfg.LogLevel)

	db := database.ConnectDb(cfg)

	bus := EventBus.New()
	mailer := notifications.NewMailer(cfg.SendgridApiKey, cfg.EmailSender, cfg.EmailSenderName)
	dispatcher, err := notifications.NewDispatcher(bus, mailer)
	if err != nil {
		log.Fatalf("Failed to subscribe email notifications: %v", err)
	}
	store := storage.NewClient(cfg.StorageBaseURL, cfg.StorageBucket, cfg.StorageToken)

	svc := services.New(db, cfg, bus, mailer, store)
	scheduler, err := svc.StartScheduler(cfg.ReconcileCron, cfg.ReminderCron)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	app := newApp(cfg, svc)

	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	<-scheduler.Stop().Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}
	dispatcher.Wait()
	log.Info("Server exited")
}

// newApp builds the HTTP server with every route registered.
func newApp(cfg *config.Config, svc *services.Services) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(middleware.Metrics)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Server is running", fiber.Map{
			"timestamp": time.Now().UTC(),
		})
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	authRoutes.SetupAuthRoutes(api, svc, limiter)
	opportunityRoutes.SetupOpportunityRoutes(api, svc)
	applicationRoutes.SetupApplicationRoutes(api, svc, limiter)
	userRoutes.SetupUserRoutes(api, svc)
	profileRoutes.SetupProfileRoutes(api, svc)
	uploadRoutes.SetupUploadRoutes(api, svc)
	newsletterRoutes.SetupNewsletterRoutes(api, svc, limiter)
	adminRoutes.SetupAdminRoutes(api, svc)
	return app
}
