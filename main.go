// File: maideasy/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maideasy/config"
	"maideasy/cron"
	"maideasy/database"
	"maideasy/database/repository"
	"maideasy/handlers"
	"maideasy/middleware"
	"maideasy/routes"
	"maideasy/services/booking"
	"maideasy/services/catalog"
	"maideasy/services/notification"
	"maideasy/services/storage"
	"maideasy/services/tasks"
	"maideasy/services/tracking"
	"maideasy/services/user"
	"maideasy/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

const catalogCacheTTL = 10 * time.Minute

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	database.InitDB()
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := repository.NewMongoUserRepository()
	provRepo := repository.NewMongoProviderRepo()
	servRepo := repository.NewMongoServiceRepo()
	bookRepo := repository.NewMongoBookingRepo()

	notifier := newNotifier(logger, userRepo)

	var mediaStorage storage.StorageService
	if cld, err := utils.Cloudinary(); err != nil {
		logger.Warn("main: avatar uploads disabled", zap.Error(err))
	} else {
		mediaStorage = storage.NewStorageService(cld, logger)
	}

	// reminders.
	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	defer queueClient.Close()
	reminderLead := time.Duration(config.AppConfig.ReminderLeadMin) * time.Minute
	queueInspector := asynq.NewInspector(cron.QueueRedisOpt())
	defer queueInspector.Close()
	reminders := tasks.NewReminderScheduler(queueClient, reminderLead, logger)
	reminders.Tasks = queueInspector
	worker := cron.InitReminderWorker(notifier, bookRepo, logger)

	// services.
	userService := &user.DefaultUserService{
		Repo:      userRepo,
		OTPCache:  utils.GetOTPCacheClient(),
		AuthCache: utils.GetAuthCacheClient(),
		Storage:   mediaStorage,
		Sender:    user.LogOTPSender{Logger: logger},
		DemoMode:  config.AppConfig.OTPDemoMode,
		Logger:    logger,
	}
	if userService.DemoMode {
		logger.Warn("main: OTP demo mode is on, the static code is accepted for every account")
	}

	catalogService := &catalog.DefaultCatalogService{
		ServiceRepo:  servRepo,
		ProviderRepo: provRepo,
		Cache:        catalog.NewRedisListingCache(utils.GetCacheClient(), catalogCacheTTL),
		Logger:       logger,
	}

	sessionTTL := time.Duration(config.AppConfig.BookingSessionTTLMin) * time.Minute
	bookingService := &booking.DefaultBookingSessionService{
		Sessions:          booking.NewRedisSessionStore(utils.GetCacheClient(), sessionTTL),
		Catalog:           catalogService,
		Bookings:          bookRepo,
		Payments:          booking.NewPaymentHandler(logger, notifier, config.AppConfig.StripeKey != ""),
		Notifier:          notifier,
		Reminders:         reminders,
		Logger:            logger,
		OptimisticSuccess: config.AppConfig.OptimisticSuccess,
	}

	registry := tracking.NewRegistry(
		tracking.RealClock(),
		time.Duration(config.AppConfig.TrackingMinTickMs)*time.Millisecond,
		time.Duration(config.AppConfig.TrackingMaxTickMs)*time.Millisecond,
		notifier,
		logger,
	)
	registry.Retention = time.Duration(config.AppConfig.TrackingRetentionMin) * time.Minute
	registry.MaxPerUser = config.AppConfig.TrackingMaxPerUser

	// health.
	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	checkCtx, cancelCheck := context.WithTimeout(healthCtx, 5*time.Second)
	utils.CheckHealth(checkCtx, utils.RedisClients(), database.MongoClient)
	cancelCheck()
	utils.StartHealthMonitor(healthCtx, 30*time.Second, utils.RedisClients(), database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	handlerBundle := &handlers.HandlerBundle{
		Sessions: userService,
		Auth:     handlers.NewAuthHandler(userService),
		Profile:  handlers.NewProfileHandler(userService),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Booking:  handlers.NewBookingHandler(bookingService, bookingService),
		Tracking: handlers.NewTrackingHandler(registry, bookingService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	registry.Shutdown()
	worker.Shutdown()
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to close MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newNotifier uses Firebase Cloud Messaging when credentials are configured
// and falls back to logging notifications.
func newNotifier(logger *zap.Logger, users notification.UserLookup) notification.Notifier {
	if config.AppConfig.FirebaseCredentialsPath == "" {
		return notification.LogNotifier{Logger: logger}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := utils.FirebaseMessaging(ctx)
	if err != nil {
		logger.Warn("main: push notifications disabled", zap.Error(err))
		return notification.LogNotifier{Logger: logger}
	}
	return notification.NewFCMNotifier(client, users, logger)
}
