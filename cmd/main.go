package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelBookingHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/cancel_booking"
	createAvailabilityRuleHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/create_availability_rule"
	createBookingHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/create_booking"
	deleteAvailabilityRuleHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/delete_availability_rule"
	getAvailableSlotsHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/get_booking"
	getTenantBookingsHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/get_tenant_bookings"
	getTenantSettingsHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/get_tenant_settings"
	getWidgetHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/get_widget"
	listAvailabilityHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/list_availability"
	updateBookingStatusHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/update_booking_status"
	updateTenantSettingsHandler "github.com/m04kA/SMC-EmbedBooking/internal/api/handlers/update_tenant_settings"
	"github.com/m04kA/SMC-EmbedBooking/internal/api/middleware"
	"github.com/m04kA/SMC-EmbedBooking/internal/config"
	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/infra/cache"
	availabilityRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/booking"
	tenantRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/integrations/notifier"
	availabilityService "github.com/m04kA/SMC-EmbedBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-EmbedBooking/internal/service/bookings"
	tenantService "github.com/m04kA/SMC-EmbedBooking/internal/service/tenant"
	createBookingUC "github.com/m04kA/SMC-EmbedBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-EmbedBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
	"github.com/m04kA/SMC-EmbedBooking/pkg/metrics"
	"github.com/m04kA/SMC-EmbedBooking/pkg/tracing"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
)

// slotCache общий кэш слотов: Redis или Nop
type slotCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, date string) ([]domain.TimeSlot, bool, error)
	Generation(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Set(ctx context.Context, tenantID uuid.UUID, date string, generation int64, slots []domain.TimeSlot) (bool, error)
	Invalidate(ctx context.Context, tenantID uuid.UUID, date string) error
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("EMBED_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-EmbedBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Трейсинг (при выключенном настраиваются только propagators)
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to setup tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Метрики. nil-коллектор безопасен: все методы становятся no-op
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis: кэш слотов и rate limit виджета
	var (
		rdb       *redis.Client
		slots     slotCache = cache.Nop{}
		rateLimit *middleware.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// кэш и rate limit работают в режиме деградации
			log.Warn("Redis ping failed (addr=%s): %v", cfg.Redis.Addr, err)
		}
		cancel()

		if cfg.Slots.CacheTTL() > 0 {
			slots = cache.NewSlotCache(rdb, cfg.Slots.CacheTTL())
			log.Info("Slot cache enabled (ttl=%s)", cfg.Slots.CacheTTL())
		}
		if cfg.RateLimit.Enabled {
			rateLimit, err = middleware.NewRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.RateLimit.TrustedProxies, log)
			if err != nil {
				log.Fatal("Failed to init rate limiter: %v", err)
			}
			log.Info("Widget rate limit enabled (%d req / %s)", cfg.RateLimit.Limit, cfg.RateLimit.Window())
		}
	} else {
		log.Warn("Redis is not configured: slot cache and rate limit disabled")
	}

	// Уведомления
	var publisher notifier.Publisher
	switch cfg.Notifier.Driver {
	case "kafka":
		publisher = notifier.NewKafkaPublisher(cfg.Notifier.KafkaBrokers, cfg.Notifier.KafkaTopic)
	case "amqp":
		amqpPublisher, err := notifier.NewAMQPPublisher(cfg.Notifier.AMQPURL, cfg.Notifier.AMQPExchange)
		if err != nil {
			log.Fatal("Failed to connect to AMQP broker: %v", err)
		}
		publisher = amqpPublisher
	default:
		publisher = notifier.NewLogPublisher(log)
	}
	dispatcher := notifier.NewDispatcher(publisher, log, metricsCollector, cfg.Notifier.Timeout())
	log.Info("Notifier initialized (driver=%s)", cfg.Notifier.Driver)

	// Репозитории
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	// Сервисы
	tenantSvc := tenantService.NewService(tenantRepository, slots, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, tenantRepository, txMgr, slots, log)
	bookingSvc := bookingsService.NewService(bookingRepository, tenantRepository, txMgr, slots, dispatcher, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		tenantRepository,
		availabilityRepository,
		bookingRepository,
		slots,
		metricsCollector,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		tenantRepository,
		availabilityRepository,
		bookingRepository,
		txMgr,
		slots,
		dispatcher,
		metricsCollector,
		log,
	)

	// Handlers
	getWidget := getWidgetHandler.NewHandler(tenantSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getTenantSettings := getTenantSettingsHandler.NewHandler(tenantSvc, log)
	updateTenantSettings := updateTenantSettingsHandler.NewHandler(tenantSvc, log)
	listAvailability := listAvailabilityHandler.NewHandler(availabilitySvc, log)
	createAvailabilityRule := createAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	deleteAvailabilityRule := deleteAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	getTenantBookings := getTenantBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestTimeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	// ============================================================
	// PUBLIC WIDGET ROUTES (CORS + rate limit, без аутентификации)
	// ============================================================

	embeds := api.PathPrefix("/embeds/{tenantId}").Subrouter()
	embeds.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if rateLimit != nil {
		embeds.Use(rateLimit.Middleware())
	}

	// OPTIONS нужен, чтобы preflight дошел до CORS middleware
	embeds.HandleFunc("", getWidget.Handle).Methods(http.MethodGet, http.MethodOptions)
	embeds.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet, http.MethodOptions)
	embeds.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost, http.MethodOptions)

	// ============================================================
	// ADMIN ROUTES (JWT bearer)
	// ============================================================

	admin := api.PathPrefix("/admin/tenants/{tenantId}").Subrouter()
	admin.Use(middleware.JWTAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log))

	// --- Настройки ---
	admin.HandleFunc("/settings", getTenantSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateTenantSettings.Handle).Methods(http.MethodPut)

	// --- Расписание ---
	admin.HandleFunc("/availability", listAvailability.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/availability", createAvailabilityRule.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/availability/{ruleId}", deleteAvailabilityRule.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	admin.HandleFunc("/bookings", getTenantBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Metrics.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// 1. Дожидаемся уведомлений, которые уже в отправке
	dispatcher.Wait()
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close notification publisher: %v", err)
	}

	// 2. Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	// 3. Сбрасываем оставшиеся спаны
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracing: %v", err)
	}

	log.Info("Server stopped gracefully")
}
