package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	availabilityHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/availability"
	cancelBookingHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/cancel_booking"
	createBookingsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/create_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_client_bookings"
	getCoachBookingsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_coach_bookings"
	getQuotaHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_quota"
	getSettingsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/get_settings"
	rescheduleBookingHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/reschedule_booking"
	updateSettingsHandler "github.com/m04kA/SMC-CoachBookingService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-CoachBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CoachBookingService/internal/config"
	availabilityRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/booking"
	quotaRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/quota"
	settingsRepo "github.com/m04kA/SMC-CoachBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-CoachBookingService/internal/integrations/notifier"
	userServiceClient "github.com/m04kA/SMC-CoachBookingService/internal/integrations/userservice"
	availabilityService "github.com/m04kA/SMC-CoachBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-CoachBookingService/internal/service/bookings"
	quotaService "github.com/m04kA/SMC-CoachBookingService/internal/service/quota"
	settingsService "github.com/m04kA/SMC-CoachBookingService/internal/service/settings"
	cancelBookingUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/cancel_booking"
	createBookingsUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/create_bookings"
	getAvailableSlotsUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/SMC-CoachBookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/logger"
	"github.com/m04kA/SMC-CoachBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-CoachBookingService...")

	// Метрики: при выключенных метриках collector остается nil и методы ничего не делают
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

	txMgr := txmanager.NewTransactionManager(wrappedDB).WithRetryHook(func() {
		if metricsCollector != nil {
			metricsCollector.TxRetries.Inc()
		}
	})

	// Очередь уведомлений
	var enqueuer notifier.Enqueuer
	if cfg.Notifications.Enabled {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Notifications.RedisAddr,
			Password: cfg.Notifications.RedisPassword,
			DB:       cfg.Notifications.RedisDB,
		})
		defer asynqClient.Close()
		enqueuer = asynqClient
		log.Info("Notifications queue enabled (redis=%s, calendar_sync=%t)",
			cfg.Notifications.RedisAddr, cfg.Notifications.CalendarSync)
	} else {
		log.Warn("Notifications disabled: booking events will not be delivered")
	}
	bookingNotifier := notifier.New(enqueuer, cfg.Notifications.CalendarSync, metricsCollector, log)

	// Интеграции
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	quotaRepository := quotaRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Сервисы
	defaults := cfg.Scheduling.DefaultSettings()
	if err := settingsService.Validate(&defaults); err != nil {
		log.Fatal("Invalid [scheduling] defaults: %v", err)
	}
	settingsSvc := settingsService.NewService(settingsRepository, log).WithDefaults(defaults)
	quotaSvc := quotaService.NewService(quotaRepository, &createBookingsUC.RealTimeProvider{}, log)
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	availabilitySvc := availabilityService.NewService(availabilityRepository, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsSvc,
		userClient,
		txMgr,
		log,
	)
	createBookingsUseCase := createBookingsUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsSvc,
		quotaSvc,
		userClient,
		bookingNotifier,
		metricsCollector,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		settingsSvc,
		bookingNotifier,
		metricsCollector,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		settingsSvc,
		quotaSvc,
		bookingNotifier,
		metricsCollector,
		txMgr,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)
	createBookings := createBookingsHandler.NewHandler(createBookingsUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getCoachBookings := getCoachBookingsHandler.NewHandler(bookingSvc, log)
	getQuota := getQuotaHandler.NewHandler(quotaSvc, log)
	availability := availabilityHandler.NewHandler(availabilitySvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/coaches/{coachId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/coaches/{coachId}/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBookings.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- История и квота ---
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/coaches/{coachId}/bookings", getCoachBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/clients/{clientId}/quota", getQuota.Handle).Methods(http.MethodGet)

	// --- Управление расписанием и настройками (только сам тренер) ---
	protected.HandleFunc("/coaches/{coachId}/settings", updateSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/coaches/{coachId}/availability/templates", availability.ListTemplates).Methods(http.MethodGet)
	protected.HandleFunc("/coaches/{coachId}/availability/templates", availability.CreateTemplate).Methods(http.MethodPost)
	protected.HandleFunc("/coaches/{coachId}/availability/templates/{templateId}", availability.DeleteTemplate).Methods(http.MethodDelete)
	protected.HandleFunc("/coaches/{coachId}/availability/overrides", availability.ListOverrides).Methods(http.MethodGet)
	protected.HandleFunc("/coaches/{coachId}/availability/overrides", availability.CreateOverride).Methods(http.MethodPost)
	protected.HandleFunc("/coaches/{coachId}/availability/overrides/{overrideId}", availability.DeleteOverride).Methods(http.MethodDelete)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := bookingNotifier.Wait(shutdownCtx); err != nil {
		log.Warn("Pending notifications dropped on shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
