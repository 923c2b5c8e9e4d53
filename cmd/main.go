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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/ISB-BookingService/internal/api/handlers"
	createBookingHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/create_booking"
	deleteBookingsHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/delete_bookings"
	getAvailableSlotsHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/get_booking"
	getResourceCatalogHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/get_resource_catalog"
	listBookingsHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/list_bookings"
	listResourcesHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/list_resources"
	reconcileSlotsHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/reconcile_slots"
	rescheduleBookingHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/reschedule_booking"
	updateBookingsStatusHandler "github.com/m04kA/ISB-BookingService/internal/api/handlers/update_bookings_status"
	"github.com/m04kA/ISB-BookingService/internal/api/middleware"
	"github.com/m04kA/ISB-BookingService/internal/config"
	"github.com/m04kA/ISB-BookingService/internal/domain"
	"github.com/m04kA/ISB-BookingService/internal/infra/database"
	"github.com/m04kA/ISB-BookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/ISB-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/ISB-BookingService/internal/integrations/webhook"
	bookingsService "github.com/m04kA/ISB-BookingService/internal/service/bookings"
	catalogService "github.com/m04kA/ISB-BookingService/internal/service/catalog"
	slotsService "github.com/m04kA/ISB-BookingService/internal/service/slots"
	createBookingUC "github.com/m04kA/ISB-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/ISB-BookingService/internal/usecase/get_available_slots"
	reconcileSlotsUC "github.com/m04kA/ISB-BookingService/internal/usecase/reconcile_slots"
	rescheduleBookingUC "github.com/m04kA/ISB-BookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/ISB-BookingService/internal/worker/slot_extender"
	"github.com/m04kA/ISB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/ISB-BookingService/pkg/logger"
	"github.com/m04kA/ISB-BookingService/pkg/metrics"
	"github.com/m04kA/ISB-BookingService/pkg/txmanager"
)

// Notifier получатель событий о бронированиях
type Notifier interface {
	Notify(event string, booking *domain.Booking)
}

// Locker блокировка прогона реконсиляции
type Locker interface {
	TryLock(ctx context.Context, name string) (lock.UnlockFunc, error)
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
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

	log.Info("Starting ISB-BookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Контекст фоновых задач, отменяется при остановке
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var dbRecorder dbmetrics.Recorder
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Без recorder обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopMetricsCh)

	// Репозитории и менеджер транзакций
	slotRepository := slotRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Календарь, каталог и политика дат
	calendar, err := buildCalendar(cfg.Calendar)
	if err != nil {
		log.Fatal("Failed to build calendar: %v", err)
	}
	catalog := domain.NewCatalog(
		cfg.Catalog.Resources,
		cfg.Catalog.PremiumResource,
		cfg.Catalog.PremiumPackages,
		cfg.Catalog.StandardPackages,
	)
	policy := domain.DatePolicy{
		AllowPastDates: cfg.Booking.AllowPastDates,
		WindowDays:     cfg.Booking.WindowDays,
	}
	log.Info("Calendar timezone=%s, resources=%d, booking window=%d days",
		calendar.Location(), len(catalog.Resources()), policy.WindowDays)

	// Уведомления о бронированиях
	var notifier Notifier = webhook.NopNotifier{}
	var dispatcher *webhook.Dispatcher
	if cfg.Webhook.Enabled() {
		client := webhook.NewClient(
			cfg.Webhook.URL,
			cfg.Webhook.APIKey,
			cfg.Webhook.Source,
			time.Duration(cfg.Webhook.Timeout)*time.Second,
		)
		dispatcher = webhook.NewDispatcher(client, webhook.DispatcherConfig{
			Workers:      cfg.Webhook.Workers,
			QueueSize:    cfg.Webhook.QueueSize,
			MaxRetries:   cfg.Webhook.MaxRetries,
			RetryBackoff: time.Duration(cfg.Webhook.RetryBackoffMs) * time.Millisecond,
			RateLimit:    cfg.Webhook.RateLimit,
			RateBurst:    cfg.Webhook.RateBurst,
		}, metricsCollector, log)
		dispatcher.Start(appCtx)
		notifier = dispatcher
	} else {
		log.Warn("Webhook URL is not configured, notifications are disabled")
	}

	// Блокировка реконсиляции
	var locker Locker = lock.NewLocalLocker()
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(appCtx).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		locker = lock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTLMs)*time.Millisecond)
		log.Info("Reconcile lock backed by redis at %s", cfg.Redis.Addr)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, calendar, metricsCollector, log)
	bookingSvc := bookingsService.NewService(bookingRepository, slotSvc, txMgr, notifier, log)
	catalogSvc := catalogService.NewService(catalog, calendar, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotSvc, catalog, calendar, policy, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotSvc,
		catalog,
		calendar,
		policy,
		txMgr,
		notifier,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		slotSvc,
		calendar,
		policy,
		txMgr,
		notifier,
		log,
	)
	reconcileSlotsUseCase := reconcileSlotsUC.NewUseCase(
		slotRepository,
		bookingRepository,
		locker,
		txMgr,
		metricsCollector,
		log,
	)

	// Фоновая генерация слотов наперед
	extenderDone := make(chan struct{})
	if cfg.Extender.Enabled {
		extender := slot_extender.New(slotSvc, catalog, calendar, slot_extender.Config{
			Interval:  time.Duration(cfg.Extender.Interval) * time.Second,
			DaysAhead: cfg.Extender.DaysAhead,
		}, log)
		go func() {
			defer close(extenderDone)
			extender.Run(appCtx)
		}()
	} else {
		close(extenderDone)
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listResources := listResourcesHandler.NewHandler(catalogSvc, log)
	getResourceCatalog := getResourceCatalogHandler.NewHandler(catalogSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingsStatus := updateBookingsStatusHandler.NewHandler(bookingSvc, log)
	deleteBookings := deleteBookingsHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	reconcileSlots := reconcileSlotsHandler.NewHandler(reconcileSlotsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Liveness + доступность БД
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Error("GET /healthz - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.CodeStorageError, "база данных недоступна")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (форма бронирования)
	// ============================================================

	// Обслуживаемые объекты
	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)

	// Свободные окна объекта на дату
	api.HandleFunc("/resources/{resourceId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Пакеты и расписание объекта
	api.HandleFunc("/resources/{resourceId}/catalog", getResourceCatalog.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (авторизация на периметре)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()

	// Список бронирований с фильтрами
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Массовая смена статуса
	admin.HandleFunc("/bookings/status", updateBookingsStatus.Handle).Methods(http.MethodPatch)

	// Массовое удаление
	admin.HandleFunc("/bookings/bulk-delete", deleteBookings.Handle).Methods(http.MethodPost)

	// Перенос бронирования
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/schedule", rescheduleBooking.Handle).Methods(http.MethodPut)

	// Синхронизация слотов и бронирований
	admin.HandleFunc("/slots/reconcile", reconcileSlots.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	// Ожидаем сигнал завершения
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

	// Доставляем уведомления, оставшиеся в очереди
	if dispatcher != nil {
		if err := dispatcher.Close(shutdownCtx); err != nil {
			log.Warn("Webhook dispatcher did not drain: %v", err)
		}
	}

	// Останавливаем фоновые задачи
	stopApp()
	<-extenderDone

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// buildCalendar собирает недельный календарь из конфигурации
func buildCalendar(cfg config.CalendarConfig) (*domain.Calendar, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return domain.NewWeeklyCalendar(
		domain.OperatingHours{StartHour: cfg.Weekdays.Start, EndHour: cfg.Weekdays.End},
		domain.OperatingHours{StartHour: cfg.Saturday.Start, EndHour: cfg.Saturday.End},
		domain.OperatingHours{StartHour: cfg.Sunday.Start, EndHour: cfg.Sunday.End},
		location,
	), nil
}
