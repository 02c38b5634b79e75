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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/create_appointment"
	createPricingRuleHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/create_pricing_rule"
	deletePricingRuleHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/delete_pricing_rule"
	getAppointmentHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/get_business_appointments"
	getPriceQuoteHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/get_price_quote"
	getPricingRulesHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/get_pricing_rules"
	getUserAppointmentsHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/get_user_appointments"
	updatePricingRuleHandler "github.com/barrio-app/Barrio-PricingService/internal/api/handlers/update_pricing_rule"
	"github.com/barrio-app/Barrio-PricingService/internal/api/middleware"
	"github.com/barrio-app/Barrio-PricingService/internal/config"
	appointmentRepo "github.com/barrio-app/Barrio-PricingService/internal/infra/storage/appointment"
	pricingRuleRepo "github.com/barrio-app/Barrio-PricingService/internal/infra/storage/pricingrule"
	businessServiceClient "github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	appointmentsService "github.com/barrio-app/Barrio-PricingService/internal/service/appointments"
	rulesService "github.com/barrio-app/Barrio-PricingService/internal/service/rules"
	createAppointmentUC "github.com/barrio-app/Barrio-PricingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/barrio-app/Barrio-PricingService/internal/usecase/get_available_slots"
	getPriceQuoteUC "github.com/barrio-app/Barrio-PricingService/internal/usecase/get_price_quote"
	"github.com/barrio-app/Barrio-PricingService/pkg/dbmetrics"
	"github.com/barrio-app/Barrio-PricingService/pkg/logger"
	"github.com/barrio-app/Barrio-PricingService/pkg/metrics"
	"github.com/barrio-app/Barrio-PricingService/pkg/simpletxmanager"
	"github.com/barrio-app/Barrio-PricingService/pkg/txmanager"
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

	log.Info("Starting Barrio-PricingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиента BusinessService
	businessClient := businessServiceClient.NewClient(
		cfg.BusinessService.URL,
		time.Duration(cfg.BusinessService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (BusinessService=%s timeout=%ds)",
		cfg.BusinessService.URL, cfg.BusinessService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		ruleRepository        *pricingRuleRepo.Repository
		appointmentRepository *appointmentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		ruleRepository = pricingRuleRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		ruleRepository = pricingRuleRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	rulesSvc := rulesService.NewService(
		ruleRepository,
		businessClient,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		businessClient,
		log,
	)

	// Инициализируем use cases
	getPriceQuoteUseCase := getPriceQuoteUC.NewUseCase(
		ruleRepository,
		businessClient,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		businessClient,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		ruleRepository,
		businessClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getPriceQuote := getPriceQuoteHandler.NewHandler(getPriceQuoteUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getPricingRules := getPricingRulesHandler.NewHandler(rulesSvc, log)
	createPricingRule := createPricingRuleHandler.NewHandler(rulesSvc, log)
	updatePricingRule := updatePricingRuleHandler.NewHandler(rulesSvc, log)
	deletePricingRule := deletePricingRuleHandler.NewHandler(rulesSvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Каждому запросу присваивается идентификатор
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расчёт цены услуги на дату и время
	api.HandleFunc("/businesses/{businessId}/price-quote",
		getPriceQuote.Handle).Methods(http.MethodGet)

	// Получение доступных слотов для записи
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Список правил ценообразования бизнеса
	api.HandleFunc("/businesses/{businessId}/pricing-rules",
		getPricingRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Правила ценообразования (для менеджеров) ---
	// Создание правила
	protected.HandleFunc("/pricing-rules", createPricingRule.Handle).Methods(http.MethodPost)

	// Обновление правила
	protected.HandleFunc("/pricing-rules/{ruleId}", updatePricingRule.Handle).Methods(http.MethodPut)

	// Удаление правила
	protected.HandleFunc("/pricing-rules/{ruleId}", deletePricingRule.Handle).Methods(http.MethodDelete)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для менеджеров) ---
	// Список записей бизнеса
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
