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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	cancelFamilyBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_family_booking"
	createAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_appointment"
	createFamilyBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_family_booking"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_customer_appointments"
	getCustomerFamilyBookingsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_customer_family_bookings"
	getFamilyBookingHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_family_booking"
	getSalonAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_appointments"
	getSalonAvailabilityHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_availability"
	getTimeSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_time_slots"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	familyBookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/familybooking"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/memory"
	timeSlotRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/timeslot"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	familyBookingsService "github.com/m04kA/SMC-SalonBooking/internal/service/familybookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/slots"
	createAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	createFamilyBookingUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_family_booking"
	getSalonAvailabilityUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_salon_availability"
	getTimeSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_time_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/locker"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

type appointmentStore interface {
	createAppointmentUC.AppointmentRepository
	rescheduleAppointmentUC.AppointmentRepository
	appointmentsService.AppointmentRepository
}

type familyBookingStore interface {
	createFamilyBookingUC.FamilyBookingRepository
	familyBookingsService.FamilyBookingRepository
}

type catalogStore interface {
	slots.ProfessionalRepository
	createAppointmentUC.CatalogRepository
	createFamilyBookingUC.CatalogRepository
	rescheduleAppointmentUC.CatalogRepository
	getSalonAvailabilityUC.ProfessionalRepository
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории выбранного драйвера
type storage struct {
	ticks          slots.TimeSlotRepository
	appointments   appointmentStore
	familyBookings familyBookingStore
	catalog        catalogStore
	tx             txManager
	ping           func(ctx context.Context) error
	close          func() error
}

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

	log.Info("Starting SMC-SalonBooking...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	stopMetricsCh := make(chan struct{})

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Блокировки на слоты
	var slotLocker locker.Locker = locker.NewLocalLocker()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		redisLocker := locker.NewRedisLocker(redisClient, cfg.Redis.KeyPrefix)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisLocker.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		slotLocker = redisLocker
		log.Info("Slot locks in redis (addr=%s)", cfg.Redis.Addr)
	} else {
		log.Info("Slot locks in process memory")
	}

	// События
	var publisher interface {
		Publish(ctx context.Context, event events.Event) error
		Close() error
	} = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(
			cfg.Events.Brokers,
			cfg.Events.Topic,
			time.Duration(cfg.Events.WriteTimeout)*time.Second,
			log,
		)
		log.Info("Booking events published to kafka topic %s", cfg.Events.Topic)
	}
	defer publisher.Close()

	// Сетка тиков
	window, err := slots.NewWindow(cfg.Slots.Open, cfg.Slots.Close, cfg.Slots.TickMinutes)
	if err != nil {
		log.Fatal("Invalid business window: %v", err)
	}
	log.Info("Business window %s-%s, tick %d min, %d ticks per day",
		window.Open, window.Close, window.TickMinutes, window.TicksPerDay())

	generator := slots.NewGenerator(store.ticks, store.catalog, window, metricsCollector, log)
	reserver := slots.NewReserver(generator, store.ticks, metricsCollector, log)
	lockTTL := cfg.Slots.LockTimeout()

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		store.appointments,
		reserver,
		store.tx,
		slotLocker,
		lockTTL,
		publisher,
		metricsCollector,
		log,
	)
	familyBookingSvc := familyBookingsService.NewService(
		store.familyBookings,
		reserver,
		store.tx,
		slotLocker,
		lockTTL,
		publisher,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		store.appointments,
		store.catalog,
		reserver,
		store.tx,
		slotLocker,
		lockTTL,
		publisher,
		metricsCollector,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		store.appointments,
		store.catalog,
		reserver,
		store.tx,
		slotLocker,
		lockTTL,
		publisher,
		metricsCollector,
		log,
	)
	createFamilyBookingUseCase := createFamilyBookingUC.NewUseCase(
		store.familyBookings,
		store.catalog,
		reserver,
		store.tx,
		slotLocker,
		lockTTL,
		publisher,
		metricsCollector,
		log,
	)
	getTimeSlotsUseCase := getTimeSlotsUC.NewUseCase(generator, log)
	getSalonAvailabilityUseCase := getSalonAvailabilityUC.NewUseCase(store.catalog, generator, log)

	// Инициализируем handlers
	getTimeSlots := getTimeSlotsHandler.NewHandler(getTimeSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSalonAppointments := getSalonAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	createFamilyBooking := createFamilyBookingHandler.NewHandler(createFamilyBookingUseCase, log)
	getFamilyBooking := getFamilyBookingHandler.NewHandler(familyBookingSvc, log)
	getCustomerFamilyBookings := getCustomerFamilyBookingsHandler.NewHandler(familyBookingSvc, log)
	cancelFamilyBooking := cancelFamilyBookingHandler.NewHandler(familyBookingSvc, log)
	getSalonAvailability := getSalonAvailabilityHandler.NewHandler(getSalonAvailabilityUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := store.ping(req.Context()); err != nil {
			log.Warn("GET /health - storage is unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "storage is unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// --- Сетка тиков ---
	api.HandleFunc("/timeslots", getTimeSlots.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/salon/{salonId:[0-9]+}", getSalonAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id:[0-9]+}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id:[0-9]+}", cancelAppointment.Handle).Methods(http.MethodDelete)
	api.HandleFunc("/appointments/{id:[0-9]+}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointments/{id:[0-9]+}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// --- Семейные записи ---
	// Статические пути регистрируются раньше {id}
	api.HandleFunc("/familybooking", createFamilyBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/familybooking/customer", getCustomerFamilyBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/familybooking/available-slots", getSalonAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/familybooking/{id:[0-9]+}", getFamilyBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/familybooking/{id:[0-9]+}/cancel", cancelFamilyBooking.Handle).Methods(http.MethodPut)

	// Фоновая генерация горизонта
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		generator.RunSweep(sweepCtx, cfg.Slots.HorizonDays, cfg.Slots.SweepEvery())
	}()

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

	stopSweep()
	<-sweepDone
	close(stopMetricsCh)

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

// openStorage подключает PostgreSQL или поднимает in-process хранилище
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		mem := memory.NewStore()
		log.Warn("Using in-memory storage, data is lost on restart")
		if cfg.Database.SeedFile != "" {
			n, err := mem.LoadSeedFile(cfg.Database.SeedFile)
			if err != nil {
				return nil, err
			}
			log.Info("Catalog seeded from %s: %d entries", cfg.Database.SeedFile, n)
		}
		return &storage{
			ticks:          mem.TimeSlots(),
			appointments:   mem.Appointments(),
			familyBookings: mem.FamilyBookings(),
			catalog:        mem.Catalog(),
			tx:             mem.TxManager(),
			ping:           func(context.Context) error { return nil },
			close:          func() error { return nil },
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrapped := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &storage{
		ticks:          timeSlotRepo.NewRepository(wrapped),
		appointments:   appointmentRepo.NewRepository(wrapped),
		familyBookings: familyBookingRepo.NewRepository(wrapped),
		catalog:        catalogRepo.NewRepository(wrapped),
		tx:             txmanager.NewTransactionManager(wrapped),
		ping:           wrapped.PingContext,
		close:          db.Close,
	}, nil
}
