package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	stdlog "github.com/rs/zerolog/log"

	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/events"
	"hotel-booking/logging"
	"hotel-booking/metrics"
	"hotel-booking/payments"
	"hotel-booking/repository"
	"hotel-booking/routes"
	"hotel-booking/services"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatal().Err(err).Msg("failed to load config")
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		stdlog.Fatal().Err(err).Msg("failed to init logger")
	}
	if closer != nil {
		defer closer.Close()
	}
	log := *logger

	db, err := config.ConnectDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("database connection established and migrations applied")

	metrics.Register()

	var (
		locker services.RoomLocker = services.NoopLocker{}
		drafts *services.DraftStore
	)
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Address).Msg("redis ping failed")
		}
		cancel()
		defer rdb.Close()
		locker = services.NewRedisRoomLocker(rdb, cfg.Reservation.LockTTL, cfg.Reservation.LockWait)
		drafts = services.NewDraftStore(rdb, cfg.Reservation.DraftTTL)
		log.Info().Str("addr", cfg.Redis.Address).Msg("redis room locks and booking drafts enabled")
	} else {
		log.Warn().Msg("redis not configured: room locks fall back to database transactions, drafts disabled")
	}

	processor, err := payments.NewStripeProcessor(cfg.Stripe.SecretKey, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("payment processor init failed")
	}

	publisher, closePublishers := buildPublishers(cfg, log)
	defer closePublishers()

	store := repository.NewBookingRepository(db)
	bookingService := services.NewBookingService(store, processor, locker, publisher, services.BookingConfig{
		Currency:             cfg.Reservation.Currency,
		PrecheckAvailability: cfg.Reservation.PrecheckAvailability,
		ProcessorTimeout:     cfg.Reservation.ProcessorTimeout,
	}, &log)
	hotelService := services.NewHotelService(db)
	roomService := services.NewRoomService(db, hotelService)
	exportService := services.NewExportService(bookingService)

	router := routes.SetupRouter(cfg.HTTP, log, routes.Controllers{
		Hotels:   controllers.NewHotelController(hotelService),
		Rooms:    controllers.NewRoomController(roomService, bookingService),
		Bookings: controllers.NewBookingController(bookingService, drafts, exportService, log),
		Drafts:   controllers.NewDraftController(drafts),
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	reaper := services.NewPendingReaper(store, processor, publisher, cfg.Reservation.PendingTTL, log)
	go reaper.Run(ctx, cfg.Reservation.SweepInterval)

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received, shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}
	log.Info().Msg("server stopped gracefully")
}

// buildPublishers fans booking events out to every configured sink.
func buildPublishers(cfg *config.Config, log zerolog.Logger) (events.Publisher, func()) {
	var (
		sinks   events.Multi
		closers []func()
	)

	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		sinks = append(sinks, kp)
		closers = append(closers, func() {
			if err := kp.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka writer close failed")
			}
		})
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka booking events enabled")
	}

	if cfg.Telegram.BotToken != "" {
		tn, err := events.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Error().Err(err).Msg("telegram notifier disabled")
		} else {
			sinks = append(sinks, events.Filter{
				Next:  tn,
				Types: []string{events.TypeBookingPaid, events.TypeBookingConflict},
			})
		}
	}

	sinks = append(sinks, events.NewEmailNotifier(events.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		FromName: cfg.SMTP.FromName,
	}, log))

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}
}
