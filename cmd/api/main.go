package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/waynex/travels-api/internal/http/handlers"
	authmw "github.com/waynex/travels-api/internal/http/middleware"
	"github.com/waynex/travels-api/internal/mailer"
	"github.com/waynex/travels-api/internal/ratelimit"
	"github.com/waynex/travels-api/internal/repo/postgres"
	"github.com/waynex/travels-api/internal/service"
	"github.com/waynex/travels-api/pkg/config"
	"github.com/waynex/travels-api/pkg/database"
	"github.com/waynex/travels-api/pkg/events"
	"github.com/waynex/travels-api/pkg/logger"
	mw "github.com/waynex/travels-api/pkg/middleware"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(cfg.Database.URL); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// NATS is optional; without it events are dropped.
	var eventBus events.EventBus = events.NoopEventBus{}
	if cfg.NATS.URL != "" {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Warn("Failed to connect to NATS, events disabled", "error", err)
		} else {
			eventBus = bus
			defer bus.Close()
		}
	}

	// Redis backs OTP rate limiting; without it the limiter fails open.
	var limiter *ratelimit.Limiter
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Warn("Invalid redis URL, rate limiting disabled", "error", err)
		} else {
			if cfg.Redis.Password != "" {
				opts.Password = cfg.Redis.Password
			}
			opts.DB = cfg.Redis.DB
			rdb := redis.NewClient(opts)
			limiter = ratelimit.New(rdb)
			defer rdb.Close()
		}
	}

	emailSvc := buildMailer(cfg)

	userRepo := postgres.NewUserRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)

	authService := service.NewAuthService(userRepo, emailSvc, eventBus, cfg)
	userService := service.NewUserService(userRepo, bookingRepo)
	bookingService := service.NewBookingService(bookingRepo, invoiceRepo, userRepo, emailSvc, eventBus)
	catalogService := service.NewCatalogService(catalogRepo)
	adminService := service.NewAdminService(userRepo, bookingRepo, invoiceRepo, statsRepo, eventBus)

	authHandler := handlers.NewAuthHandler(authService, limiter)
	userHandler := handlers.NewUserHandler(userService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	adminHandler := handlers.NewAdminHandler(adminService, bookingService)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())
		r.Mount("/tours", catalogHandler.TourRoutes())
		r.Mount("/visas", catalogHandler.VisaRoutes())

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireUser(authService))
			r.Mount("/users", userHandler.Routes())
			r.Mount("/bookings", bookingHandler.Routes())

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireAdmin)
				r.Mount("/", adminHandler.Routes())
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// buildMailer picks the email transport: dev logging, MailerSend when a key
// is present, otherwise SMTP.
func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("Email dev mode: messages are logged, not sent")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}
}
