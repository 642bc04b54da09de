package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bookbakery/storefront/internal/config"
	"github.com/bookbakery/storefront/internal/es"
	"github.com/bookbakery/storefront/internal/handlers"
	"github.com/bookbakery/storefront/internal/logging"
	"github.com/bookbakery/storefront/internal/mail"
	adminauth "github.com/bookbakery/storefront/internal/middleware/auth"
	"github.com/bookbakery/storefront/internal/models"
	"github.com/bookbakery/storefront/internal/mykafka"
	"github.com/bookbakery/storefront/internal/repo"
	"github.com/bookbakery/storefront/internal/service/checkout"
	httpserver "github.com/bookbakery/storefront/internal/transport/http"
	"github.com/bookbakery/storefront/pkg/db"
)

const productIndex = "products"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := database.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.AdminUser{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddress})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var searchHandler *handlers.SearchHandler
	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		esClient = client
		searchHandler = &handlers.SearchHandler{ES: client, Index: productIndex}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	svc := checkout.NewService(database, mailer, cfg.BaseURL)
	orders := &repo.OrderRepo{DB: database}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := logger.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		OrderHandler:    &handlers.OrderHandler{Svc: svc, Orders: orders, Producer: producer},
		ProductHandler:  &handlers.ProductHandler{DB: database, Producer: producer, ES: esClient, Index: productIndex},
		CategoryHandler: &handlers.CategoryHandler{DB: database},
		AdminHandler:    &handlers.AdminHandler{DB: database, JWTSecret: cfg.JWTSecret, Orders: orders, Svc: svc},
		SearchHandler:   searchHandler,
		AdminMW:         &adminauth.AdminMiddleware{DB: database, JWTSecret: cfg.JWTSecret},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
