package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kmdsweets/storefront/internal/cart"
	"github.com/kmdsweets/storefront/internal/catalog"
	"github.com/kmdsweets/storefront/internal/config"
	"github.com/kmdsweets/storefront/internal/contact"
	"github.com/kmdsweets/storefront/internal/httpserver"
	"github.com/kmdsweets/storefront/internal/logging"
	clientmw "github.com/kmdsweets/storefront/internal/middleware/client"
	"github.com/kmdsweets/storefront/internal/middleware/csrf"
	loggingmw "github.com/kmdsweets/storefront/internal/middleware/logging"
	"github.com/kmdsweets/storefront/internal/mykafka"
	"github.com/kmdsweets/storefront/internal/search"
	"github.com/kmdsweets/storefront/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "storefront")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	kv, closeStorage, err := config.OpenStorage(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("storage open: %v", err)
	}

	carts := cart.NewRegistry(kv)
	events := httpserver.NewEventsHub(carts)

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		carts.Watch(mykafka.CartEvents(producer, carts, logger))
	}

	catalogClient := catalog.NewClient(cfg.CatalogAPIURL)
	catalogHandler := &httpserver.CatalogHTTP{Source: catalogClient, AssetBaseURL: cfg.AssetBaseURL}
	searchHandler := &httpserver.SearchHTTP{Catalog: catalogHandler}

	if cfg.ESURL != "" {
		esClient, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
		}, logger)
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			idx := search.NewIndex(esClient, cfg.ESIndex)
			searchHandler.Index = idx
			go func() {
				syncCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				n, err := idx.Sync(syncCtx, catalogClient)
				if err != nil {
					logger.Warn("search_sync_failed", "error", err)
					return
				}
				logger.Info("search_sync_done", "products", n)
			}()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))
	e.Use(loggingmw.RequestLogger(logger))

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.CookieSecure

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:    &httpserver.CartHTTP{Carts: carts, Catalog: catalogClient},
		CatalogHandler: catalogHandler,
		SearchHandler:  searchHandler,
		ContactHandler: &httpserver.ContactHTTP{Sender: contact.NewClient(cfg.ContactAPIURL)},
		SessionHandler: &httpserver.SessionHTTP{Svc: session.NewService(kv)},
		Events:         events,
		Client:         clientmw.Config{Secret: cfg.ClientTokenSecret, Secure: cfg.CookieSecure},
		CSRF:           csrfCfg,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_failed", "error", err)
		}
	}
	if err := closeStorage(); err != nil {
		logger.Warn("storage_close_failed", "error", err)
	}

	logger.Info("storefront stopped")
}
