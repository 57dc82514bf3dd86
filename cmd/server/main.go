package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mbelyaev/taskboard/internal/config"
	"github.com/mbelyaev/taskboard/internal/db"
	"github.com/mbelyaev/taskboard/internal/es"
	"github.com/mbelyaev/taskboard/internal/httpserver"
	"github.com/mbelyaev/taskboard/internal/logging"
	mwauth "github.com/mbelyaev/taskboard/internal/middleware/auth"
	mwlog "github.com/mbelyaev/taskboard/internal/middleware/logging"
	"github.com/mbelyaev/taskboard/internal/mykafka"
	"github.com/mbelyaev/taskboard/internal/repo"
	"github.com/mbelyaev/taskboard/internal/service"
	"github.com/mbelyaev/taskboard/internal/service/search"
)

func main() {
	configuration, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)

	ctx := context.Background()

	gdb, err := db.Open(ctx, configuration.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KafkaAddress != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KafkaAddress})
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var taskIndex *search.ESIndex
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		taskIndex = search.NewESIndex(esClient, "task")
	} else {
		logger.Warn("ES_URL not set, task search disabled")
	}

	r := repo.New(gdb)

	authSvc := service.NewAuthService(
		r,
		configuration.JWTSecret,
		configuration.RefreshSecret,
		configuration.AccessTTL,
		configuration.RefreshTTL,
		configuration.BcryptCost,
		eventPublisher(prod),
	)
	taskSvc := &service.TaskService{Repo: r, Producer: eventPublisher(prod), Indexer: taskIndexer(taskIndex)}
	tableSvc := &service.TaskTableService{Repo: r}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), mwlog.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc},
		TaskHandler:      &httpserver.TaskHTTP{Svc: taskSvc, Search: taskIndex},
		TaskTableHandler: &httpserver.TaskTableHTTP{Svc: tableSvc},
		AuthMW:           mwauth.New(authSvc),
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", configuration.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db handle error", "error", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// eventPublisher keeps a nil *mykafka.Producer from becoming a non-nil
// interface value inside the services.
func eventPublisher(p *mykafka.Producer) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func taskIndexer(i *search.ESIndex) search.TaskIndexer {
	if i == nil {
		return nil
	}
	return i
}
