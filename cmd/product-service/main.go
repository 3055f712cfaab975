package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/repository"
	"github.com/iyhunko/product-catalog/internal/repository/orm"
	"github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	sqspkg "github.com/iyhunko/product-catalog/internal/sqs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.DebugMode)
	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	productRepository, store, err := openStore(ctx, conf.Database)
	handleErr("starting database", err)
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("err", err))
		}
	}()

	var publisher service.Publisher
	if conf.PublishesEvents() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS)
		handleErr("creating SQS client", err)
		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
	} else {
		slog.Info("SQS queue not configured, product events are disabled")
	}

	productService := service.NewProductService(productRepository, publisher)

	ctr := controller.New()
	productCtr := controller.NewProductController(productService)
	router := httpAPI.InitRouter(gin.New(), ctr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsServer := metrics.NewServer(conf.MetricsServer.Port)

	serve("HTTP", httpServer)
	serve("metrics", metricsServer)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, server := range []*http.Server{httpServer, metricsServer} {
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", slog.String("addr", server.Addr), slog.Any("err", err))
		}
	}
}

// openStore connects the product store selected by the configuration.
func openStore(ctx context.Context, dbConf config.DB) (repository.ProductRepository, io.Closer, error) {
	switch dbConf.Driver {
	case config.DriverSQLite:
		db, err := orm.OpenSQLite(dbConf.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Using sqlite store", slog.String("path", dbConf.SQLitePath))
		return orm.NewProductRepository(db), sqlDB, nil
	default:
		db, err := sql.StartDB(ctx, dbConf)
		if err != nil {
			return nil, nil, err
		}
		return sql.NewProductRepository(db), db, nil
	}
}

func serve(name string, server *http.Server) {
	go func() {
		slog.Info("Server starting", slog.String("server", name), slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to "+name+" requests", err)
		}
	}()
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
