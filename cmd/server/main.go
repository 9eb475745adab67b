package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog_service/config"
	"catalog_service/internal/app"
	"catalog_service/internal/delivery"
	grpcHandler "catalog_service/internal/delivery/grpc"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	logger := app.NewLogger("info", true)
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.Level())
	logger.Info("Starting Catalog Service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			logger.Errorf("Error closing database connection: %v", err)
		} else {
			logger.Info("Storage closed.")
		}
	}()

	useCases := app.NewUseCases(repos, logger)

	var pinger delivery.Pinger
	if repos.DB != nil {
		pinger = repos.DB
	}
	gin.SetMode(gin.ReleaseMode)
	router := delivery.NewRouter(logger, pinger,
		delivery.NewCategoryHandler(useCases.Categories, logger),
		delivery.NewProductHandler(useCases.Products, logger),
		delivery.NewOrderHandler(useCases.Orders, logger),
		delivery.NewOrderItemHandler(useCases.OrderItems, logger),
	)
	httpServer := &http.Server{Addr: cfg.HTTPPort, Handler: router}

	grpcServer, healthServer := grpcHandler.NewServer(
		grpcHandler.NewCatalogHandler(useCases.Analytics, useCases.OrderItems, logger),
		logger,
	)
	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("Failed to listen on port %s: %v", cfg.GrpcPort, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("HTTP server listening on %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Infof("gRPC server listening on %s", cfg.GrpcPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Warn("Shutdown signal received...")
		shutdown(httpServer, grpcServer, healthServer.Shutdown, cfg, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
		return
	}
	logger.Info("Catalog Service shut down gracefully.")
}

func shutdown(httpServer *http.Server, grpcServer *grpc.Server, markNotServing func(), cfg *config.Config, logger *logrus.Logger) {
	markNotServing()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server shutdown: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		logger.Warn("gRPC graceful stop timed out, forcing stop")
		grpcServer.Stop()
	}
}
