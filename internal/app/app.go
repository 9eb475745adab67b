// Package app assembles repositories and use cases for the server and console binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"catalog_service/config"
	"catalog_service/internal/domain"
	"catalog_service/internal/repository"
	"catalog_service/internal/repository/memory"
	"catalog_service/internal/usecase"
	"catalog_service/pkg/db"

	"github.com/sirupsen/logrus"
)

type Repositories struct {
	Categories domain.CategoryRepository
	Products   domain.ProductRepository
	Orders     domain.OrderRepository
	OrderItems domain.OrderItemRepository

	// DB is nil for the memory driver.
	DB *sql.DB
}

// OpenRepositories connects to the configured store. For postgres the schema
// is created if missing.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Repositories, error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")
		store := memory.NewStore()
		return &Repositories{
			Categories: store.Categories(),
			Products:   store.Products(),
			Orders:     store.Orders(),
			OrderItems: store.OrderItems(),
		}, nil
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	logger.Info("Database connection established, schema ready.")

	return &Repositories{
		Categories: repository.NewPostgresCategoryRepository(database, logger),
		Products:   repository.NewPostgresProductRepository(database, logger),
		Orders:     repository.NewPostgresOrderRepository(database, logger),
		OrderItems: repository.NewPostgresOrderItemRepository(database, logger),
		DB:         database,
	}, nil
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

type UseCases struct {
	Categories usecase.CategoryUseCase
	Products   usecase.ProductUseCase
	Orders     usecase.OrderUseCase
	OrderItems usecase.OrderItemUseCase
	Analytics  usecase.AnalyticsUseCase
}

func NewUseCases(repos *Repositories, logger *logrus.Logger) *UseCases {
	return &UseCases{
		Categories: usecase.NewCategoryUseCase(repos.Categories, logger),
		Products:   usecase.NewProductUseCase(repos.Products, repos.Categories, logger),
		Orders:     usecase.NewOrderUseCase(repos.Orders, logger),
		OrderItems: usecase.NewOrderItemUseCase(repos.OrderItems, repos.Orders, repos.Products, logger),
		Analytics:  usecase.NewAnalyticsUseCase(repos.Products, logger),
	}
}

// NewLogger configures the shared logrus logger at the given level name.
func NewLogger(level string, json bool) *logrus.Logger {
	logger := logrus.New()
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}
