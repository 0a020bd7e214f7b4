package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-stock-service/config"
	"github.com/fekuna/omnipos-stock-service/internal/broker"
	"github.com/fekuna/omnipos-stock-service/internal/cache"
	"github.com/fekuna/omnipos-stock-service/internal/database/postgres"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/middleware"

	catRepoPkg "github.com/fekuna/omnipos-stock-service/internal/catalog/repository"
	catUCPkg "github.com/fekuna/omnipos-stock-service/internal/catalog/usecase"

	invH "github.com/fekuna/omnipos-stock-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-stock-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"

	auditH "github.com/fekuna/omnipos-stock-service/internal/audit/handler"
	auditRepoPkg "github.com/fekuna/omnipos-stock-service/internal/audit/repository"
	auditUCPkg "github.com/fekuna/omnipos-stock-service/internal/audit/usecase"

	transferH "github.com/fekuna/omnipos-stock-service/internal/transfer/handler"
	transferRepoPkg "github.com/fekuna/omnipos-stock-service/internal/transfer/repository"
	transferUCPkg "github.com/fekuna/omnipos-stock-service/internal/transfer/usecase"

	bundleH "github.com/fekuna/omnipos-stock-service/internal/bundle/handler"
	bundleRepoPkg "github.com/fekuna/omnipos-stock-service/internal/bundle/repository"
	bundleUCPkg "github.com/fekuna/omnipos-stock-service/internal/bundle/usecase"

	fulfillmentListenerPkg "github.com/fekuna/omnipos-stock-service/internal/fulfillment/listener"
	fulfillmentUCPkg "github.com/fekuna/omnipos-stock-service/internal/fulfillment/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(context.Background(), db); err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	txManager := postgres.NewTxManager(db, cfg.Postgres.TxMaxRetries)

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	auditRepo := auditRepoPkg.NewPGRepository(db)
	transferRepo := transferRepoPkg.NewPGRepository(db)
	bundleRepo := bundleRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize UseCases
	catUC := catUCPkg.NewCatalogUseCase(catRepo)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, catUC, txManager, appLogger)
	auditUC := auditUCPkg.NewAuditUseCase(auditRepo, catUC, invUC, txManager, appLogger)
	transferUC := transferUCPkg.NewTransferUseCase(transferRepo, catUC, invUC, txManager, appLogger)
	bundleUC := bundleUCPkg.NewBundleUseCase(bundleRepo, catUC, invUC, txManager, appLogger)
	fulfillmentUC := fulfillmentUCPkg.NewFulfillmentUseCase(catUC, invUC, bundleUC, txManager, appLogger)

	// 6.5 Initialize Listeners
	deduper := cache.NewEventDeduper(redisClient, "stock:order-event:", cfg.Redis.EventDedupeTTL)
	orderListener := fulfillmentListenerPkg.NewOrderListener(kafkaConsumer, deduper, fulfillmentUC, appLogger).
		WithRetry(cfg.Kafka.MaxAttempts, cfg.Kafka.RetryBackoff)

	// Start Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	// 7. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(middleware.ContextInterceptor(appLogger)),
	)

	// Register Services
	invH.NewInventoryHandler(invUC, catUC, appLogger).Register(grpcServer)
	auditH.NewAuditHandler(auditUC, appLogger).Register(grpcServer)
	transferH.NewTransferHandler(transferUC, appLogger).Register(grpcServer)
	bundleH.NewBundleHandler(bundleUC, appLogger).Register(grpcServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
