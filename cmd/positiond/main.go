package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/monowai/beancounter-sub001/internal/application/usecase"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/infrastructure/config"
	infraKafka "github.com/monowai/beancounter-sub001/internal/infrastructure/kafka"
	infraPostgres "github.com/monowai/beancounter-sub001/internal/infrastructure/postgres"
	"github.com/monowai/beancounter-sub001/internal/infrastructure/provider"
	"github.com/monowai/beancounter-sub001/internal/infrastructure/scheduler"
	grpcPresentation "github.com/monowai/beancounter-sub001/internal/presentation/grpc"
	"github.com/monowai/beancounter-sub001/internal/presentation/rest"
	"github.com/monowai/beancounter-sub001/pkg/auth"
	"github.com/monowai/beancounter-sub001/pkg/kafka"
	"github.com/monowai/beancounter-sub001/pkg/money"
	"github.com/monowai/beancounter-sub001/pkg/observability"
	"github.com/monowai/beancounter-sub001/pkg/postgres"
	"github.com/monowai/beancounter-sub001/pkg/tlsutil"
)

const serviceName = "position-service"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	logger.Info("starting "+serviceName,
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	metrics, err := usecase.NewMetrics(meterProvider.Meter("github.com/monowai/beancounter-sub001"))
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Database pool.
	dbCfg := postgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,

		ApplicationName: serviceName,
	}
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(dbCfg.DSN(), infraPostgres.Migrations, infraPostgres.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database ready")

	kafkaCfg := kafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		ClientID:      serviceName,
	}
	producer, err := kafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()
	publisher := infraKafka.NewEventPublisher(producer)

	portfolios := infraPostgres.NewPortfolioRepo(pool)
	trns := infraPostgres.NewTrnRepo(pool)
	rates, prices, err := marketData(cfg, pool)
	if err != nil {
		return err
	}
	logger.Info("market data providers selected", "fx", cfg.Providers.FxRates, "prices", cfg.Providers.Prices)

	// Domain services.
	moneyMath := service.NewMoneyMath(service.MathConfig{
		MoneyScale:    cfg.Valuation.MoneyScale,
		RateScale:     cfg.Valuation.RateScale,
		CostScale:     cfg.Valuation.CostScale,
		QuantityScale: cfg.Valuation.QuantityScale,
	})
	fx := service.NewFxCalculator(moneyMath)

	// Use cases.
	record := usecase.NewRecordTransaction(portfolios, trns, publisher, logger)
	build := usecase.NewBuildPositions(trns, service.NewAccumulator(moneyMath), metrics, logger)
	getPositions := usecase.NewGetPositions(portfolios, build)
	valuePositions := usecase.NewValuePositions(usecase.ValuePositionsDeps{
		Portfolios: portfolios,
		Build:      build,
		Engine:     service.NewValuationEngine(moneyMath),
		Fx:         fx,
		Prices:     prices,
		Rates:      rates,
		Publisher:  publisher,
		Timeout:    cfg.Valuation.FetchTimeout,
		Metrics:    metrics,
		Logger:     logger,
	})
	getFxRates := usecase.NewGetFxRates(rates, fx)

	var jwtSvc *auth.JWTService
	if cfg.Auth.Enabled() {
		jwtSvc, err = auth.NewJWTService(auth.JWTConfig{
			Secret:       cfg.Auth.JWTSecret,
			PublicKeyPEM: cfg.Auth.JWTPublicKey,
			Issuer:       cfg.Auth.Issuer,
		})
		if err != nil {
			return fmt.Errorf("initialize JWT service: %w", err)
		}
	} else {
		logger.Warn("authentication disabled: no JWT key configured")
	}

	grpcCfg := grpcPresentation.ServerConfig{Port: cfg.GRPCPort, JWT: jwtSvc, Reflection: true}
	if cfg.TLS.Enabled() {
		grpcCfg.Creds, err = tlsutil.ServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("load TLS credentials: %w", err)
		}
	}
	grpcServer := grpcPresentation.NewServer(
		grpcPresentation.NewHandler(getPositions, valuePositions, getFxRates, logger),
		logger, grpcCfg,
	)

	httpServer := rest.New(rest.Config{
		Port:      cfg.HTTPPort,
		Health:    rest.NewHealthHandler(serviceName, map[string]rest.Pinger{"postgres": pool}, logger),
		Positions: rest.NewPositionHandlers(getPositions, valuePositions, getFxRates, logger),
		Metrics:   metricsHandler,
		JWT:       jwtSvc,
		Log:       logger,
	})

	sched := scheduler.New(logger)
	if cfg.Valuation.Schedule != "" {
		job := usecase.NewRevaluationJob(portfolios, valuePositions, cfg.Valuation.FetchTimeout, logger)
		if err := sched.AddJob(cfg.Valuation.Schedule, job); err != nil {
			return fmt.Errorf("schedule revaluation: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(grpcServer.Start)
	g.Go(httpServer.Start)

	if cfg.Kafka.Enabled {
		handler := infraKafka.NewTransactionHandler(record, logger)
		consumer, err := kafka.NewConsumer(kafkaCfg, cfg.Kafka.TrnTopic, handler.Handle, logger)
		if err != nil {
			return fmt.Errorf("create kafka consumer: %w", err)
		}
		defer consumer.Close()
		g.Go(func() error { return consumer.Start(gctx) })
	}

	sched.Start()

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		sched.Stop()
		grpcServer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return meterProvider.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info(serviceName + " stopped")
	return nil
}

// marketData selects the rate and price sources named in configuration.
func marketData(cfg config.Config, pool *pgxpool.Pool) (port.RateProvider, port.PriceProvider, error) {
	var (
		rates  port.RateProvider
		prices port.PriceProvider
	)
	switch cfg.Providers.FxRates {
	case "postgres":
		pivot, err := money.NewCurrency(cfg.Valuation.BaseCurrency)
		if err != nil {
			return nil, nil, fmt.Errorf("base currency: %w", err)
		}
		rates = infraPostgres.NewFxRateRepo(pool, pivot)
	default:
		rates = provider.NewStaticRateProvider(nil)
	}
	switch cfg.Providers.Prices {
	case "postgres":
		prices = infraPostgres.NewPriceRepo(pool)
	default:
		prices = provider.NewStaticPriceProvider(nil)
	}
	return rates, prices, nil
}

