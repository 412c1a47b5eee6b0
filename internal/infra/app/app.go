package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/database"
	kafkainfra "github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/kafka"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/logger"
	redisinfra "github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/redis"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/security"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/telemetry"
	postgresrepo "github.com/Emreceyhnn/logitrackv2-sub000/internal/repository/postgres"
	redisrepo "github.com/Emreceyhnn/logitrackv2-sub000/internal/repository/redis"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/middleware"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/routes"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

type Application struct {
	cfg       *config.AppConfig
	engine    *gin.Engine
	logger    *zap.Logger
	telemetry *telemetry.Provider
	pool      *pgxpool.Pool
	redis     *redisinfra.Client
	producer  *kafkainfra.Producer
	consumer  *kafkainfra.ConsumerGroup

	degradation domain.DegradationPolicy
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env, cfg.App.Name)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	degradation := domain.NewDegradationPolicy(domain.ParseDegradationPolicyMode(cfg.Security.DegradationPolicy))

	tel, err := telemetry.Attach(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	keyProvider, err := security.NewKeyProvider(cfg.App.Env, cfg.JWT.KeyDirectory)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init key provider: %w", err)
	}
	jwtManager := security.NewJWTManager(keyProvider, cfg.JWT.Issuer, cfg.JWT.Audience)

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	revocations := redisrepo.NewCredentialRevocationRepository(redisClient.Client(), cfg.Redis.RevocationPrefix)

	rateLimitTTL := cfg.Redis.RateLimitTTL
	if rateLimitTTL <= 0 {
		rateLimitTTL = 2 * max(cfg.RateLimit.WindowDuration, time.Minute)
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitTTL,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	application := &Application{
		cfg:       cfg,
		logger:    log,
		telemetry: tel,
		pool:      pool,
		redis:     redisClient,

		degradation: degradation,
	}

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			application.producer = producer
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
		}

		handler := kafkainfra.NewCredentialRevocationConsumer(revocations, log, kafkainfra.CredentialRevocationConsumerOptions{
			MaxEventLag: 30 * time.Second,
		})
		topic := kafkainfra.TopicCredentialRevoked
		if prefix := strings.TrimSuffix(cfg.Kafka.TopicPrefix, "."); prefix != "" {
			topic = prefix + "." + topic
		}
		consumer, err := kafkainfra.NewConsumerGroup(cfg.Kafka, cfg.Kafka.ConsumerGroup, []string{topic}, handler, log)
		if err != nil {
			log.Warn("failed to join revocation consumer group", zap.Error(err))
		} else {
			application.consumer = consumer
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)
	uow := postgresrepo.NewUnitOfWork(pool, repos, log)

	resolver := usecase.NewSessionResolver(jwtManager, revocations, repos.Users, log,
		usecase.WithDegradationPolicy(degradation))

	deps := usecase.ControllerDeps{
		Guard:     usecase.NewGuard(log, tel, eventPublisher),
		Ownership: repos.Ownership,
		Events:    eventPublisher,
		Logger:    log,
	}

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: tel.Registry()})
	if err != nil {
		application.close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	application.engine = routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		Resolver:    resolver,
		Revoker:     resolver,
		Keys:        jwtManager,
		Database:    pool,
		Cache:       redisClient,
		RateLimiter: rateLimiter,
		Metrics:     httpMetrics,
		Gatherer:    tel.Registry(),
		Services: routes.ServiceSet{
			Vehicles:   usecase.NewVehicleService(deps, repos.Vehicles),
			Drivers:    usecase.NewDriverService(deps, repos.Drivers, uow),
			Shipments:  usecase.NewShipmentService(deps, repos.Shipments),
			Routes:     usecase.NewRouteService(deps, repos.Routes),
			Warehouses: usecase.NewWarehouseService(deps, repos.Warehouses),
			Inventory:  usecase.NewInventoryService(deps, repos.Inventory, uow),
			Documents:  usecase.NewDocumentService(deps, repos.Documents),
			Customers:  usecase.NewCustomerService(deps, repos.Customers),
			Roles:      usecase.NewRoleService(deps, repos.Roles, uow),
			Users:      usecase.NewUserService(deps, repos.Users),
			Dashboard:  usecase.NewDashboardService(deps, repos.Reporting),
		},
	})

	return application, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.consumer != nil {
		go a.consumer.Run(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting logitrack API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.String("degradation_policy", string(a.degradation.Mode())),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		timeout := a.cfg.App.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}

func (a *Application) close() {
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Warn("close consumer group", zap.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("close producer", zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	_ = a.logger.Sync()
}
