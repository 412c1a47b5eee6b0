package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/handlers"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/transport/http/middleware"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on. Nil services are
// not mounted.
type ServiceSet struct {
	Vehicles   *usecase.VehicleService
	Drivers    *usecase.DriverService
	Shipments  *usecase.ShipmentService
	Routes     *usecase.RouteService
	Warehouses *usecase.WarehouseService
	Inventory  *usecase.InventoryService
	Documents  *usecase.DocumentService
	Customers  *usecase.CustomerService
	Roles      *usecase.RoleService
	Users      *usecase.UserService
	Dashboard  *usecase.DashboardService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	Resolver    usecase.PrincipalResolver
	Revoker     handlers.CredentialRevoker
	Services    ServiceSet
	Keys        handlers.KeySet
	Database    DatabaseChecker
	Cache       CacheChecker
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Telemetry.TracingEnabled {
		r.Use(otelgin.Middleware(serviceName(cfg)))
	}
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(deps.Metrics.Handler())
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxAge:         cfg.CORS.MaxAge,
	}))
	r.Use(middleware.Credential())

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	var metricsHandler http.Handler = promhttp.Handler()
	if deps.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))

	if deps.Keys != nil {
		r.GET("/.well-known/jwks.json", handlers.NewJWKSHandler(deps.Keys).Keys)
	}

	if deps.Resolver == nil {
		return r
	}

	rsp := handlers.NewResponder(logger, cfg.Security.ConcealCrossTenant)
	resolver := deps.Resolver
	svc := deps.Services

	api := r.Group("/api/v1")
	api.Use(buildRateLimitMiddlewares(deps)...)

	if deps.Revoker != nil {
		handlers.NewSessionHandler(resolver, deps.Revoker, rsp, cfg.Security.SecureCookies).RegisterRoutes(api.Group("/session"))
	}

	var documents *handlers.DocumentHandler
	if svc.Documents != nil {
		documents = handlers.NewDocumentHandler(resolver, svc.Documents, rsp)
		documents.RegisterRoutes(api.Group("/documents"))
	}
	mountOwner := func(group *gin.RouterGroup, owner domain.DocumentOwnerKind) {
		if documents != nil {
			documents.RegisterOwnerRoutes(group, owner)
		}
	}

	if svc.Vehicles != nil {
		group := api.Group("/vehicles")
		handlers.NewVehicleHandler(resolver, svc.Vehicles, rsp).RegisterRoutes(group)
		mountOwner(group, domain.DocumentOwnerVehicle)
	}
	if svc.Drivers != nil {
		group := api.Group("/drivers")
		handlers.NewDriverHandler(resolver, svc.Drivers, rsp).RegisterRoutes(group)
		mountOwner(group, domain.DocumentOwnerDriver)
	}
	if svc.Shipments != nil {
		group := api.Group("/shipments")
		shipments := handlers.NewShipmentHandler(resolver, svc.Shipments, rsp)
		shipments.RegisterRoutes(group)
		shipments.RegisterExportRoutes(api.Group("/exports"))
		mountOwner(group, domain.DocumentOwnerShipment)
	}
	if svc.Routes != nil {
		handlers.NewRouteHandler(resolver, svc.Routes, rsp).RegisterRoutes(api.Group("/routes"))
	}
	if svc.Warehouses != nil && svc.Inventory != nil {
		handlers.NewWarehouseHandler(resolver, svc.Warehouses, svc.Inventory, rsp).RegisterRoutes(api.Group("/warehouses"))
		handlers.NewInventoryHandler(resolver, svc.Inventory, rsp).RegisterRoutes(api.Group("/inventory"))
	}
	if svc.Customers != nil {
		handlers.NewCustomerHandler(resolver, svc.Customers, rsp).RegisterRoutes(api.Group("/customers"))
	}
	if svc.Roles != nil {
		handlers.NewRoleHandler(resolver, svc.Roles, rsp).RegisterRoutes(api.Group("/roles"))
	}
	if svc.Users != nil {
		handlers.NewUserHandler(resolver, svc.Users, rsp).RegisterRoutes(api.Group("/users"))
	}
	if svc.Dashboard != nil {
		handlers.NewDashboardHandler(resolver, svc.Dashboard, rsp).RegisterRoutes(api.Group("/dashboard"))
	}

	return r
}

func serviceName(cfg *config.AppConfig) string {
	if cfg.Telemetry.ServiceName != "" {
		return cfg.Telemetry.ServiceName
	}
	if cfg.App.Name != "" {
		return cfg.App.Name
	}
	return "logitrack"
}

// buildRateLimitMiddlewares limits API traffic per client address and per
// presented credential. Anonymous requests only count against the address.
func buildRateLimitMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limits := deps.Config.RateLimit
	window := limits.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rules := make([]middleware.RateLimitRule, 0, 2)
	if limits.IPMaxRequests > 0 {
		rules = append(rules, middleware.RateLimitRule{
			Name:       "api_ip",
			Limit:      limits.IPMaxRequests,
			Window:     window,
			Identifier: middleware.ClientIPIdentifier(),
		})
	}
	if limits.PrincipalMaxRequests > 0 {
		rules = append(rules, middleware.RateLimitRule{
			Name:       "api_credential",
			Limit:      limits.PrincipalMaxRequests,
			Window:     window,
			Identifier: middleware.CredentialIdentifier(),
		})
	}
	if len(rules) == 0 {
		return nil
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rules...)}
}
