package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/ormchart/internal/browse"
	"github.com/2beens/ormchart/internal/config"
	"github.com/2beens/ormchart/internal/db"
	ormmcp "github.com/2beens/ormchart/internal/mcp"
	"github.com/2beens/ormchart/internal/middleware"
	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/source"
	"github.com/2beens/ormchart/internal/telemetry/metrics"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
	"github.com/2beens/ormchart/internal/window"
	"github.com/2beens/ormchart/internal/workout"
	"github.com/2beens/ormchart/pkg"
)

const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	adminTokenHash    string
	allowedOrigins    []string

	config         *config.Config
	loc            *time.Location
	defaultUnit    window.TimeFrame
	dbPool         *pgxpool.Pool
	redisClient    *redis.Client
	rateLimiter    middleware.RequestRateLimiter
	memorySessions *browse.MemorySessionStore

	manager       *workout.Manager
	browseService *browse.Service
	mcpServer     *mcp.Server

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminTokenHash          string
	AllowedOrigins          []string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	firstWeekday, err := cfg.Weekday()
	if err != nil {
		return nil, err
	}
	defaultUnit, err := window.ParseTimeFrame(cfg.DefaultTimeFrame)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "ormchart", rdb)
	if err != nil {
		return nil, err
	}

	sourceParams := source.ParamsFromConfig(cfg, loc)
	sourceParams.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	}

	var (
		dbPool     *pgxpool.Pool
		collectors []prometheus.Collector
	)
	if cfg.Source == config.SourcePostgres {
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		collectors = append(collectors, db.PoolCollector(dbPool, cfg.PostgresDBName))
		sourceParams.DBPool = dbPool
	}

	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("ormchart", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	src, err := source.New(sourceParams)
	if err != nil {
		return nil, fmt.Errorf("new records source: %w", err)
	}

	manager := workout.NewManager(records.NewStore(loc), src, metricsManager)
	if _, err := manager.Load(ctx); err != nil {
		if !errors.Is(err, source.ErrResourceMissing) {
			return nil, fmt.Errorf("initial records load: %w", err)
		}
		log.Warnf("records resource missing, starting with an empty store: %s", err)
	}

	s := &Server{
		config:         cfg,
		loc:            loc,
		defaultUnit:    defaultUnit,
		versionInfo:    params.VersionInfo,
		adminTokenHash: params.AdminTokenHash,
		allowedOrigins: params.AllowedOrigins,
		dbPool:         dbPool,
		redisClient:    rdb,
		rateLimiter:    redis_rate.NewLimiter(rdb),
		manager:        manager,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	var sessions browse.SessionStore
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		sessions = browse.NewRedisSessionStore(rdb, cfg.SessionTTL())
	default:
		s.memorySessions = browse.NewMemorySessionStore(cfg.SessionTTL())
		if err := s.memorySessions.StartEviction("@every 1m"); err != nil {
			return nil, fmt.Errorf("start sessions eviction: %w", err)
		}
		sessions = s.memorySessions
	}
	s.browseService = browse.NewService(manager, sessions, loc, firstWeekday, metricsManager)

	if cfg.MCPEnabled {
		s.mcpServer = ormmcp.NewServer(manager, s.browseService, loc)
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("ormchart-router"))

	workout.NewHandler(s.manager, s.loc).SetupRoutes(r)
	browse.NewHandler(s.browseService, s.defaultUnit).SetupRoutes(r)

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET", "OPTIONS").Name("version")

	if s.mcpServer != nil {
		mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.mcpServer
		}, nil)
		r.PathPrefix("/mcp").Handler(mcpHandler).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAdminAuthMiddlewareHandler(s.adminTokenHash)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(middleware.CorsOptions{AllowedOrigins: s.allowedOrigins}))
	r.Use(middleware.RateLimit(
		s.rateLimiter,
		"ormchart-admin",
		s.config.AdminRateLimitAllowedPerMin,
		middleware.IsAdminRequest,
		s.metricsManager,
	))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.memorySessions != nil {
		s.memorySessions.Stop()
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
