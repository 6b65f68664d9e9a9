package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/auth"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/config"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/db"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/library"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/library/exercises"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/library/recipes"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/middleware"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/misc"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/plans"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/prefs"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/scheduler"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/tracking"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/trainees"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config    *config.Config
	dbPool    *pgxpool.Pool
	store     media.Store
	diskStore *media.DiskStore // nil unless media_backend is "disk"
	prefsRepo prefs.Repository
	scheduler *scheduler.Scheduler

	redisClient    *redis.Client
	sessionChecker *auth.SessionChecker
	authService    *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	TrainerUsername         string
	TrainerPasswordHash     string
	PostgresPassword        string
	RedisPassword           string
	MinioAccessKey          string
	MinioSecretKey          string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}
	if err := db.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(params.VersionInfo, pgxpoolCollector)
	metricsManager := metrics.NewManager("tigo", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

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
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "tigo-service", rdb)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		authService: auth.NewAuthService(&auth.Trainer{
			Username:     params.TrainerUsername,
			PasswordHash: params.TrainerPasswordHash,
		}, auth.DefaultTTL, rdb),
		sessionChecker: auth.NewSessionChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if err := s.setupMedia(ctx, params); err != nil {
		return nil, err
	}
	s.setupPrefs()

	s.scheduler, err = scheduler.New(metricsManager)
	if err != nil {
		return nil, err
	}
	if err := s.scheduler.ScheduleSessionCleanup(ctx, cfg.SessionCleanupEvery(), s.authService); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) setupMedia(ctx context.Context, params NewServerParams) error {
	switch s.config.MediaBackend {
	case config.MediaBackendMinio:
		minioStore, err := media.NewMinioStore(ctx, media.MinioParams{
			Endpoint:  s.config.MinioEndpoint,
			AccessKey: params.MinioAccessKey,
			SecretKey: params.MinioSecretKey,
			UseSSL:    s.config.MinioUseSSL,
			Bucket:    s.config.MinioBucket,
			PublicURL: s.config.MediaPublicURL,
		})
		if err != nil {
			return fmt.Errorf("new minio store: %w", err)
		}
		s.store = minioStore
	default:
		diskStore, err := media.NewDiskStore(s.config.MediaDiskRootPath, s.config.MediaPublicURL)
		if err != nil {
			return fmt.Errorf("new disk store: %w", err)
		}
		s.store = diskStore
		s.diskStore = diskStore
	}
	log.Debugf("media backend: %s", s.config.MediaBackend)
	return nil
}

func (s *Server) setupPrefs() {
	if s.config.PrefsBackend == prefs.BackendRedis {
		s.prefsRepo = prefs.NewRedisRepo(s.redisClient)
	} else {
		s.prefsRepo = prefs.NewMemoryRepo()
	}
	log.Debugf("prefs backend: %s", s.config.PrefsBackend)
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.metricsManager)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin)

	if s.diskStore != nil {
		fileHandler := media.NewFileHandler(s.diskStore)
		r.HandleFunc("/media/{key:.+}", fileHandler.HandleGet).Methods("GET").Name("get-media")
	}

	// progress, plans and notes live under /trainees/{id}/..., register them before the trainee routes
	trackingHandler := tracking.NewHandler(
		tracking.NewService(tracking.NewRepo(s.dbPool), s.prefsRepo, s.store),
		s.metricsManager,
	)
	trackingHandler.SetupRoutes(r)

	plansHandler := plans.NewHandler(plans.NewService(plans.NewRepo(s.dbPool)), s.metricsManager)
	plansHandler.SetupRoutes(r)

	traineesHandler := trainees.NewHandler(
		trainees.NewService(trainees.NewRepo(s.dbPool)),
		s.authService,
		s.metricsManager,
	)
	traineesHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin)

	exercisesHandler := exercises.NewHandler(
		exercises.NewService(exercises.NewRepo(s.dbPool), s.store),
		s.metricsManager,
	)
	exercisesHandler.SetupRoutes(r)

	recipesHandler := recipes.NewHandler(
		recipes.NewService(recipes.NewRepo(s.dbPool), s.store),
		s.metricsManager,
	)
	recipesHandler.SetupRoutes(r)

	library.NewMarkdownHandler(s.metricsManager).SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessionChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: 2 * time.Minute, // video uploads
		ReadTimeout:  2 * time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	s.scheduler.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.scheduler != nil {
		if err := s.scheduler.Stop(); err != nil {
			log.Errorf("failed to stop scheduler: %s", err)
		}
	}

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

	s.otelShutdown()
	log.Trace("otel shut down ...")

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

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
