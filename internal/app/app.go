package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/screenpass/screenpass/internal/booking"
	"github.com/screenpass/screenpass/internal/domain"
	"github.com/screenpass/screenpass/internal/repository"
	appvalidator "github.com/screenpass/screenpass/internal/validator"
	"github.com/screenpass/screenpass/internal/vcs"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     *redis.Client
	validator *validator.Validate

	userRepo    domain.UserRepository
	movieRepo   domain.MovieRepository
	showRepo    domain.ShowRepository
	bookingRepo domain.BookingRepository

	bookings *booking.Service
}

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	JWT              JWTConfig
	Limiter          LimiterConfig
	OtelCollectorUrl string
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type LimiterConfig struct {
	Enabled  bool
	Capacity int
	Refill   time.Duration
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.JWT.Secret, "jwt-secret", "", "HMAC secret for access tokens")
	flag.DurationVar(&cfg.JWT.TTL, "jwt-ttl", time.Hour, "Access token lifetime")

	flag.BoolVar(&cfg.Limiter.Enabled, "limiter-enabled", true, "Enable rate limiting")
	flag.IntVar(&cfg.Limiter.Capacity, "limiter-capacity", 20, "Rate limiter bucket capacity per client")
	flag.DurationVar(&cfg.Limiter.Refill, "limiter-refill", time.Second, "Rate limiter token refill interval")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector endpoint")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app, err := New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.serve()
}

func New(cfg Config, logger *slog.Logger) (*Application, error) {
	db, err := newDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	userRepo := repository.NewPostgresUserRepository(db)
	movieRepo := repository.NewPostgresMovieRepository(db)
	showRepo := repository.NewPostgresShowRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	app := &Application{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       redisClient,
		validator:   appvalidator.NewValidator(),
		userRepo:    userRepo,
		movieRepo:   movieRepo,
		showRepo:    showRepo,
		bookingRepo: bookingRepo,
		bookings:    booking.NewService(showRepo, bookingRepo, logger),
	}

	return app, nil
}

func (app *Application) Close() {
	app.db.Close()

	if app.redis != nil {
		app.redis.Close()
	}
}

func newDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func newRedisClient(cfg Config) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	opts.MaxIdleConns = cfg.Redis.MaxIdleConns
	opts.MaxActiveConns = cfg.Redis.MaxOpenConns
	opts.ConnMaxIdleTime = cfg.Redis.MaxIdleTime

	rdb := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware("screenpass-api", otelchi.WithChiRoutes(r)))
	r.Use(app.rateLimit)

	r.Get("/health", app.GetHealth)
	r.Post("/signup", app.SignupHandler)
	r.Post("/login", app.LoginHandler)
	r.Get("/movies", app.ListMoviesHandler)
	r.Get("/movies/{movieId}/shows", app.ListShowsByMovieHandler)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Post("/shows/{showId}/bookings", app.CreateBookingHandler)
		r.Post("/bookings/{bookingId}/cancel", app.CancelBookingHandler)
		r.Get("/users/me/bookings", app.ListMyBookingsHandler)
	})

	return r
}
