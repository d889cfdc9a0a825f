package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/namesmith/namesmith/internal/availability"
	"github.com/namesmith/namesmith/internal/handlers"
	"github.com/namesmith/namesmith/internal/namegen"
	"github.com/namesmith/namesmith/internal/registry"
	"github.com/namesmith/namesmith/pkg/clientip"
	"github.com/namesmith/namesmith/pkg/config"
	"github.com/namesmith/namesmith/pkg/httpserver"
	"github.com/namesmith/namesmith/pkg/logger"
	"github.com/namesmith/namesmith/pkg/ratelimit"
	"github.com/namesmith/namesmith/pkg/redis"
	"github.com/namesmith/namesmith/pkg/requestid"
)

type appConfig struct {
	Env      string        `env:"APP_ENV" envDefault:"development"`
	BatchCap int           `env:"DOMAIN_BATCH_CAP" envDefault:"10"`
	Delay    time.Duration `env:"DOMAIN_CHECK_DELAY" envDefault:"300ms"`
}

type rateLimitConfig struct {
	MaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"30"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Algorithm   string        `env:"RATE_LIMIT_ALGORITHM" envDefault:"sliding_window"`
	Store       string        `env:"RATE_LIMIT_STORE" envDefault:"memory"`

	// Per-client ceiling for the public API, keyed by client IP.
	APIMaxRequests int           `env:"API_RATE_LIMIT_MAX_REQUESTS" envDefault:"60"`
	APIWindow      time.Duration `env:"API_RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, "namesmith"),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, appCfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		httpCfg     httpserver.Config
		registryCfg registry.Config
		genCfg      namegen.Config
		rlCfg       rateLimitConfig
	)
	config.MustLoad(&httpCfg)
	config.MustLoad(&registryCfg)
	config.MustLoad(&genCfg)
	config.MustLoad(&rlCfg)

	limiter, apiLimiter, readiness, err := newLimiters(ctx, rlCfg, log)
	if err != nil {
		return err
	}

	registryClient, err := registry.New(registryCfg, log)
	if err != nil {
		return err
	}
	log.Info("registry client ready", logger.Provider(registryCfg.Provider))

	checker, err := availability.New(registryClient, limiter,
		availability.WithBatchCap(appCfg.BatchCap),
		availability.WithDelay(appCfg.Delay),
		availability.WithLogger(log),
	)
	if err != nil {
		return err
	}

	var generator namegen.Generator
	if genCfg.OpenAIAPIKey != "" {
		generator, err = namegen.NewOpenAIGenerator(namegen.OpenAIConfig{
			APIKey:  genCfg.OpenAIAPIKey,
			Model:   genCfg.Model,
			Timeout: genCfg.Timeout,
		})
		if err != nil {
			return err
		}
	} else {
		generator = namegen.NewRandomGenerator()
		log.Warn("no OPENAI_API_KEY set, using offline name generator")
	}

	names, err := namegen.NewService(generator, checker,
		namegen.WithTLDs(genCfg.TLDs),
		namegen.WithLogger(log),
	)
	if err != nil {
		return err
	}

	api := handlers.New(names, checker, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, readiness...))
	r.Route("/api", func(r chi.Router) {
		r.Use(ratelimit.Middleware(apiLimiter, func(req *http.Request) string {
			return clientip.FromContext(req.Context())
		}))
		r.Mount("/", api.Routes())
	})

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// newLimiters builds the registry-quota limiter and the per-client API
// limiter over the configured store. Redis-backed stores also contribute a
// readiness probe.
func newLimiters(ctx context.Context, cfg rateLimitConfig, log *slog.Logger) (registryLimiter, apiLimiter ratelimit.Limiter, readiness []func(context.Context) error, err error) {
	var (
		windowStore ratelimit.WindowStore
		bucketStore ratelimit.BucketStore
	)

	switch cfg.Store {
	case "redis":
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		store, err := ratelimit.NewRedisStore(client, "namesmith")
		if err != nil {
			return nil, nil, nil, err
		}
		windowStore, bucketStore = store, store
		readiness = append(readiness, redis.Healthcheck(client))
		log.Info("rate limit state shared via redis")
	default:
		store := ratelimit.NewMemoryStore()
		windowStore, bucketStore = store, store
	}

	switch cfg.Algorithm {
	case "token_bucket":
		registryLimiter, err = ratelimit.NewTokenBucket(bucketStore, cfg.MaxRequests, cfg.Window)
	default:
		registryLimiter, err = ratelimit.NewSlidingWindow(windowStore, cfg.MaxRequests, cfg.Window)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	apiLimiter, err = ratelimit.NewSlidingWindow(windowStore, cfg.APIMaxRequests, cfg.APIWindow)
	if err != nil {
		return nil, nil, nil, err
	}

	return registryLimiter, apiLimiter, readiness, nil
}
