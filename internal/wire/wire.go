// Package wire provides dependency injection for the patta application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	cliadapter "github.com/example/patta/internal/adapters/cli"
	"github.com/example/patta/internal/adapters/httpapi"
	"github.com/example/patta/internal/adapters/invoke"
	"github.com/example/patta/internal/adapters/memory"
	"github.com/example/patta/internal/adapters/observability"
	redisstore "github.com/example/patta/internal/adapters/redis"
	"github.com/example/patta/internal/adapters/sqlite"
	"github.com/example/patta/internal/app"
	"github.com/example/patta/internal/config"
	"github.com/example/patta/internal/core/certificate"
	"github.com/example/patta/internal/core/keyspace"
	"github.com/example/patta/internal/core/workflow"
	"github.com/example/patta/internal/db"
	"github.com/example/patta/internal/ports/secondary"
)

// dialTimeout bounds connecting to a networked store.
const dialTimeout = 5 * time.Second

// App is the assembled application: one store, one observer chain and the
// services over them.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Registry   *prometheus.Registry
	Metrics    *observability.Metrics
	Store      secondary.RecordStore
	Services   *app.Services
	Dispatcher *invoke.Dispatcher
}

// Build assembles an App from cfg, logging to logOut.
func Build(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := observability.NewLogger(logOut, cfg.Log.Level, cfg.Log.Format)

	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	observer := observability.Multi{observability.NewSlogObserver(logger), metrics}

	ledger := app.NewLedger(store, keyspace.New(cfg.Store.Namespace), nil, nil, observer)
	services := app.NewServices(ledger, opts)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   reg,
		Metrics:    metrics,
		Store:      store,
		Services:   services,
		Dispatcher: invoke.NewDispatcher(invokeServices(services)),
	}, nil
}

// Options maps configuration onto service options, loading the transition
// table file when one is configured.
func Options(cfg *config.Config) (app.Options, error) {
	opts := app.DefaultOptions()
	opts.EnforceTransitions = cfg.Workflow.EnforceTransitions
	opts.UseIndexes = cfg.Query.UseIndexes
	opts.Certificates = certificate.Options{
		IssuingAuthority: cfg.Certificate.IssuingAuthority,
		AllowReissue:     cfg.Certificate.AllowReissue,
	}

	if path := cfg.Workflow.TransitionsFile; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return app.Options{}, fmt.Errorf("failed to open transitions file: %w", err)
		}
		defer f.Close()

		table, err := workflow.LoadTable(f)
		if err != nil {
			return app.Options{}, fmt.Errorf("%s: %w", path, err)
		}
		opts.Transitions = table
	}
	return opts, nil
}

// OpenStore opens the configured record store backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (secondary.RecordStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendSQLite:
		conn, err := db.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(conn), nil
	case config.BackendRedis:
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		client, err := redisstore.Dial(dialCtx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return newRedisStore(client, cfg.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newRedisStore(client *goredis.Client, namespace string) *redisstore.Store {
	return redisstore.New(client, redisstore.WithKeySet("patta:"+namespace+":keys"))
}

func invokeServices(s *app.Services) invoke.Services {
	return invoke.Services{
		Records:      s.Records,
		Workflow:     s.Workflow,
		History:      s.History,
		Documents:    s.Documents,
		Certificates: s.Certificates,
		Queries:      s.Queries,
		Indexes:      s.Indexes,
	}
}

// HTTPHandler returns the chi router serving the dispatcher and /metrics.
func (a *App) HTTPHandler() http.Handler {
	return httpapi.NewRouter(httpapi.New(a.Dispatcher, a.Logger, a.Registry))
}

// RecordAdapter returns a RecordAdapter writing to out.
func (a *App) RecordAdapter(out io.Writer) *cliadapter.RecordAdapter {
	s := a.Services
	return cliadapter.NewRecordAdapter(s.Records, s.Workflow, s.History, s.Queries, out)
}

// VerificationAdapter returns a VerificationAdapter writing to out.
func (a *App) VerificationAdapter(out io.Writer) *cliadapter.VerificationAdapter {
	s := a.Services
	return cliadapter.NewVerificationAdapter(s.Documents, s.Certificates, s.Indexes, out)
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

var (
	defaultApp *App
	once       sync.Once
)

// Default returns the singleton App built from the working directory's
// config. Configuration or store failures are fatal.
func Default() *App {
	once.Do(initApp)
	return defaultApp
}

// initApp is called once via sync.Once.
func initApp() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defaultApp, err = Build(context.Background(), cfg, os.Stderr)
	if err != nil {
		log.Fatalf("failed to initialize %s store: %v", cfg.Store.Backend, err)
	}
}

// RecordAdapter returns a RecordAdapter over the default App writing to stdout.
func RecordAdapter() *cliadapter.RecordAdapter {
	return Default().RecordAdapter(os.Stdout)
}

// VerificationAdapter returns a VerificationAdapter over the default App
// writing to stdout.
func VerificationAdapter() *cliadapter.VerificationAdapter {
	return Default().VerificationAdapter(os.Stdout)
}
