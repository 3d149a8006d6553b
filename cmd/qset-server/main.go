// main.go is the entry point for qset-server, a RESP server holding named
// quicksets.
//
// Startup
// =======
//
// The YAML file named by -config, if any, supplies the default set
// configuration and a list of sets to create before the listener opens.
// A configuration that cannot build every set aborts startup.
//
// Clients cannot create a set whose span exceeds -max-span; sets listed in
// the file are exempt.
//
// Sets live only in memory. A restart starts from the configured sets with
// every counter at zero.
//
// Admin Endpoint
// ==============
//
// When -http is set, an HTTP server on that address serves Prometheus
// metrics, a health check and a read-only JSON view of individual sets.
// It shuts down together with the RESP listener.

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"qset.lopezb.com/internal/quickset"
)

type config struct {
	port            int
	maxConnections  int
	shutdownTimeout time.Duration
	idleTimeout     time.Duration
	httpAddr        string
	configPath      string
	maxSpan         int
}

// defaultMaxSpan bounds a client-created set to 4 MiB of 32-bit counters.
const defaultMaxSpan = 1<<20 - 1

type application struct {
	config      config
	logger      *slog.Logger
	listener    net.Listener
	store       *Store
	router      *Router
	metrics     *Metrics
	registry    *prometheus.Registry
	admin       *http.Server
	defaults    quickset.Config
	readyCh     chan struct{}
	wg          sync.WaitGroup
	connLimiter chan struct{}
}

// newApplication wires the store, router and metrics. It does not listen.
func newApplication(cfg config, logger *slog.Logger, defaults quickset.Config) (*application, error) {
	// Write commands create missing keys from defaults, so they obey the
	// same limit as QS.CREATE.
	if defaults.Span > cfg.maxSpan {
		return nil, fmt.Errorf("default span %d exceeds max span %d", defaults.Span, cfg.maxSpan)
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		store:       NewStore(),
		registry:    prometheus.NewRegistry(),
		defaults:    defaults,
		connLimiter: make(chan struct{}, cfg.maxConnections),
	}

	app.metrics = NewMetrics(
		func() int { return len(app.connLimiter) },
		app.store.Len,
	)
	if err := app.metrics.Register(app.registry); err != nil {
		return nil, err
	}

	app.router = app.commands()
	return app, nil
}

// createSets builds every preset set from the configuration file.
func (app *application) createSets(sets map[string]quickset.Config) error {
	for name, setCfg := range sets {
		if _, err := app.store.Create(name, func() (*quickset.Set, error) {
			return quickset.New(setCfg)
		}); err != nil {
			return err
		}
		app.logger.Info("created set", "key", name, "mode", setCfg.Mode, "span", setCfg.Span, "slot", setCfg.Slot)
	}
	return nil
}

func main() {
	var cfg config

	flag.IntVar(&cfg.port, "port", 6479, "TCP server port")
	flag.IntVar(&cfg.maxConnections, "max-conn", 100, "Maximum concurrent connections")
	flag.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 5*time.Second, "Graceful shutdown timeout")
	flag.DurationVar(&cfg.idleTimeout, "idle-timeout", 0, "Idle client connection timeout (0 for no timeout)")
	flag.StringVar(&cfg.httpAddr, "http", ":9479", "Admin HTTP address for metrics and set views (empty to disable)")
	flag.StringVar(&cfg.configPath, "config", "", "YAML file with set defaults and preset sets")
	flag.IntVar(&cfg.maxSpan, "max-span", defaultMaxSpan, "Largest span a client may request for a set")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	fileCfg, err := LoadConfig(cfg.configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err, "path", cfg.configPath)
		os.Exit(1)
	}

	app, err := newApplication(cfg, logger, fileCfg.Defaults)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := app.createSets(fileCfg.Sets); err != nil {
		logger.Error("failed to create preset sets", "error", err)
		os.Exit(1)
	}

	if cfg.httpAddr != "" {
		app.admin = &http.Server{
			Addr:              cfg.httpAddr,
			Handler:           app.adminRoutes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin server starting", "address", cfg.httpAddr)
			if err := app.admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("admin server failed", "error", err)
			}
		}()
	}

	if err := app.serve(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
