package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpHandler "github.com/anthanhphan/gridstore/internal/adapter/inbound/http"
	"github.com/anthanhphan/gridstore/internal/config"
	"github.com/anthanhphan/gridstore/internal/metrics"
	"github.com/anthanhphan/gridstore/internal/service"
	"github.com/anthanhphan/gridstore/pkg/idgen"
	"github.com/anthanhphan/gosdk/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg     *config.Config
	backend *backend
	service *service.FileServiceImpl
	server  *httpHandler.Server
}

func New(configPath string) (*App, error) {
	// 1. Load Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	// 3. Open the backing store selected by STORE_URI
	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	b, err := openBackend(openCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// 4. Snowflake IDGen
	idGen, err := idgen.New(cfg.App.NodeID, b.clock)
	if err != nil {
		_ = b.store.Close()
		return nil, fmt.Errorf("failed to init snowflake: %w", err)
	}

	// 5. Services
	m := metrics.New()
	svc := service.NewFileService(cfg, service.Dependencies{
		Chunks:  b.chunks,
		Catalog: b.catalog,
		Store:   b.store,
		IDGen:   idGen,
		Metrics: m,
	})

	// 6. HTTP Server
	httpServer := httpHandler.NewServer(cfg, svc, m.Registry)

	return &App{
		cfg:     cfg,
		backend: b,
		service: svc,
		server:  httpServer,
	}, nil
}

func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Sweeper.Enabled {
		go a.service.StartSweeper(ctx, a.cfg.SweepInterval())
	}

	// Start HTTP
	logger.Infow("File server starting", "addr", a.cfg.Server.Addr, "store", redactURI(a.cfg.Store.URI))
	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		runErr = fmt.Errorf("http server failed: %w", err)
		logger.Errorw("File server exited unexpectedly", "error", err.Error())
	}

	logger.Info("Shutting down file services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		logger.Errorw("HTTP shutdown error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}

	a.service.Close()
	if err := a.backend.store.Close(); err != nil {
		logger.Errorw("Store close error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}

	return runErr
}
