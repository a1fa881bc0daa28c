package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/ebaa-alsaad/archive/internal/adapter/utils"
	"github.com/ebaa-alsaad/archive/internal/config"
	"github.com/ebaa-alsaad/archive/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	Drained          chan struct{}
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// CreateServer exposes the prometheus scrape endpoint while uploads run.
// It blocks until the listener closes, so callers start it on a goroutine.
func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Metrics server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Metrics server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

// ShutDownHandler blocks until the intake drains or an interrupt arrives,
// then tears down the metrics server and the worker pool. Reports whether
// the run was cut short.
func ShutDownHandler(shutdownParams ShutdownParams) bool {
	logger := logger_i.NewLogger("Shutdown")

	interrupted := false
	select {
	case <-shutdownParams.Drained:
	case state := <-shutdownParams.GracefulShutdown:
		println("\nShutting down", state)
		interrupted = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)

			if err := server.Shutdown(ctx); err != nil {
				logger.Error("Could not shutdown gracefully: %s", err)
			}
		}

		//close workers; on interrupt skip the wait, they may be mid-upload
		close(shutdownParams.WorkerStop)
		if !interrupted {
			shutdownParams.Group.Wait()
		}
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Workers stopped")
	case <-ctx.Done():
		logger.Info("Force Shut down")
		os.Exit(1)
	}
	return interrupted
}
