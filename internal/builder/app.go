package builder

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App owns the HTTP server and the database pool for their whole lifetime.
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Run serves until SIGINT/SIGTERM or a listener error, then shuts down
// gracefully. In-flight chat requests get shutdownTimeout to finish.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("serving", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("listener failed", zap.Error(err))
		return err
	case sig := <-sigChan:
		a.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("draining in-flight requests")
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown failed", zap.Error(err))
		return err
	}

	// The pool closes after the server so handlers never see a dead pool.
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("stopped")
	return nil
}
