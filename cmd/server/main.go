// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Annany2002/nebula-gateway/api"
	"github.com/Annany2002/nebula-gateway/config"
	"github.com/Annany2002/nebula-gateway/internal/logger"
	"github.com/Annany2002/nebula-gateway/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	root := &cli.Command{
		Name:  "nebula-gateway",
		Usage: "Generic HTTP CRUD gateway over a relational schema",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, "")
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		customLog.Fatalf("nebula-gateway: %v", err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server (default)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides SERVER_PORT"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, c.String("port"))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the gateway's own migrations and exit",
		Action: func(ctx context.Context, c *cli.Command) error {
			_, db, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Migrate(ctx)
		},
	}
}

// bootstrap loads configuration, configures the logger and opens the pool.
func bootstrap(ctx context.Context) (*config.Config, *storage.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, nil, err
	}

	db, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runServer(ctx context.Context, port string) error {
	customLog.Println("Starting Nebula Gateway server...")

	cfg, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		customLog.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			customLog.Printf("Error closing database: %v", err)
		}
	}()

	if port != "" {
		cfg.ServerPort = port
	}

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.SetupRouter(db, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		customLog.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	customLog.Println("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	customLog.Println("Server stopped.")
	return nil
}
