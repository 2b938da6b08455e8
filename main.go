package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SamarthKalavadia/hospital-management-system/internal/app"
	"github.com/SamarthKalavadia/hospital-management-system/internal/config"
	"github.com/SamarthKalavadia/hospital-management-system/internal/inventory"
	"github.com/SamarthKalavadia/hospital-management-system/internal/logger"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "hospital",
		Short:         "Clinic appointments, inventory and prescriptions server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads .env (optional), configuration and the logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, zerolog.Nop(), fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(cfg.Environment, cfg.LogLevel), nil
}

// withApp runs fn against a fully wired App and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("shutdown incomplete")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return fn(ctx, a)
}

func serveCmd() *cobra.Command {
	var noSweeps bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the appointment sweeps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return runServer(ctx, a, !noSweeps)
			})
		},
	}
	cmd.Flags().BoolVar(&noSweeps, "no-sweeps", false, "do not run auto-complete and reminder sweeps")
	return cmd
}

func runServer(ctx context.Context, a *app.App, sweeps bool) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           routes.NewRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, cancelSweeps := context.WithCancel(ctx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		if sweeps {
			a.Sweeps.Run(sweepCtx)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.Log.Info().Msg("shutting down server")
	case serveErr = <-errCh:
	}

	cancelSweeps()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Log.Error().Err(err).Msg("server shutdown failed")
	}
	<-sweepDone
	a.Log.Info().Msg("server stopped")
	return serveErr
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				if err := models.Migrate(a.DB.WithContext(ctx)); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				a.Log.Info().Msg("migrations applied")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the standard medicine list with random opening stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				res, err := inventory.Seed(ctx, a.Medicines, rand.New(rand.NewSource(seed)), a.Log)
				if err != nil {
					return err
				}
				a.Log.Info().Int("inserted", res.Inserted).Int("skipped", res.Skipped).Msg("medicines seeded")
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for opening quantities (0 uses the clock)")
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run the auto-complete and reminder sweeps once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				completed, reminded, err := a.Sweeps.RunOnce(ctx)
				a.Log.Info().
					Interface("completed", completed).
					Interface("reminded", reminded).
					Msg("sweeps finished")
				return err
			})
		},
	}
}
