package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/handler"
	"github.com/mmynk/splitbill/internal/service"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/internal/storage/sqlstore"
)

func (a *app) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	store, err := sqlstore.Open(ctx, a.storeOptions())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	a.logger.Info("Storage initialized", "driver", a.cfg.Database.Driver)

	srv := &http.Server{
		Addr: a.cfg.Addr(),
		// h2c serves HTTP/2 clients without TLS.
		Handler:      h2c.NewHandler(a.buildHandler(store), &http2.Server{}),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Server starting", "address", srv.Addr, "auth_required", a.cfg.Auth.Required)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("Server stopped")
	return nil
}

// buildHandler assembles services over store and returns the routed handler.
func (a *app) buildHandler(store storage.Store) http.Handler {
	jwtManager := auth.NewJWTManager(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return handler.New(handler.Options{
		Services: handler.Services{
			Bills:          service.NewBillService(store, a.logger),
			Analytics:      service.NewAnalyticsService(store, a.logger),
			Users:          service.NewUserService(store, authenticator, jwtManager, a.logger),
			Friends:        service.NewFriendService(store, a.logger),
			PaymentMethods: service.NewPaymentMethodService(store, a.logger),
			FCMTokens:      service.NewFCMTokenService(store, a.logger),
			Receipts:       service.NewReceiptService(a.logger),
		},
		Health:         store,
		Logger:         a.logger,
		JWT:            jwtManager,
		RequireAuth:    a.cfg.Auth.Required,
		Registry:       reg,
		MaxUploadBytes: a.cfg.Receipts.MaxUploadBytes,
	})
}
