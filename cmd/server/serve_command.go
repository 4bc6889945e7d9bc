package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/connect-onboarding/identity"
	"github.com/jrsteele09/connect-onboarding/internal/config"
	"github.com/jrsteele09/connect-onboarding/onboarding"
	"github.com/jrsteele09/connect-onboarding/payments/stripegateway"
	"github.com/jrsteele09/connect-onboarding/server"
	"github.com/jrsteele09/connect-onboarding/server/authflowrepo"
	"github.com/jrsteele09/connect-onboarding/sessions"
	"github.com/jrsteele09/connect-onboarding/sessions/redisrepo"
	"github.com/jrsteele09/connect-onboarding/tenants/boltrepo"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the onboarding web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, config.New())
		},
	}
}

func run(ctx context.Context, c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	if err := config.Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	displayAppname(c.GetAppName())

	tenantRepo, err := boltrepo.Open(c.GetDataFile())
	if err != nil {
		return err
	}
	defer closeLogged("tenant store", tenantRepo)

	sessionRepo, closeSessions, err := openSessionRepo(ctx, c)
	if err != nil {
		return err
	}
	defer closeLogged("session store", closeSessions)

	cookies, err := sessions.NewCookieCodec(c.GetAppSecretKey(), c.GetAppName())
	if err != nil {
		return err
	}

	gateway := stripegateway.New(stripegateway.Options{
		APIKey:            c.GetStripeAPIKey(),
		BaseURL:           c.GetStripeAPIURL(),
		MaxNetworkRetries: c.GetStripeMaxNetworkRetries(),
		HTTPClient:        &http.Client{Timeout: 80 * time.Second},
		Logger:            log.Logger,
	})

	srv, err := server.New(c, server.Deps{
		Tenants: tenantRepo,
		Onboarding: onboarding.NewService(tenantRepo, gateway, onboarding.Options{
			Country:   c.GetAccountCountry(),
			Currency:  c.GetPayoutCurrency(),
			ReturnURL: c.GetOnboardingReturnURL(),
		}),
		Sessions: sessionRepo,
		Cookies:  cookies,
		Identity: identity.NewOIDCProvider(identity.OIDCConfig{
			Issuer:       c.GetIssuer(),
			ClientID:     c.GetClientID(),
			ClientSecret: c.GetClientSecret(),
			RedirectURL:  c.GetCallbackURL(),
			LogoutPath:   c.GetLogoutPath(),
		}),
		AuthFlows: authflowrepo.NewInMemoryRepo(authflowrepo.DefaultTTL),
	})
	if err != nil {
		return fmt.Errorf("[run] failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- listenAndServe(httpServer) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	returnError = shutdown(httpServer)
	log.Info().Msg("Server stopped")
	return returnError
}

func openSessionRepo(ctx context.Context, c config.Config) (sessions.Repo, io.Closer, error) {
	if c.GetSessionBackend() != config.SessionBackendRedis {
		return sessions.NewInMemoryRepo(), closerFunc(func() error { return nil }), nil
	}
	repo, err := redisrepo.Dial(ctx, c.GetRedisAddr())
	if err != nil {
		return nil, nil, err
	}
	return repo, repo, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func closeLogged(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Err(err).Str("store", name).Msg("Close failed")
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
