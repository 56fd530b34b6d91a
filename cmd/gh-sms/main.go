package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kevinmichaelchen/gh-sms/internal/reply"
	"github.com/kevinmichaelchen/gh-sms/internal/webhook"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:          "gh-sms",
		Short:        "Talk to GitHub over SMS",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(serveCmd(v), askCmd(v), whoamiCmd(v))
	return root
}

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the SMS webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(v)
			if err != nil {
				return err
			}

			if a.github.Authenticated() {
				if login, err := a.github.AuthenticatedUser(ctx); err != nil {
					a.log.Warnw("could not identify GitHub token owner", "error", err)
				} else {
					a.log.Infow("authenticated to GitHub", "login", login)
				}
			} else {
				a.log.Warnw("GITHUB_TOKEN not set; using unauthenticated GitHub API")
			}

			h := webhook.NewHandler(a.interpreter, a.cfg.RequestTimeout, a.log)
			addr := fmt.Sprintf(":%d", a.cfg.Port)
			return serve(ctx, addr, h.Router(), a.cfg.ShutdownTimeout, a.log, a.close)
		},
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides PORT)")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
// The cleanup hooks run after the server stops, within the same timeout.
func serve(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, log *zap.SugaredLogger, cleanup ...func(context.Context) error) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down", "timeout", shutdownTimeout)
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		for _, fn := range cleanup {
			err = errors.Join(err, fn(sctx))
		}
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func askCmd(v *viper.Viper) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Run one message through the interpreter and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(v)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(context.Background()) }()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
			defer cancel()

			text := a.interpreter.Reply(ctx, strings.Join(args, " "))
			if !plain {
				text = reply.Render(text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the reply text without the XML envelope")
	return cmd
}

func whoamiCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the login that owns GITHUB_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(v)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(context.Background()) }()

			if !a.github.Authenticated() {
				return errors.New("GITHUB_TOKEN is not set")
			}
			login, err := a.github.AuthenticatedUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), login)
			return nil
		},
	}
}
