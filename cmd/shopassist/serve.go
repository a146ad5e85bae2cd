package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/shop-assist/internal/certs"
	"github.com/Veraticus/shop-assist/internal/config"
	"github.com/Veraticus/shop-assist/internal/notify"
	"github.com/Veraticus/shop-assist/internal/reconcile"
	"github.com/Veraticus/shop-assist/internal/server"
	"github.com/Veraticus/shop-assist/internal/symptom"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP host for the browser extension",
		Long: `Serve the observation endpoint the browser extension relays shop traffic to,
plus symptom matching, job search, labor rate group admin, a refresh event
stream, and Prometheus metrics. When nats.url is set, refresh notifications are
also published to NATS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			broadcaster := notify.NewBroadcaster()
			sinks := notify.MultiSink{broadcaster}

			if url := viper.GetString("nats.url"); url != "" {
				nc, err := nats.Connect(url, nats.Name("shopassist"))
				if err != nil {
					return fmt.Errorf("failed to connect to NATS: %w", err)
				}
				defer nc.Close()

				natsSink, err := notify.NewNATSSink(nc)
				if err != nil {
					return err
				}
				sinks = append(sinks, natsSink)
				slog.Info("Publishing refresh notifications to NATS", "url", url)
			}

			metrics := reconcile.NewMetrics(prometheus.DefaultRegisterer)
			sessions := reconcile.NewSessionStore()
			orders := tekmetric.NewOrderClient(config.LoadTekmetric().BaseURL, nil)
			recon := reconcile.NewReconciler(orders, store, sessions, sinks, metrics)

			host := reconcile.NewHost(ctx, recon, sessions, metrics)
			host.OnOutcome(func(o reconcile.Outcome) {
				slog.Info("Reconciled order", "order_id", o.OrderID, "outcome", o.String())
			})

			srvCfg := &server.Config{
				Host: viper.GetString("server.host"),
				Port: viper.GetInt("server.port"),
			}
			if viper.GetBool("server.tls") {
				manager := certs.NewFileManager(config.ExpandPath(viper.GetString("server.cert_dir")))
				srvCfg.TLS = manager
				slog.Info("Serving HTTPS with self-signed certificate", "cert", manager.CertFile())
			}

			srv, err := server.New(server.Deps{
				Host:        host,
				Matcher:     symptom.NewDefaultMatcher(),
				Store:       store,
				Broadcaster: broadcaster,
				Gatherer:    prometheus.DefaultGatherer,
			}, srvCfg)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server failed: %w", err)
				}
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("HTTP server shutdown failed", "error", err)
			}
			host.Wait()
			return nil
		},
	}

	cmd.Flags().String("host", "localhost", "listen host")
	cmd.Flags().Int("port", 8787, "listen port")
	cmd.Flags().String("nats-url", "", "NATS server URL for refresh notifications")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	cmd.Flags().String("cert-dir", "~/.config/shopassist/certs", "directory for the self-signed certificate")
	_ = viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("nats.url", cmd.Flags().Lookup("nats-url"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))
	_ = viper.BindPFlag("server.cert_dir", cmd.Flags().Lookup("cert-dir"))

	return cmd
}
