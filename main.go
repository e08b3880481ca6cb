package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/michael1011/web3-proxy/pkg/log"
	"github.com/michael1011/web3-proxy/pkg/proxy"
	"github.com/michael1011/web3-proxy/pkg/upstream"
)

// Exit statuses.
const (
	exitFailure           = 1
	exitInvalidConfig     = 2
	exitUpstreamUnreached = 3
)

const shutdownTimeout = 5 * time.Second

func main() {
	var logConf log.Config
	if err := cleanenv.ReadEnv(&logConf); err != nil {
		fmt.Fprintln(os.Stderr, "failed to read logger configuration:", err)
		os.Exit(exitInvalidConfig)
	}
	logger := log.NewZapLogger(logConf).WithName("web3-proxy")
	logger.Info("starting web3-proxy")

	config, err := LoadConfig(logger)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(exitInvalidConfig)
	}

	// Incoming traceparent headers become the parent of request spans.
	otel.SetTextMapPropagator(propagation.TraceContext{})

	dialCtx, cancel := context.WithTimeout(context.Background(), config.StartupTimeout)
	client, err := upstream.Dial(dialCtx, config.UpstreamURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to upstream", "error", err)
		os.Exit(exitUpstreamUnreached)
	}
	defer client.Close()

	chainID, head, err := checkUpstream(client, config.StartupTimeout)
	if err != nil {
		logger.Error("upstream is not reachable", "error", err)
		os.Exit(exitUpstreamUnreached)
	}
	logger.Info("upstream connected", "chainID", chainID, "headBlock", head)

	metrics := proxy.NewMetrics()

	engine, err := config.policy.NewEngine(proxy.InstrumentHead(client, metrics))
	if err != nil {
		logger.Error("failed to build policy", "error", err)
		os.Exit(exitInvalidConfig)
	}
	logger.Info("policy loaded", "rules", engine.Bindings())

	handler := proxy.NewHandler(engine, client, metrics, config.MaxBodyBytes, logger)
	rpcServer := &http.Server{
		Addr:    config.ListenAddr,
		Handler: proxy.NewServerHandler(handler, config.InfoBanner),
	}

	var metricsServer *http.Server
	if config.MetricsListenAddr != "" {
		metricsEndpoint := "/metrics"
		// Set up a separate mux for metrics
		metricsMux := http.NewServeMux()
		metricsMux.Handle(metricsEndpoint, promhttp.Handler())

		metricsServer = &http.Server{
			Addr:    config.MetricsListenAddr,
			Handler: metricsMux,
		}

		go func() {
			logger.Info("Prometheus metrics available", "listenAddr", config.MetricsListenAddr, "endpoint", metricsEndpoint)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failure", "error", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("proxy server available", "listenAddr", config.ListenAddr)
		if err := rpcServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal or a listener failure.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-stop:
		logger.Info("shutting down")
	case err := <-serverErr:
		logger.Error("proxy server failure", "error", err)
		exitCode = exitFailure
	}

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("failed to shut down metrics server", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := rpcServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down proxy server", "error", err)
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		client.Close()
		os.Exit(exitCode)
	}
}
