package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryotel "github.com/getsentry/sentry-go/otel"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/domain"
	sorlog "github.com/plunderswap/sor/log"
)

const envPrefix = "SOR"

// @title           Smart Order Router API
// @version         1.0
func main() {
	configPath := flag.String("config", "config.json", "config file location")

	hostName := flag.String("host", "sor", "the name of the host")

	isDebug := flag.Bool("debug", false, "debug mode")

	// Parse the command-line arguments
	flag.Parse()

	if *isDebug {
		log.Println("Service RUN on DEBUG mode")
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Handle SIGINT and SIGTERM signals to initiate shutdown
	exitChan := make(chan os.Signal, 1)
	signal.Notify(exitChan, os.Interrupt, syscall.SIGTERM)

	if config.OTEL != nil && config.OTEL.DSN != "" {
		otelConfig := config.OTEL

		// only the quote endpoint is traced at the configured rate
		var traceSampler sentry.TracesSampler = func(ctx sentry.SamplingContext) float64 {
			if ctx.Span == nil {
				return 0
			}
			if ctx.Span.Name == "/router/quote" {
				return otelConfig.TracesSampleRate
			}
			return 0
		}

		err = sentry.Init(sentry.ClientOptions{
			ServerName:         *hostName,
			Dsn:                otelConfig.DSN,
			SampleRate:         otelConfig.SampleRate,
			EnableTracing:      otelConfig.EnableTracing,
			Debug:              *isDebug,
			TracesSampler:      traceSampler,
			ProfilesSampleRate: otelConfig.ProfilesSampleRate,
			Environment:        otelConfig.Environment,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Flush(2 * time.Second)

		sentry.CaptureMessage("SOR started")

		initOTELTracer(*hostName)
	}

	// logger
	logger, err := sorlog.NewLogger(config.LoggerIsProduction, config.LoggerFilename, config.LoggerLevel)
	if err != nil {
		panic(fmt.Errorf("error while creating logger: %s", err))
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger.Info("Starting smart order router", zap.Uint64("chain_id", uint64(config.ChainID)))

	// Use context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routerServer, err := NewRouterServer(ctx, *config, logger)
	if err != nil {
		logger.Fatal("failed to create router server", zap.Error(err))
		return
	}

	go func() {
		<-exitChan
		cancel() // Trigger shutdown

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := routerServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down", zap.Error(err))
		}
	}()

	if err := routerServer.Start(ctx); err != nil {
		logger.Fatal("router server stopped", zap.Error(err))
	}
}

// loadConfig reads the config file on top of DefaultConfig.
// Environment variables prefixed with SOR_ override file values,
// e.g. SOR_ROUTER_MAX_HOPS overrides router.max-hops.
func loadConfig(configPath string) (*domain.Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	config := newDefaultConfig()
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// newDefaultConfig copies DefaultConfig so that unmarshalling does not write through its pointers.
func newDefaultConfig() domain.Config {
	config := DefaultConfig
	config.Contracts = copyOf(DefaultConfig.Contracts)
	config.Router = copyOf(DefaultConfig.Router)
	config.Pools = copyOf(DefaultConfig.Pools)
	config.Pricing = copyOf(DefaultConfig.Pricing)
	config.Tokens = copyOf(DefaultConfig.Tokens)
	config.CORS = copyOf(DefaultConfig.CORS)
	config.OTEL = copyOf(DefaultConfig.OTEL)
	return config
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// initOTELTracer initializes the OTEL tracer
// and wires it up with the Sentry exporter.
func initOTELTracer(hostName string) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("stdouttrace.New: %v", err)
	}

	resource, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(hostName),
		),
	)
	if err != nil {
		log.Fatalf("resource.New: %v", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
		sdktrace.WithSpanProcessor(sentryotel.NewSentrySpanProcessor()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(sentryotel.NewSentryPropagator())
}
