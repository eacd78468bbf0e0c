package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/walker-demo/config"
	domain "github.com/example/walker-demo/domain/walker"
	"github.com/example/walker-demo/middleware/invocationlog"
	"github.com/example/walker-demo/modules/httpserver"
	"github.com/example/walker-demo/modules/walker"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("=== Walker Demo ===")
	log.Printf("HTTP address: %s", cfg.HTTPAddr)
	log.Printf("NATS port: %d", cfg.NATSPort)

	registry, err := domain.NewRegistry(domain.Builtin()...)
	if err != nil {
		log.Fatalf("Failed to build walker registry: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == "error" {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
		mono.WithNATSPort(cfg.NATSPort),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// Middleware must be registered first to intercept service registrations
	if err := app.Register(invocationlog.New(logger,
		invocationlog.WithServices(walker.ServiceNames(registry.Names())...),
		invocationlog.WithInvocationIDHeader(walker.InvocationIDHeader),
	)); err != nil {
		log.Fatalf("Failed to register invocation-log middleware: %v", err)
	}

	if err := app.Register(walker.NewModule(registry, logger)); err != nil {
		log.Fatalf("Failed to register walker module: %v", err)
	}
	if err := app.Register(httpserver.NewModule(httpserver.Config{
		Addr:               cfg.HTTPAddr,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		IdleTimeout:        60 * time.Second,
	}, registry, logger)); err != nil {
		log.Fatalf("Failed to register http-server module: %v", err)
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg, registry)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config, registry *domain.Registry) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Walker services (NATS request-reply):")
	for _, name := range registry.Names() {
		log.Printf("  services.%s.%s (%s)", walker.ModuleName, walker.ServiceName(name), name)
	}
	log.Println("")
	log.Printf("HTTP endpoints (%s):", cfg.HTTPAddr)
	log.Println("  POST /walker/:name - Invoke a walker with a JSON object of fields")
	log.Println("  GET  /walkers      - List walkers and their fields")
	log.Println("  GET  /health       - Health check")
	log.Println("")
	log.Println(`Example: curl -X POST localhost:8000/walker/calculate_sum -d '{"num1":2,"num2":40}'`)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
