package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	controller "github.com/clinsys/lab-gateway/internal/adapters/in/http"
	"github.com/clinsys/lab-gateway/internal/adapters/in/rabbitmq"
	"github.com/clinsys/lab-gateway/internal/adapters/out/connection"
	"github.com/clinsys/lab-gateway/internal/adapters/out/logger"
	"github.com/clinsys/lab-gateway/internal/adapters/out/soap"
	"github.com/clinsys/lab-gateway/internal/adapters/out/storage"
	"github.com/clinsys/lab-gateway/internal/adapters/out/usage"
	"github.com/clinsys/lab-gateway/internal/adapters/out/vendors/biocentro"
	"github.com/clinsys/lab-gateway/internal/adapters/out/vendors/labmax"
	"github.com/clinsys/lab-gateway/internal/config"
	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
	"github.com/clinsys/lab-gateway/internal/core/services/configresolver"
	"github.com/clinsys/lab-gateway/internal/core/services/lab_gateway_service"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var rootLogger out.LoggerPort
	if cfg.IsLocal() {
		consoleLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
		if err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		rootLogger = consoleLogger
	} else {
		rootLogger = logger.NewZerologLogger("lab-gateway", string(cfg.App.Env))
	}
	mainLogger := rootLogger.WithModule("Main")

	mainLogger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"databaseEnabled": cfg.Database.DSN != "",
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Stores: relational when a DSN is configured, in-process otherwise.
	var configStore out.ConfigStorePort
	var usageStore out.UsageStorePort
	if cfg.Database.DSN != "" {
		gormStore, err := storage.NewGormStore(cfg.Database.DSN, rootLogger)
		if err != nil {
			mainLogger.Error("app.storage.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		configStore = gormStore
		usageStore = gormStore
	} else {
		memoryStore := storage.NewMemoryStore()
		configStore = memoryStore
		usageStore = memoryStore
		mainLogger.Warn("app.storage.memory_fallback", out.LogFields{
			"message": "DATABASE_DSN is empty, tenant configuration will not survive restarts",
		})
	}

	resolver := configresolver.NewResolver(
		configStore,
		domain.TemplateRegistry(),
		cfg.ProcessDefaults,
		rootLogger,
	)

	soapFactory := soap.NewFactory(rootLogger)
	pool, err := connection.NewManager(
		resolver,
		map[string]out.ClientFactory{
			domain.TemplateLabmax:    soapFactory,
			domain.TemplateBiocentro: soapFactory,
		},
		connection.ManagerOptions{
			ClientTTL: cfg.Connection.ClientTTL,
			TokenTTL:  cfg.Connection.TokenTTL,
			CacheSize: cfg.Connection.ClientCacheSize,
		},
		rootLogger,
	)
	if err != nil {
		mainLogger.Error("app.connection.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	tracker := usage.NewTracker(usageStore, connection.RealClock(), cfg.Connection.FailureThreshold, rootLogger)

	gatewayService := lab_gateway_service.NewService(
		pool,
		resolver,
		[]out.LabVendorPort{
			labmax.NewAdapter(rootLogger),
			biocentro.NewAdapter(pool, rootLogger),
		},
		tracker,
		rootLogger,
	)

	router := gin.Default()
	gatewayController := controller.NewLabGatewayController(gatewayService, cfg)
	gatewayController.RegisterRoutes(router)

	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewRotationListener(pool, cfg, rootLogger)
		if err != nil {
			mainLogger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			mainLogger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				mainLogger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		mainLogger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			mainLogger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	mainLogger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
