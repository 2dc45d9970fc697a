// Package main Order Management API
//
// Backend for the order-management domain: customers, products and
// orders with document numbering, pricing and lifecycle actions.
//
//	@title			Order Management API
//	@version		1.0
//	@description	Order management backend (customers, products, orders)
//
//	@contact.name	API Support
//	@contact.email	support@example.com
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//	@schemes	http https
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ordermgmt/docs/swagger"
	customeradapters "ordermgmt/internal/customers/adapters"
	customerapp "ordermgmt/internal/customers/application"
	customerhttp "ordermgmt/internal/customers/infrastructure"
	customerports "ordermgmt/internal/customers/ports"
	orderadapters "ordermgmt/internal/orders/adapters"
	orderapp "ordermgmt/internal/orders/application"
	orderhttp "ordermgmt/internal/orders/infrastructure"
	orderports "ordermgmt/internal/orders/ports"
	productadapters "ordermgmt/internal/products/adapters"
	productapp "ordermgmt/internal/products/application"
	producthttp "ordermgmt/internal/products/infrastructure"
	productports "ordermgmt/internal/products/ports"
	"ordermgmt/pkg/config"
	"ordermgmt/pkg/db"
	"ordermgmt/pkg/events"
	"ordermgmt/pkg/logger"
	"ordermgmt/pkg/middleware"
	"ordermgmt/pkg/rabbitmq"
	pkgtls "ordermgmt/pkg/tls"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("starting order management backend")

	// Connect to database
	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Initialize repositories and run migrations
	customerRepo := customeradapters.NewPostgresCustomerRepository(dbConn)
	productRepo := productadapters.NewPostgresProductRepository(dbConn)
	orderRepo := orderadapters.NewPostgresOrderRepository(dbConn)

	if err := customerRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate customers: " + err.Error())
	}
	if err := productRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate products: " + err.Error())
	}
	if err := orderRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate orders: " + err.Error())
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to RabbitMQ
	var customerPublisher customerports.EventPublisher
	var productPublisher productports.EventPublisher
	var orderPublisher orderports.EventPublisher

	if cfg.EventsDisabled {
		log.Info("events disabled by configuration")
	} else if rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log); err != nil {
		log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
	} else {
		defer rabbitConn.Close()

		if pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeCustomers, log); err != nil {
			log.Warn("failed to create customers publisher: " + err.Error())
		} else {
			customerPublisher = customeradapters.NewRabbitMQPublisher(pub, log)
		}
		if pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeProducts, log); err != nil {
			log.Warn("failed to create products publisher: " + err.Error())
		} else {
			productPublisher = productadapters.NewRabbitMQPublisher(pub, log)
		}
		if pub, err := rabbitmq.NewPublisher(rabbitConn, events.ExchangeOrders, log); err != nil {
			log.Warn("failed to create orders publisher: " + err.Error())
		} else {
			orderPublisher = orderadapters.NewRabbitMQPublisher(pub, log)
		}

		// Price changes interest the order desk
		if consumer, err := orderadapters.NewPriceChangeConsumer(rabbitConn, log); err != nil {
			log.Warn("failed to create price change consumer: " + err.Error())
		} else if err := consumer.Start(ctx); err != nil {
			log.Warn("failed to start price change consumer: " + err.Error())
		}
	}

	// Initialize use cases
	customerUseCase := customerapp.NewCustomerUseCase(
		customerRepo,
		customeradapters.NewGormOrderReader(dbConn),
		customerPublisher,
		log,
		cfg.SequenceRetries,
	)
	productUseCase := productapp.NewProductUseCase(
		productRepo,
		productPublisher,
		log,
		cfg.SequenceRetries,
	)
	orderUseCase := orderapp.NewOrderUseCase(
		orderRepo,
		orderadapters.NewGormProductStore(dbConn),
		orderadapters.NewGormCustomerStore(dbConn),
		orderPublisher,
		log,
		cfg.SequenceRetries,
	)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.ActingUser())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())

	api := router.Group("/api/v1")
	customerhttp.NewHTTPHandler(customerUseCase).RegisterRoutes(api)
	producthttp.NewHTTPHandler(productUseCase).RegisterRoutes(api)
	orderhttp.NewHTTPHandler(orderUseCase).RegisterRoutes(api)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	if cfg.TLSEnabled {
		startHTTPSServer(cfg, log, router, ctx)
	} else {
		startHTTPServer(cfg, log, router, ctx)
	}
}

func startHTTPServer(cfg *config.Config, log *logger.Logger, router *gin.Engine, ctx context.Context) {
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info("HTTP server listening on http://localhost:" + cfg.HTTPPort)
		log.Info("Swagger UI: http://localhost:" + cfg.HTTPPort + "/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	waitForShutdown(server, log, ctx)
}

func startHTTPSServer(cfg *config.Config, log *logger.Logger, router *gin.Engine, ctx context.Context) {
	tlsConfig, err := pkgtls.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		log.Fatal("failed to load TLS config: " + err.Error())
	}

	server := &http.Server{
		Addr:         ":" + cfg.HTTPSPort,
		Handler:      router,
		TLSConfig:    tlsConfig,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	go func() {
		log.Info("HTTPS server listening on https://localhost:" + cfg.HTTPSPort)
		log.Info("Swagger UI: https://localhost:" + cfg.HTTPSPort + "/swagger/index.html")
		if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTPS server error: " + err.Error())
		}
	}()

	waitForShutdown(server, log, ctx)
}

func waitForShutdown(server *http.Server, log *logger.Logger, ctx context.Context) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}
