package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ezwallet/internal/auth"
	"ezwallet/internal/handler"
	"ezwallet/internal/repository"
	"ezwallet/internal/service"
	"ezwallet/pkg/config"
	"ezwallet/pkg/database"
	"ezwallet/pkg/logger"
	"ezwallet/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting EZWallet...")

	ctx := context.Background()

	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Repositories
	userRepo := repository.NewPostgresUserRepository(db.Pool())
	categoryRepo := repository.NewPostgresCategoryRepository(db.Pool())
	transactionRepo := repository.NewPostgresTransactionRepository(db.Pool())
	groupRepo := repository.NewPostgresGroupRepository(db.Pool())

	// Session tokens
	codec := auth.NewCodec([]byte(cfg.JWT.Secret), cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	verifier := auth.NewVerifier(codec)

	// Services
	authService := service.NewAuthService(userRepo, codec)
	userService := service.NewUserService(userRepo, transactionRepo, groupRepo)
	categoryService := service.NewCategoryService(categoryRepo, transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, userRepo, groupRepo)
	groupService := service.NewGroupService(groupRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, verifier, codec)
	userHandler := handler.NewUserHandler(userService, verifier, codec)
	categoryHandler := handler.NewCategoryHandler(categoryService, verifier, codec)
	transactionHandler := handler.NewTransactionHandler(transactionService, groupService, verifier, codec)
	groupHandler := handler.NewGroupHandler(groupService, verifier, codec)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/admin", authHandler.RegisterAdmin)
		api.POST("/login", authHandler.Login)
		api.GET("/logout", authHandler.Logout)

		api.GET("/users", userHandler.List)
		api.GET("/users/:username", userHandler.Get)
		api.DELETE("/users", userHandler.Delete)

		api.POST("/categories", categoryHandler.Create)
		api.GET("/categories", categoryHandler.List)
		api.PATCH("/categories/:type", categoryHandler.Update)
		api.DELETE("/categories", categoryHandler.Delete)

		api.GET("/transactions", transactionHandler.All)
		api.DELETE("/transactions", transactionHandler.DeleteMany)
		api.POST("/users/:username/transactions", transactionHandler.Create)
		api.GET("/users/:username/transactions", transactionHandler.ByUser)
		api.DELETE("/users/:username/transactions", transactionHandler.Delete)
		api.GET("/users/:username/transactions/category/:category", transactionHandler.ByUserCategory)
		api.GET("/transactions/users/:username", transactionHandler.ByUserAdmin)
		api.GET("/transactions/users/:username/category/:category", transactionHandler.ByUserCategory)
		api.GET("/groups/:name/transactions", transactionHandler.ByGroup)
		api.GET("/groups/:name/transactions/category/:category", transactionHandler.ByGroup)
		api.GET("/transactions/groups/:name", transactionHandler.ByGroupAdmin)
		api.GET("/transactions/groups/:name/category/:category", transactionHandler.ByGroupAdmin)

		api.POST("/groups", groupHandler.Create)
		api.GET("/groups", groupHandler.List)
		api.GET("/groups/:name", groupHandler.Get)
		api.PATCH("/groups/:name/add", groupHandler.AddMembers)
		api.PATCH("/groups/:name/insert", groupHandler.InsertMembers)
		api.PATCH("/groups/:name/remove", groupHandler.RemoveMembers)
		api.PATCH("/groups/:name/pull", groupHandler.PullMembers)
		api.DELETE("/groups", groupHandler.Delete)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("EZWallet listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
