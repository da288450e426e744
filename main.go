// Package main boots the blog API server.
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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ncobase/nblog/data"
	"github.com/ncobase/nblog/handler"
	"github.com/ncobase/nblog/middleware"
	"github.com/ncobase/nblog/service"
	"github.com/ncobase/ncore/config"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/resp"
)

// App represents the main application.
type App struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	handler *handler.Handler
	server  *http.Server
}

// NewApp creates a new application instance with manual dependency injection.
func NewApp() (*App, func(), error) {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerCleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := logger.StdLogger()

	dbName := cfg.AppName
	if dbName == "" {
		dbName = "blogdb"
	}
	dataLayer, err := data.New(cfg.Data.MongoDB.Master.URI, dbName, log)
	if err != nil {
		loggerCleanup()
		return nil, nil, fmt.Errorf("failed to create data layer: %w", err)
	}

	svc := service.NewService(dataLayer, log, service.Options{
		Delay: service.ResponseDelay{
			Duration: cfg.Viper.GetDuration("app.response_delay"),
		},
		ImageKit: service.UploadConfig{
			URLEndpoint: cfg.Viper.GetString("imagekit.url_endpoint"),
			PublicKey:   cfg.Viper.GetString("imagekit.public_key"),
			PrivateKey:  cfg.Viper.GetString("imagekit.private_key"),
		},
	})

	h := handler.NewHandler(svc, cfg.Viper.GetString("webhook.signing_secret"), log)

	app := &App{
		config:  cfg,
		logger:  log,
		data:    dataLayer,
		handler: h,
	}

	cleanup := func() {
		if err := dataLayer.Close(); err != nil {
			log.Error(context.Background(), "failed to close data layer", "error", err)
		}
		loggerCleanup()
	}

	return app, cleanup, nil
}

// Run starts the application server and blocks until shutdown.
func (a *App) Run() error {
	if mode := a.config.Viper.GetString("run_mode"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(a.loggerMiddleware())
	router.Use(middleware.Identify(a.config.Auth.JWT.Secret, a.logger))

	a.handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		resp.Success(c.Writer, map[string]string{"status": "healthy"})
	})

	addr := fmt.Sprintf("%s:%d", a.config.Host, a.config.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		a.logger.Info(context.Background(), "Starting server", "addr", addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(context.Background(), "Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info(context.Background(), "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error(ctx, "Server forced to shutdown", "error", err)
		return err
	}

	a.logger.Info(context.Background(), "Server exited")
	return nil
}

// loggerMiddleware creates a Gin middleware for request logging.
func (a *App) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		a.logger.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}

func main() {
	app, cleanup, err := NewApp()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		fmt.Printf("Failed to run app: %v\n", err)
		os.Exit(1)
	}
}
