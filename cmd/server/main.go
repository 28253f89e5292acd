package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crossplay/backend/internal/api"
	"github.com/crossplay/backend/internal/auth"
	"github.com/crossplay/backend/internal/cache"
	"github.com/crossplay/backend/internal/config"
	"github.com/crossplay/backend/internal/middleware"
	"github.com/crossplay/backend/internal/realtime"
	"github.com/crossplay/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize the construction archive
	var st *store.Store
	st, err = store.New(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: database connection failed: %v", err)
		log.Println("Running in demo mode without a construction archive...")
		st = nil
	} else if err := st.InitSchema(); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	} else {
		log.Println("Database connected and schema initialized")
	}

	// Enumeration cache is optional; cache.New degrades to nil (a
	// no-op cache) instead of failing startup.
	placementCache := cache.New(cfg.RedisURL)
	if placementCache == nil {
		log.Println("Warning: Redis connection failed, running without enumeration cache...")
	}

	authService := auth.NewAuthService(cfg.JWTSecret)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	var handlers *api.Handlers
	if st != nil {
		handlers = api.NewHandlers(st, placementCache, api.Defaults{
			Level:      cfg.NRPALevel,
			Iters:      cfg.NRPAIters,
			Alpha:      cfg.NRPAAlpha,
			MaxStalled: cfg.NRPAMaxStalled,
		})
	}

	hub := realtime.NewHub()
	go hub.Run()
	if handlers != nil {
		handlers.SetHub(hub)
	}

	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.PerformanceMonitor())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.GetMetrics())
	})

	apiGroup := router.Group("/api")
	{
		problemsGroup := apiGroup.Group("/problems")
		problemsGroup.Use(authMiddleware.RequireAuth())
		{
			if handlers != nil {
				problemsGroup.POST("", handlers.CreateProblem)
				problemsGroup.POST("/:id/construct", handlers.LaunchConstruction)
			} else {
				problemsGroup.POST("", demoUnavailableHandler)
				problemsGroup.POST("/:id/construct", demoUnavailableHandler)
			}
		}

		jobsGroup := apiGroup.Group("/jobs")
		jobsGroup.Use(authMiddleware.RequireAuth())
		{
			if handlers != nil {
				jobsGroup.GET("/:id", handlers.GetJob)
				jobsGroup.GET("/:id/board.:format", handlers.GetJobBoard)
				jobsGroup.GET("/:id/ws", handlers.ServeProgress)
			} else {
				jobsGroup.GET("/:id", demoUnavailableHandler)
				jobsGroup.GET("/:id/board.:format", demoUnavailableHandler)
				jobsGroup.GET("/:id/ws", demoUnavailableHandler)
			}
		}

		apiGroup.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "API endpoint does not exist",
				"path":    c.Request.URL.Path,
			})
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if st != nil {
		st.Close()
	}
	placementCache.Close()

	log.Println("Server exited")
}

func demoUnavailableHandler(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "construction archive not available in demo mode"})
}
