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

	"github.com/Ashvita9/ProjectDashboard/internal/cache"
	"github.com/Ashvita9/ProjectDashboard/internal/config"
	"github.com/Ashvita9/ProjectDashboard/internal/database"
	"github.com/Ashvita9/ProjectDashboard/internal/handlers"
	"github.com/Ashvita9/ProjectDashboard/internal/middleware"
	"github.com/Ashvita9/ProjectDashboard/internal/monitoring"
	"github.com/Ashvita9/ProjectDashboard/internal/repositories"
	"github.com/Ashvita9/ProjectDashboard/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Application holds all application dependencies and state
type Application struct {
	Config *config.Config
	DB     *database.Pool
	Cache  cache.Cache
	Redis  *redis.Client
	Router *gin.Engine
	Server *http.Server

	// Services
	RegisterService services.RegisterService
	AuthService     services.AuthService
	AuthzService    services.AuthorizationService
	ProjectService  services.ProjectService
	TaskService     services.TaskService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config: cfg,
	}

	log.Println("🚀 Initializing Project Dashboard Backend...")
	log.Printf("📋 Environment: %s", cfg.Server.Environment)

	pool, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool
	log.Println("✅ Database connected and configured")

	migrationConfig := &repositories.MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         cfg.Database.Name,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
	if err := repositories.RunMigrations(pool.DB, migrationConfig); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️  Redis unavailable: %v (continuing with memory cache only)", err)
		} else {
			app.Redis = redisClient
			log.Println("✅ Redis connected")
		}
	}

	if app.Redis != nil {
		redisCache := cache.NewRedisCacheFromClient(app.Redis)
		app.Cache = cache.NewMultiLevelCache(redisCache)
		log.Println("✅ Multi-level cache initialized (Memory L1 + Redis L2)")
	} else {
		app.Cache = cache.NewMultiLevelCache(nil)
		log.Println("✅ Memory cache initialized")
	}

	app.AuthzService = services.NewAuthorizationService()
	app.RegisterService = services.NewRegisterService()
	app.AuthService = services.NewAuthService()
	app.ProjectService = services.NewCachedProjectService(
		services.NewProjectService(app.AuthzService), app.Cache)
	app.TaskService = services.NewCachedTaskService(
		services.NewTaskService(app.AuthzService), app.Cache)

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		return app.DB.Health()
	})
	if app.Redis != nil {
		monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}

	log.Println("✅ All services initialized")

	return app, nil
}

func (app *Application) setupRoutes() {
	r := gin.New()

	// Global middleware stack (order matters!)
	r.Use(gin.Logger())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.RecoveryWithLog())
	r.Use(middleware.SecureHeader())

	rateLimit := rate.Limit(float64(app.Config.RateLimit.RequestsPerMin) / 60.0)
	r.Use(middleware.RateLimiter(rateLimit, app.Config.RateLimit.BurstSize))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://host.docker.internal"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", monitoring.HealthHandler())
	r.GET("/ready", monitoring.ReadinessHandler())
	r.GET("/live", monitoring.LivenessHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	cacheHandler := handlers.NewCacheHandler(app.Cache)
	r.GET("/cache/stats", cacheHandler.GetCacheStats)
	r.DELETE("/cache/keys/:key", cacheHandler.EvictCacheKey)

	v1 := r.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	{
		registerHandler := handlers.NewRegisterHandler(app.DB.DB, app.RegisterService)
		authHandler := handlers.NewAuthHandler(app.DB.DB, app.AuthService)

		if app.Redis != nil {
			// Tighter, user-keyed limits on the credential endpoints.
			limiter := middleware.NewDistributedRateLimiter(app.Redis)
			authRoutes.Use(limiter.CreateMiddleware("auth", &middleware.RateLimit{
				Rate:    10,
				Window:  time.Minute,
				KeyFunc: middleware.UserKeyFunc,
			}))
		}

		authRoutes.POST("/register", registerHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	projectHandler := handlers.NewProjectHandler(app.DB.DB, app.ProjectService)
	projectRoutes := v1.Group("/projects")
	{
		projectRoutes.GET("", projectHandler.ListProjects)
		projectRoutes.POST("", projectHandler.CreateProject)
		projectRoutes.PUT("", projectHandler.UpdateProject)
		projectRoutes.PATCH("", projectHandler.PatchProject)
		projectRoutes.DELETE("", projectHandler.DeleteProject)
	}

	taskHandler := handlers.NewTaskHandler(app.DB.DB, app.TaskService)
	taskRoutes := v1.Group("/tasks")
	{
		taskRoutes.GET("", taskHandler.ListTasks)
		taskRoutes.POST("", taskHandler.CreateTask)
		taskRoutes.PUT("", taskHandler.UpdateTask)
		taskRoutes.PATCH("", taskHandler.PatchTask)
		taskRoutes.DELETE("", taskHandler.DeleteTask)
	}

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("✅ Server stopped gracefully")
	}()

	log.Printf("🚀 Server starting on %s", addr)
	log.Printf("📊 Metrics available at http://%s/metrics", addr)
	log.Printf("💚 Health check at http://%s/health", addr)

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}

func (app *Application) cleanup() {
	log.Println("🧹 Cleaning up resources...")

	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			log.Printf("⚠️  Error closing cache: %v", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			log.Printf("⚠️  Error closing Redis: %v", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			log.Printf("⚠️  Error closing database: %v", err)
		}
	}

	log.Println("✅ Cleanup complete")
}
