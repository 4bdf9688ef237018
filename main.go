package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/docuvault/docuvault/handlers"
	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/database"
	dochandler "github.com/docuvault/docuvault/internal/document/handler"
	docrepo "github.com/docuvault/docuvault/internal/document/repository"
	docservice "github.com/docuvault/docuvault/internal/document/service"
	"github.com/docuvault/docuvault/internal/policy"
	"github.com/docuvault/docuvault/internal/sessions"
	"github.com/docuvault/docuvault/internal/tokens"
	"github.com/docuvault/docuvault/internal/users"
	"github.com/docuvault/docuvault/pkg/logger"
	"github.com/docuvault/docuvault/pkg/metrics"
	"github.com/docuvault/docuvault/pkg/middleware"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Authorisation, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Redis is optional; without it token revocation and refresh sessions fall
	// back to process memory.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis unavailable, continuing without it: %v", err)
			redisClient = nil
		}
		cancel()
	}
	sessions.SetBlacklistClient(redisClient)

	// MongoDB with retry; without it the service runs on in-memory stores,
	// which is enough for local development.
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		for attempt := 1; attempt <= 5; attempt++ {
			mongoClient, err = database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				break
			}
			logger.Warnf("mongodb connect attempt %d/5 failed: %v", attempt, err)
			time.Sleep(time.Duration(attempt) * time.Second)
		}
		if mongoClient == nil {
			logger.Warn("mongodb unreachable, falling back to in-memory stores")
		}
	}

	var (
		documentRepo docrepo.Repository
		userRepo     users.UserRepository
		sessionRepo  sessions.Repository
	)
	switch {
	case mongoClient != nil:
		db := mongoClient.Database(cfg.MongoDB.Database)
		documentRepo = docrepo.NewMongoRepo(db)
		userRepo = users.NewMongoUserRepository(db)
		sessionRepo = sessions.NewMongoRepository(db)
	default:
		documentRepo = docrepo.NewMemoryRepo()
		userRepo = users.NewMemoryUserRepository()
		sessionRepo = sessions.NewMemoryRepository()
	}
	if redisClient != nil {
		// refresh sessions live in Redis with TTL when it is available
		sessionRepo = sessions.NewRedisRepository(redisClient, "")
	}

	pol := policy.New(cfg.Auth.AdminRoleID)
	verifier := tokens.NewVerifier(cfg)
	docSvc := docservice.New(documentRepo, pol)
	userSvc := users.NewService(userRepo)
	sessionSvc := sessions.NewService(sessionRepo)

	authHandler := handlers.NewAuthHandler(cfg, pol, userSvc, sessionSvc)
	docHandler := dochandler.New(docSvc)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{}
		status := http.StatusOK
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if mongoClient != nil {
			if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
				deps["mongodb"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				deps["mongodb"] = "up"
			}
		} else {
			deps["mongodb"] = "memory"
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				deps["redis"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				deps["redis"] = "up"
			}
		} else {
			deps["redis"] = "disabled"
		}
		c.JSON(status, gin.H{"status": "ready", "dependencies": deps})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("", middleware.AuthMiddleware(verifier))
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			protected.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, window))
		} else {
			protected.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	authHandler.RegisterProtectedRoutes(protected)
	docHandler.RegisterRoutes(protected)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("docuvault listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
