// Standalone documents service. Serves only the document routes, trusting
// tokens minted by the main service through the shared JWT secret.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/database"
	dochandler "github.com/docuvault/docuvault/internal/document/handler"
	docrepo "github.com/docuvault/docuvault/internal/document/repository"
	docservice "github.com/docuvault/docuvault/internal/document/service"
	"github.com/docuvault/docuvault/internal/policy"
	"github.com/docuvault/docuvault/internal/tokens"
	"github.com/docuvault/docuvault/pkg/logger"
	"github.com/docuvault/docuvault/pkg/middleware"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	var repo docrepo.Repository = docrepo.NewMemoryRepo()
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Fatalf("mongodb: %v", err)
		}
		repo = docrepo.NewMongoRepo(client.Database(cfg.MongoDB.Database))
	}

	svc := docservice.New(repo, policy.New(cfg.Auth.AdminRoleID))
	h := dochandler.New(svc)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", middleware.AuthMiddleware(tokens.NewVerifier(cfg)))
	h.RegisterRoutes(api)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("document service listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
