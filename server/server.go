// Package server exposes the certificate pipeline over HTTP: a health
// probe, asset upload/download, and the generate endpoints the wizard UI
// calls. Authentication is a deliberate always-allow stub.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lesley-gao/automated-certificate-generator/config"
)

// New builds the HTTP server for the given configuration.
func New(cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:         addr(cfg.Server.Port),
		Handler:      Router(cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Router wires all routes and middleware.
func Router(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	router.Use(AuthStub())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	certificates := newCertificateHandler(cfg.Batch)
	assets := newAssetHandler(cfg.Assets)

	api := router.Group("/api")
	{
		a := api.Group("/assets")
		{
			a.POST("/upload", assets.Upload)
			a.GET("/download/:filename", assets.Download)
		}
		certs := api.Group("/certificates")
		{
			certs.POST("/generate", certificates.Generate)
			certs.POST("/generate-batch", certificates.GenerateBatch)
		}
	}

	return router
}

func addr(port int) string {
	if port <= 0 {
		port = 5000
	}
	return fmt.Sprintf(":%d", port)
}
