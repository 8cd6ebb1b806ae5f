// Command certgen runs the certificate generation HTTP service used by the
// wizard frontend: asset upload, single-certificate rendering, and batch
// generation delivered as a zip archive or a combined PDF.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lesley-gao/automated-certificate-generator/config"
	"github.com/lesley-gao/automated-certificate-generator/logger"
	"github.com/lesley-gao/automated-certificate-generator/server"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	srv := server.New(cfg)

	go func() {
		logger.Infof("certificate service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("shutting down")
	if err := srv.Close(); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
