package main

import (
	"log"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/api"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/logger"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/services"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zl.Sync()

	if cfg.Site.Username == "" || cfg.Site.Password == "" {
		zl.Fatal("TRADED_USERNAME and TRADED_PASSWORD must be set")
	}

	zl.Infow("broker qualification service starting",
		"addr", cfg.Server.Addr,
		"site", cfg.Site.BaseURL,
		"threshold_percent", cfg.Analysis.ThresholdPercent,
		"webhook_configured", cfg.Webhook.URL != "",
	)

	svc := services.New(cfg, zl)
	srv := api.NewServer(svc, zl, cfg.LogDevelopment)

	if err := srv.Start(cfg.Server.Addr); err != nil {
		zl.Fatalw("server stopped", "error", err)
	}
}
