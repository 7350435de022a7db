// Package services sequences authenticated scraping runs: session
// acquisition, per-unit processing with human-like pacing, result
// aggregation and guaranteed session teardown.
package services

import (
	"go.uber.org/zap"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
)

// Service runs qualification and discovery batches. One Service may serve
// many runs, but each run owns its browser session exclusively from open to
// close.
type Service struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	notifier *Notifier
}

func New(cfg config.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		notifier: NewNotifier(cfg.Webhook.URL),
	}
}
