package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/scraper"
)

// AnalyzeBrokers runs the qualification batch: every broker's deal history
// is collected and classified, and only brokers passing the threshold are
// returned. A failure on one broker is logged and skipped; session
// establishment failures abort the whole run. The session is closed on every
// exit path.
func (svc *Service) AnalyzeBrokers(ctx context.Context, brokers []models.BrokerInput) ([]models.BrokerProfile, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	log := svc.log.With("run_id", uuid.NewString()[:8])
	log.Infow("starting broker analysis run", "brokers", len(brokers))

	sess, err := scraper.OpenSession(ctx, svc.cfg)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Authenticate(); err != nil {
		return nil, err
	}

	var qualified []models.BrokerProfile
	for i, broker := range brokers {
		log.Infow("analyzing broker",
			"index", i+1, "total", len(brokers),
			"name", broker.Name, "company", broker.Company,
		)

		profile, result, err := svc.analyzeOne(sess, broker)
		switch {
		case err != nil:
			log.Warnw("broker analysis failed", "name", broker.Name, "error", err)
		case result.Qualifies:
			log.Infow("broker qualified",
				"name", broker.Name,
				"percent_good", result.PercentGood,
			)
			qualified = append(qualified, profile)
		default:
			log.Infow("broker did not qualify",
				"name", broker.Name,
				"percent_good", result.PercentGood,
				"threshold", svc.cfg.Analysis.ThresholdPercent,
			)
		}

		if i < len(brokers)-1 {
			time.Sleep(config.Delay(
				svc.cfg.Timing.AnalysisDelayMin,
				svc.cfg.Timing.AnalysisDelayMax,
			))
		}
	}

	log.Infow("analysis run finished", "qualified", len(qualified))
	return qualified, nil
}

// analyzeOne processes a single broker: navigate to the profile, collect and
// classify deals, then enrich with job title and social link. Field lookups
// degrade to defaults; only navigation-level failures surface as errors.
func (svc *Service) analyzeOne(sess *scraper.Session, broker models.BrokerInput) (models.BrokerProfile, models.ClassificationResult, error) {
	timing := svc.cfg.Timing

	if err := sess.Navigate(broker.ProfileURL, timing.NavigateTimeout); err != nil {
		return models.BrokerProfile{}, models.ClassificationResult{}, err
	}
	time.Sleep(config.Delay(5*time.Second, 8*time.Second))

	deals := scraper.CollectDeals(sess,
		svc.cfg.Analysis.MaxPagesPerBroker,
		svc.cfg.Analysis.MinTitleLength,
	)
	result := scraper.Classify(deals, svc.cfg.Analysis, svc.cfg.Site.BaseURL)
	svc.log.Infow("deals classified",
		"name", broker.Name,
		"deals", len(deals),
		"good", result.Good, "bad", result.Bad, "skipped", result.Skipped,
		"percent_good", result.PercentGood,
	)

	jobTitle := "Not Found"
	if html, err := sess.HTML(); err == nil {
		if title := scraper.ParseJobTitle(html); title != "" {
			jobTitle = title
		}
	}
	social := sess.SocialProfileLink()

	first, last := scraper.SplitName(broker.Name)
	profile := models.BrokerProfile{
		Name:           broker.Name,
		FirstName:      first,
		LastName:       last,
		Company:        broker.Company,
		JobTitle:       jobTitle,
		SocialProfile:  social,
		ProfileURL:     broker.ProfileURL,
		LoanSampleURL:  result.SampleURL,
		Classification: result,
	}
	return profile, result, nil
}
