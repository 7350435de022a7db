package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/scraper"
)

// DiscoverBrokers walks the broker directory for each region, extracts full
// contact metadata for every discovered profile and batches each region's
// results to the webhook. All successfully extracted profiles are returned
// regardless of qualification; webhook delivery failures are logged only.
func (svc *Service) DiscoverBrokers(ctx context.Context, regions []string, maxPages int) ([]models.BrokerProfile, error) {
	if maxPages <= 0 {
		maxPages = svc.cfg.Analysis.MaxPagesPerBroker
	}

	log := svc.log.With("run_id", uuid.NewString()[:8])
	log.Infow("starting discovery run", "regions", regions, "max_pages", maxPages)

	sess, err := scraper.OpenSession(ctx, svc.cfg)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := sess.Authenticate(); err != nil {
		return nil, err
	}

	var all []models.BrokerProfile
	for _, region := range regions {
		log.Infow("processing region", "region", region)

		refs := scraper.CollectBrokerLinks(sess, log, region, maxPages)
		if len(refs) == 0 {
			log.Infow("no brokers discovered", "region", region)
			continue
		}
		log.Infow("extracting broker metadata", "region", region, "profiles", len(refs))

		var batch []models.BrokerProfile
		for i, ref := range refs {
			log.Infow("extracting profile",
				"index", i+1, "total", len(refs), "url", ref.ProfileURL,
			)
			profile, err := svc.extractOne(sess, ref)
			if err != nil {
				log.Warnw("profile extraction failed", "url", ref.ProfileURL, "error", err)
				continue
			}
			log.Infow("profile extracted",
				"name", profile.Name,
				"loan_sample", profile.LoanSampleURL != "",
				"social", profile.SocialProfile != "",
			)
			batch = append(batch, profile)
		}

		if len(batch) > 0 {
			if err := svc.notifier.Send(ctx, region, batch); err != nil {
				log.Warnw("webhook delivery failed", "region", region, "error", err)
			}
			all = append(all, batch...)
		}
		log.Infow("finished region", "region", region, "extracted", len(batch))
	}

	log.Infow("discovery run finished", "brokers", len(all))
	return all, nil
}

// extractOne navigates to one profile and assembles its full record:
// contact fields from the rendered page, the deal classification, and the
// best-effort social link.
func (svc *Service) extractOne(sess *scraper.Session, ref models.BrokerReference) (models.BrokerProfile, error) {
	timing := svc.cfg.Timing

	if err := sess.Navigate(ref.ProfileURL, timing.NavigateTimeout); err != nil {
		return models.BrokerProfile{}, err
	}
	time.Sleep(config.Delay(timing.ExtractDelayMin, timing.ExtractDelayMax))

	html, err := sess.HTML()
	if err != nil {
		return models.BrokerProfile{}, err
	}
	profile := scraper.ParseProfile(html, ref.ProfileURL, ref.Region)

	// Discovery inspects a shorter deal window than a full analysis run.
	deals := scraper.CollectDeals(sess, 3, svc.cfg.Analysis.MinTitleLength)
	result := scraper.Classify(deals, svc.cfg.Analysis, svc.cfg.Site.BaseURL)
	profile.Classification = result
	profile.LoanSampleURL = result.SampleURL

	profile.SocialProfile = sess.SocialProfileLink()

	return profile, nil
}
