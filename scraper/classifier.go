package scraper

import (
	"strings"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// Classify scores a broker's deal titles against the good/bad keyword sets.
//
// A title matching a bad keyword is bad no matter what else it matches: a
// single disqualifying term ("permanent", "agency") overrides any desirable
// one. A title matching only good keywords is good; everything else is
// skipped and never enters the percentage denominator. Only the first
// MaxDealsToAnalyze deals are inspected to cap cost on very large histories.
//
// A broker with zero categorized deals never qualifies, even though 0/0
// would not compare against the threshold.
func Classify(deals []models.DealRecord, cfg config.AnalysisConfig, baseURL string) models.ClassificationResult {
	var res models.ClassificationResult

	limit := len(deals)
	if cfg.MaxDealsToAnalyze > 0 && cfg.MaxDealsToAnalyze < limit {
		limit = cfg.MaxDealsToAnalyze
	}

	for _, deal := range deals[:limit] {
		title := strings.ToLower(deal.Title)
		hasGood := containsAny(title, cfg.GoodKeywords)
		hasBad := containsAny(title, cfg.BadKeywords)

		switch {
		case hasBad:
			res.Bad++
		case hasGood:
			res.Good++
			if res.SampleURL == "" && deal.URL != "" {
				res.SampleURL = CanonicalURL(baseURL, deal.URL)
			}
		default:
			res.Skipped++
		}
	}

	if categorized := res.Categorized(); categorized > 0 {
		res.PercentGood = float64(res.Good) / float64(categorized) * 100
	}
	res.Qualifies = res.PercentGood >= cfg.ThresholdPercent && res.Categorized() > 0

	return res
}

func containsAny(title string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}
