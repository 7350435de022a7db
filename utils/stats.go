package utils

import (
	"sort"
	"strings"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

type RegionCount struct {
	Region string
	Count  int
}

// SummaryStats aggregates one run's broker records for the end-of-run
// report.
type SummaryStats struct {
	TotalBrokers       int
	QualifiedBrokers   int
	WithEmail          int
	WithSocialProfile  int
	AveragePercentGood float64
	BestBroker         models.BrokerProfile
	BrokersPerRegion   []RegionCount
}

// BuildSummaryStats computes the run summary. The average only covers
// brokers with at least one categorized deal; the best broker is the
// highest percent-good among those.
func BuildSummaryStats(profiles []models.BrokerProfile) SummaryStats {
	stats := SummaryStats{TotalBrokers: len(profiles)}
	if len(profiles) == 0 {
		return stats
	}

	regionCounts := make(map[string]int)
	categorized := 0
	var percentTotal float64
	var best models.BrokerProfile
	bestSet := false

	for _, p := range profiles {
		region := strings.TrimSpace(p.Region)
		if region == "" {
			region = "Unknown"
		}
		regionCounts[region]++

		if p.Classification.Qualifies {
			stats.QualifiedBrokers++
		}
		if p.BusinessEmail != "" {
			stats.WithEmail++
		}
		if p.SocialProfile != "" {
			stats.WithSocialProfile++
		}

		if p.Classification.Categorized() > 0 {
			categorized++
			percentTotal += p.Classification.PercentGood
			if !bestSet || p.Classification.PercentGood > best.Classification.PercentGood {
				best = p
				bestSet = true
			}
		}
	}

	if categorized > 0 {
		stats.AveragePercentGood = percentTotal / float64(categorized)
	}
	stats.BestBroker = best

	perRegion := make([]RegionCount, 0, len(regionCounts))
	for region, count := range regionCounts {
		perRegion = append(perRegion, RegionCount{Region: region, Count: count})
	}
	sort.Slice(perRegion, func(i, j int) bool {
		if perRegion[i].Count == perRegion[j].Count {
			return perRegion[i].Region < perRegion[j].Region
		}
		return perRegion[i].Count > perRegion[j].Count
	})
	stats.BrokersPerRegion = perRegion

	return stats
}
