package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/logger"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/services"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/storage"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/utils"
)

var defaultStates = []string{"New York", "Florida", "Texas"}

func main() {
	statesFlag := flag.String("states", "",
		"Comma-separated state list (default: New York,Florida,Texas)")
	maxPages := flag.Int("pages", 0,
		"Directory pages to walk per state (0 = until exhausted)")
	outFile := flag.String("out", "qualified_brokers.json",
		"Output JSON filename")
	store := flag.Bool("store", false,
		"Upsert results into PostgreSQL as well")
	flag.Parse()

	cfg := config.Load()

	zl, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zl.Sync()

	if cfg.Site.Username == "" || cfg.Site.Password == "" {
		zl.Fatal("TRADED_USERNAME and TRADED_PASSWORD must be set")
	}

	states := defaultStates
	if *statesFlag != "" {
		states = splitTrim(*statesFlag, ",")
	}

	zl.Infow("broker scout starting",
		"states", strings.Join(states, ", "),
		"pages", *maxPages,
		"out", *outFile,
		"store", *store,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timing.GlobalTimeout)
	defer cancel()

	svc := services.New(cfg, zl)
	profiles, err := svc.DiscoverBrokers(ctx, states, *maxPages)
	if err != nil {
		zl.Fatalw("discovery failed", "error", err)
	}

	total, err := utils.WriteJSON(*outFile, profiles)
	if err != nil {
		zl.Fatalw("write json failed", "error", err)
	}
	zl.Infow("results written", "count", total, "file", *outFile)

	if *store {
		pg, err := storage.NewPostgresStore(cfg.Database)
		if err != nil {
			zl.Fatalw("postgres connect failed", "error", err)
		}
		defer pg.Close()

		dbCtx, cancelDB := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelDB()
		saved, err := pg.SaveProfiles(dbCtx, profiles)
		if err != nil {
			zl.Fatalw("postgres upsert failed", "error", err)
		}
		zl.Infow("results stored", "upserted", saved)
	}

	stats := utils.BuildSummaryStats(profiles)
	fmt.Println("═══════════════════════════════════════════════════")
	fmt.Printf("  DONE — %d brokers → %s\n", total, *outFile)
	fmt.Println("  STATS")
	fmt.Printf("    Total Brokers        : %d\n", stats.TotalBrokers)
	fmt.Printf("    Qualified            : %d\n", stats.QualifiedBrokers)
	fmt.Printf("    With Email           : %d\n", stats.WithEmail)
	fmt.Printf("    With Social Profile  : %d\n", stats.WithSocialProfile)
	fmt.Printf("    Average Percent Good : %.2f\n", stats.AveragePercentGood)
	if stats.BestBroker.ProfileURL != "" {
		fmt.Printf("    Best Broker          : %s %s | %.2f%%\n",
			stats.BestBroker.FirstName,
			stats.BestBroker.LastName,
			stats.BestBroker.Classification.PercentGood,
		)
	}
	fmt.Println("    Brokers per State")
	for _, rc := range stats.BrokersPerRegion {
		fmt.Printf("      - %s: %d\n", rc.Region, rc.Count)
	}
	fmt.Println("═══════════════════════════════════════════════════")
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
