package utils

import (
	"context"

	"github.com/chromedp/chromedp"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
)

// NewAllocator creates a Chrome exec allocator context from the given Config.
// The flag set keeps automation-detection signals to a minimum: no automation
// blink features, a real-browser user agent and a fixed desktop viewport.
func NewAllocator(parent context.Context, cfg config.Config) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Site.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(cfg.Site.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	return chromedp.NewExecAllocator(parent, opts...)
}
