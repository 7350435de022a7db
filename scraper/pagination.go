package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// pageFetch loads one directory page and returns its candidate links.
// ok=false means the content marker never rendered: the directory is
// exhausted and pagination stops without error.
type pageFetch func(page int) (links []models.BrokerReference, ok bool, err error)

// collectPages walks pages 1..maxPages, deduplicating by canonical profile
// URL in first-seen order. Pagination stops at the first exhausted page, the
// first page that adds nothing new, or the first fetch error. The error is
// returned alongside whatever was collected before it.
func collectPages(fetch pageFetch, maxPages int, pace func()) ([]models.BrokerReference, error) {
	var out []models.BrokerReference
	seen := make(map[string]struct{})

	for page := 1; page <= maxPages; page++ {
		links, ok, err := fetch(page)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}

		added := 0
		for _, link := range links {
			if _, dup := seen[link.ProfileURL]; dup {
				continue
			}
			seen[link.ProfileURL] = struct{}{}
			out = append(out, link)
			added++
		}
		if added == 0 {
			break
		}

		if page < maxPages && pace != nil {
			pace()
		}
	}
	return out, nil
}

// CollectBrokerLinks walks the paginated broker directory for one region and
// returns the deduplicated profile references. Fetch errors stop pagination
// for this region but are only logged; a multi-region run carries on.
func CollectBrokerLinks(s *Session, log *zap.SugaredLogger, region string, maxPages int) []models.BrokerReference {
	slug := regionSlug(region)

	fetch := func(page int) ([]models.BrokerReference, bool, error) {
		url := s.baseURL + fmt.Sprintf(directoryPathFormat, slug)
		if page > 1 {
			url += fmt.Sprintf("?page=%d", page)
		}
		log.Infow("scraping directory page", "region", slug, "page", page)

		if err := s.Navigate(url, s.timing.NavigateTimeout); err != nil {
			return nil, false, err
		}
		if !s.waitForMarker(profileMarkerXPath, s.timing.MarkerWait) {
			log.Infow("no profiles found, stopping pagination", "region", slug, "page", page)
			return nil, false, nil
		}

		html, err := s.HTML()
		if err != nil {
			return nil, false, err
		}
		return ParseProfileLinks(html, s.baseURL, region), true, nil
	}

	pace := func() {
		time.Sleep(config.Delay(s.timing.PageDelayMin, s.timing.PageDelayMax))
	}

	links, err := collectPages(fetch, maxPages, pace)
	if err != nil {
		log.Warnw("directory page fetch failed", "region", region, "error", err)
	}
	return links
}

// ParseProfileLinks extracts broker profile references from a rendered
// directory page. Links are canonicalised against the site origin; the
// caller deduplicates.
func ParseProfileLinks(html, baseURL, region string) []models.BrokerReference {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var refs []models.BrokerReference
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) != "Profile" {
			return
		}
		href, exists := sel.Attr("href")
		if !exists || !strings.HasPrefix(href, profileLinkPrefix) {
			return
		}
		refs = append(refs, models.BrokerReference{
			ProfileURL: CanonicalURL(baseURL, href),
			Region:     region,
		})
	})
	return refs
}

// dealFetch returns the current rendered document; dealAdvance clicks
// through to the given page number, reporting whether it succeeded.
type (
	dealFetch   func() (string, error)
	dealAdvance func(page int) bool
)

// collectDealPages walks a client-side paginated deal history. It terminates
// when the page control cannot be found, when a page past the first yields
// nothing new, or when maxPages is reached. End-of-data and transient UI
// failure are deliberately not distinguished; both bound the run.
func collectDealPages(fetch dealFetch, advance dealAdvance, maxPages, minTitleLen int, pace func()) []models.DealRecord {
	var deals []models.DealRecord
	seen := make(map[string]struct{})

	for page := 1; page <= maxPages; page++ {
		html, err := fetch()
		if err != nil {
			break
		}
		found := ParseDealLinks(html, minTitleLen)
		if len(found) == 0 && page == 1 {
			break
		}

		added := 0
		for _, deal := range found {
			if _, dup := seen[deal.URL]; dup {
				continue
			}
			seen[deal.URL] = struct{}{}
			deals = append(deals, deal)
			added++
		}
		if added == 0 && page > 1 {
			break
		}

		next := page + 1
		if next > maxPages {
			break
		}
		if !advance(next) {
			break
		}
		if pace != nil {
			pace()
		}
	}
	return deals
}

// CollectDeals walks one broker's client-side paginated deal history on the
// page the session currently shows.
func CollectDeals(s *Session, maxPages, minTitleLen int) []models.DealRecord {
	pace := func() {
		time.Sleep(config.Delay(3*time.Second, 5*time.Second))
	}
	return collectDealPages(s.HTML, s.clickPageControl, maxPages, minTitleLen, pace)
}

// ParseDealLinks extracts deal records from a rendered profile page. Titles
// at or under minTitleLen characters are dropped as non-deal UI fragments.
func ParseDealLinks(html string, minTitleLen int) []models.DealRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var deals []models.DealRecord
	doc.Find(dealLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		title := strings.TrimSpace(sel.Text())
		if !exists || href == "" || len(title) <= minTitleLen {
			return
		}
		deals = append(deals, models.DealRecord{Title: title, URL: href})
	})
	return deals
}

// CanonicalURL resolves site-relative links against the site origin. The
// canonical form is the deduplication key everywhere.
func CanonicalURL(baseURL, href string) string {
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(baseURL, "/") + href
	}
	return href
}

func regionSlug(region string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(region)), " ", "-")
}
