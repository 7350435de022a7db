package scraper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

func ref(url string) models.BrokerReference {
	return models.BrokerReference{ProfileURL: url, Region: "New York"}
}

func TestCollectPagesDeduplicatesFirstSeen(t *testing.T) {
	pages := map[int][]models.BrokerReference{
		1: {ref("https://traded.co/agent/alice"), ref("https://traded.co/agent/bob")},
		2: {ref("https://traded.co/agent/bob"), ref("https://traded.co/agent/carol")},
	}

	fetch := func(page int) ([]models.BrokerReference, bool, error) {
		links, exists := pages[page]
		return links, exists, nil
	}

	got, err := collectPages(fetch, 10, nil)
	require.NoError(t, err)

	urls := make([]string, len(got))
	for i, r := range got {
		urls[i] = r.ProfileURL
	}
	assert.Equal(t, []string{
		"https://traded.co/agent/alice",
		"https://traded.co/agent/bob",
		"https://traded.co/agent/carol",
	}, urls)
}

func TestCollectPagesStopsOnAllDuplicates(t *testing.T) {
	fetched := 0
	fetch := func(page int) ([]models.BrokerReference, bool, error) {
		fetched++
		return []models.BrokerReference{ref("https://traded.co/agent/alice")}, true, nil
	}

	got, err := collectPages(fetch, 10, nil)
	require.NoError(t, err)

	assert.Len(t, got, 1)
	// Page 2 repeats page 1 verbatim, so page 3 is never fetched.
	assert.Equal(t, 2, fetched)
}

func TestCollectPagesStopsOnExhaustedPage(t *testing.T) {
	fetch := func(page int) ([]models.BrokerReference, bool, error) {
		if page > 1 {
			return nil, false, nil
		}
		return []models.BrokerReference{ref("https://traded.co/agent/alice")}, true, nil
	}

	got, err := collectPages(fetch, 10, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCollectPagesReturnsPartialOnError(t *testing.T) {
	boom := errors.New("tab crashed")
	fetch := func(page int) ([]models.BrokerReference, bool, error) {
		if page == 2 {
			return nil, false, boom
		}
		return []models.BrokerReference{ref("https://traded.co/agent/alice")}, true, nil
	}

	got, err := collectPages(fetch, 10, nil)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, got, 1)
}

func TestParseProfileLinks(t *testing.T) {
	html := `<html><body>
		<a href="/agent/alice-smith">Profile</a>
		<a href="/agent/bob-jones"> Profile </a>
		<a href="/deals/123">Profile</a>
		<a href="/agent/carol-wu">View Deals</a>
	</body></html>`

	refs := ParseProfileLinks(html, "https://traded.co", "New York")

	require.Len(t, refs, 2)
	assert.Equal(t, "https://traded.co/agent/alice-smith", refs[0].ProfileURL)
	assert.Equal(t, "https://traded.co/agent/bob-jones", refs[1].ProfileURL)
	assert.Equal(t, "New York", refs[0].Region)
}

const dealPageOne = `<html><body>
	<a class="MuiTypography-root MuiTypography-bBase" href="/deals/bridge-loan-office">
		Bridge Loan Closes On Downtown Office
	</a>
	<a class="MuiTypography-root MuiTypography-bBase" href="/deals/short">Short</a>
	<a class="MuiTypography-root MuiTypography-bBase" href="/deals/construction-mixed-use">
		Construction Financing For Mixed Use Project
	</a>
</body></html>`

const dealPageTwo = `<html><body>
	<a class="MuiTypography-root MuiTypography-bBase" href="/deals/bridge-loan-office">
		Bridge Loan Closes On Downtown Office
	</a>
	<a class="MuiTypography-root MuiTypography-bBase" href="/deals/permanent-retail">
		Permanent Financing For Retail Center
	</a>
</body></html>`

func TestParseDealLinksFiltersShortTitles(t *testing.T) {
	deals := ParseDealLinks(dealPageOne, 20)

	require.Len(t, deals, 2)
	assert.Equal(t, "Bridge Loan Closes On Downtown Office", deals[0].Title)
	assert.Equal(t, "/deals/bridge-loan-office", deals[0].URL)
}

func TestCollectDealPagesDeduplicatesAcrossPages(t *testing.T) {
	pages := []string{dealPageOne, dealPageTwo}
	current := 0

	fetch := func() (string, error) { return pages[current], nil }
	advance := func(page int) bool {
		if page-1 >= len(pages) {
			return false
		}
		current = page - 1
		return true
	}

	deals := collectDealPages(fetch, advance, 10, 20, nil)

	urls := make([]string, len(deals))
	for i, d := range deals {
		urls[i] = d.URL
	}
	assert.Equal(t, []string{
		"/deals/bridge-loan-office",
		"/deals/construction-mixed-use",
		"/deals/permanent-retail",
	}, urls)
}

func TestCollectDealPagesStopsWhenPageRepeats(t *testing.T) {
	fetches := 0
	fetch := func() (string, error) {
		fetches++
		return dealPageOne, nil
	}
	advance := func(page int) bool { return true }

	deals := collectDealPages(fetch, advance, 10, 20, nil)

	assert.Len(t, deals, 2)
	// The duplicate second page ends the walk without a third fetch.
	assert.Equal(t, 2, fetches)
}

func TestCollectDealPagesEmptyFirstPage(t *testing.T) {
	fetch := func() (string, error) { return "<html><body></body></html>", nil }
	advance := func(page int) bool {
		t.Fatal("advance must not be called when the first page is empty")
		return false
	}

	deals := collectDealPages(fetch, advance, 10, 20, nil)
	assert.Empty(t, deals)
}

func TestCollectDealPagesHonoursMaxPages(t *testing.T) {
	advanced := 0
	fetch := func() (string, error) {
		if advanced == 0 {
			return dealPageOne, nil
		}
		return dealPageTwo, nil
	}
	advance := func(page int) bool {
		advanced++
		return true
	}

	collectDealPages(fetch, advance, 2, 20, nil)
	assert.Equal(t, 1, advanced)
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://traded.co/agent/alice",
		CanonicalURL("https://traded.co", "/agent/alice"))
	assert.Equal(t, "https://traded.co/agent/alice",
		CanonicalURL("https://traded.co/", "/agent/alice"))
	assert.Equal(t, "https://other.example/agent/alice",
		CanonicalURL("https://traded.co", "https://other.example/agent/alice"))
}

func TestRegionSlug(t *testing.T) {
	assert.Equal(t, "new-york", regionSlug("New York"))
	assert.Equal(t, "florida", regionSlug(" Florida "))
}
