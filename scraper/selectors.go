package scraper

// Selectors used across the scraper. Centralising them makes future
// site-markup updates trivial.
const (
	// Login flow (XPath, chromedp.BySearch)
	loginButtonXPath  = `//button[normalize-space()='Sign up or log in']`
	submitButtonXPath = `//button[@type='submit' and normalize-space()='Continue']`
	popupCloseXPath   = `//button[@aria-label='close' or @aria-label='Close']`

	// Login form inputs (CSS)
	emailInputSelector    = `input[name="email"]`
	passwordInputSelector = `input[name="password"]`

	// Broker directory pages
	profileMarkerXPath  = `//a[normalize-space()='Profile']`
	profileLinkPrefix   = `/agent/`
	directoryPathFormat = `/agents/%s/loan/`

	// Deal history (client-side pagination)
	dealLinkSelector    = `a[class*="MuiTypography-bBase"][href*="/deals/"]`
	pageButtonXPathTmpl = `//button[@aria-label='Go to page %d']`

	// Profile fields (goquery, over the rendered document)
	positionSelector        = `span[aria-label*='position in']`
	captionFallbackSelector = `span.MuiTypography-caption strong`
	mailtoSelector          = `a[href^="mailto:"]`
	phoneIconSelector       = `div[aria-label="phone icon"]`
	jobTitleSelector        = `h1 + p`

	// About section toggle: case-insensitive match on the heading text
	aboutToggleXPath = `//h2[normalize-space(translate(., 'ABCDEFGHIJKLMNOPQRSTUVWXYZ', 'abcdefghijklmnopqrstuvwxyz'))='about']`
	socialLinkXPath  = `//a[contains(@href, 'linkedin.com') and contains(@aria-label, 'LinkedIn profile')]`
)
