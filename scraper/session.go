package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/utils"
)

// Session owns one authenticated browser tab. It is created once per run,
// driven only by the run that created it, and must be closed on every exit
// path. All operations after Close are invalid.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc

	baseURL  string
	username string
	password string
	timing   config.TimingConfig

	closeOnce     sync.Once
	authenticated bool
}

// OpenSession launches a browser context configured to minimise
// automation-detection signals and verifies the driver responds.
func OpenSession(parent context.Context, cfg config.Config) (*Session, error) {
	allocCtx, cancelAlloc := utils.NewAllocator(parent, cfg)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrDriverInit, err)
	}

	return &Session{
		ctx:      tabCtx,
		cancels:  []context.CancelFunc{cancelTab, cancelAlloc},
		baseURL:  cfg.Site.BaseURL,
		username: cfg.Site.Username,
		password: cfg.Site.Password,
		timing:   cfg.Timing,
	}, nil
}

// Close tears the browser session down. Idempotent; safe on every exit path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
	})
}

// Authenticated reports whether login has completed on this session.
func (s *Session) Authenticated() bool { return s.authenticated }

// BaseURL returns the site origin used to canonicalise relative links.
func (s *Session) BaseURL() string { return s.baseURL }

// Authenticate logs into the site: opens the login affordance, submits
// credentials, dismisses the optional newsletter popup and confirms success
// by the disappearance of the login button. Any failure is fatal to the run.
func (s *Session) Authenticate() error {
	if err := s.Navigate(s.baseURL, s.timing.NavigateTimeout); err != nil {
		return fmt.Errorf("%w: open site root: %v", ErrAuthentication, err)
	}

	loginCtx, cancel := context.WithTimeout(s.ctx, s.timing.LoginWait)
	defer cancel()

	if err := chromedp.Run(loginCtx,
		chromedp.WaitVisible(loginButtonXPath, chromedp.BySearch),
		chromedp.Click(loginButtonXPath, chromedp.BySearch),
		chromedp.Sleep(time.Second),
		chromedp.WaitVisible(emailInputSelector, chromedp.ByQuery),
		chromedp.SendKeys(emailInputSelector, s.username, chromedp.ByQuery),
		chromedp.WaitVisible(passwordInputSelector, chromedp.ByQuery),
		chromedp.SendKeys(passwordInputSelector, s.password, chromedp.ByQuery),
		chromedp.WaitVisible(submitButtonXPath, chromedp.BySearch),
		chromedp.Click(submitButtonXPath, chromedp.BySearch),
	); err != nil {
		return fmt.Errorf("%w: submit credentials: %v", ErrAuthentication, err)
	}

	// The newsletter popup only sometimes appears; its absence is not an
	// error.
	s.dismissPopup()

	if err := s.waitGone(loginButtonXPath, s.timing.LoginWait); err != nil {
		return fmt.Errorf("%w: login button still present: %v", ErrAuthentication, err)
	}

	s.authenticated = true
	return nil
}

// Navigate loads url and blocks until the document is fully loaded. If the
// primary navigation stalls or errors, it retries once via script-based
// navigation and re-waits.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	if err := s.navigateOnce(url, timeout); err == nil {
		return nil
	}

	fallbackCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(fallbackCtx,
		chromedp.Evaluate(fmt.Sprintf(`window.location.href = %q;`, url), nil),
	); err != nil {
		return fmt.Errorf("fallback navigation to %s: %w", url, err)
	}
	return s.waitDocumentComplete(timeout)
}

func (s *Session) navigateOnce(url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return s.waitDocumentComplete(timeout)
}

func (s *Session) waitDocumentComplete(timeout time.Duration) error {
	return s.waitUntil(timeout, `document.readyState === 'complete'`)
}

// HTML returns a snapshot of the current rendered document.
func (s *Session) HTML() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page source: %w", err)
	}
	return html, nil
}

// dismissPopup closes the newsletter interstitial if it shows up within the
// popup wait budget. Best-effort only.
func (s *Session) dismissPopup() {
	popupCtx, cancel := context.WithTimeout(s.ctx, s.timing.PopupWait)
	defer cancel()
	if err := chromedp.Run(popupCtx,
		chromedp.WaitVisible(popupCloseXPath, chromedp.BySearch),
	); err != nil {
		return
	}
	_ = chromedp.Run(s.ctx, jsClick(popupCloseXPath))
}

// waitForMarker reports whether the marker appears within the wait budget.
func (s *Session) waitForMarker(xpath string, timeout time.Duration) bool {
	markerCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(markerCtx, chromedp.WaitVisible(xpath, chromedp.BySearch)) == nil
}

// clickPageControl locates the "go to page N" control and clicks it.
// Returns false when the control never shows up or the click fails; the
// caller treats both as the end of pagination.
func (s *Session) clickPageControl(page int) bool {
	xpath := fmt.Sprintf(pageButtonXPathTmpl, page)

	waitCtx, cancel := context.WithTimeout(s.ctx, s.timing.PageControlWait)
	defer cancel()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(xpath, chromedp.BySearch)); err != nil {
		return false
	}

	return chromedp.Run(s.ctx,
		chromedp.ScrollIntoView(xpath, chromedp.BySearch),
		chromedp.Sleep(500*time.Millisecond),
		jsClick(xpath),
	) == nil
}

// SocialProfileLink clicks the About section open and looks for a
// professional-network profile link. Every failure degrades to "".
func (s *Session) SocialProfileLink() string {
	aboutCtx, cancel := context.WithTimeout(s.ctx, s.timing.SocialWait)
	defer cancel()
	if err := chromedp.Run(aboutCtx,
		chromedp.WaitVisible(aboutToggleXPath, chromedp.BySearch),
		jsClick(aboutToggleXPath),
		chromedp.Sleep(1500*time.Millisecond),
	); err != nil {
		return ""
	}

	linkCtx, cancelLink := context.WithTimeout(s.ctx, s.timing.SocialWait)
	defer cancelLink()
	var href string
	var ok bool
	if err := chromedp.Run(linkCtx,
		chromedp.AttributeValue(socialLinkXPath, "href", &href, &ok, chromedp.BySearch),
	); err != nil || !ok {
		return ""
	}
	return href
}

// waitUntil polls a JS condition until it holds or the timeout elapses.
func (s *Session) waitUntil(timeout time.Duration, jsCond string) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var ok bool
		if err := chromedp.Run(s.ctx, chromedp.Evaluate(jsCond, &ok)); err == nil && ok {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %q", jsCond)
}

// waitGone polls until no element matches the XPath, or the timeout elapses.
func (s *Session) waitGone(xpath string, timeout time.Duration) error {
	cond := fmt.Sprintf(
		`document.evaluate(%q, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotLength === 0`,
		xpath,
	)
	return s.waitUntil(timeout, cond)
}

// jsClick clicks via script so that overlay-covered controls still register.
func jsClick(xpath string) chromedp.Action {
	js := fmt.Sprintf(`(() => {
		const el = document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!el) return false;
		el.scrollIntoView({behavior: 'instant', block: 'center'});
		el.click();
		return true;
	})()`, xpath)
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var clicked bool
		return chromedp.Evaluate(js, &clicked).Do(ctx)
	})
}
