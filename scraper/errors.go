package scraper

import "errors"

var (
	// ErrDriverInit means the browser/driver could not be started.
	// Fatal to the run.
	ErrDriverInit = errors.New("browser driver initialization failed")

	// ErrAuthentication means login could not be completed within its wait
	// budget. Fatal to the run; credentials are either invalid or the login
	// flow has changed, so there is no point retrying.
	ErrAuthentication = errors.New("authentication failed")

	// ErrElementNotFound means none of a field's extraction strategies
	// produced a value. Callers recover with a default.
	ErrElementNotFound = errors.New("element not found")
)
