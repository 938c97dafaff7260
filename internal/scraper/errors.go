package scraper

import "fmt"

// FetchError reports a failed HTTP retrieval of the album page or an image.
// The caller decides whether to retry; the scraper never does.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a page that could be fetched but not understood:
// the title element is missing, or a mandatory field is malformed.
type ParseError struct {
	URL    string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: field %q: %s", e.URL, e.Field, e.Reason)
}
