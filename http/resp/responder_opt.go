package resp

import (
	"net/url"

	"github.com/xy-planning-network/golink/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, a logger.SlogLogger over slog.Default is used.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithRootURL sets the URL ToRoot redirects to.
//
// NOTE: If u fails parsing by url.ParseRequestURI, the root URL becomes "/".
func WithRootURL(u string) ResponderOptFn {
	good, err := url.ParseRequestURI(u)
	if err != nil {
		good = &url.URL{Path: "/"}
	}

	return func(d *Responder) {
		d.rootURL = good
	}
}
