package resp

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/logger"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w         http.ResponseWriter
	r         *http.Request
	closeBody bool
	code      int
	data      any
	errs      []string
	page      *pageState
	rawURL    string
	url       *url.URL
}

type pageState struct {
	More  bool  `json:"more"`
	Total int64 `json:"total"`
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores d for writing to the client under the "data" key.
//
// Used with Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err logs e under a new reference ID
// and tells the client to look for that reference in the logs.
//
// Unless a 5xx status code is already set, Err sets http.StatusInternalServerError.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		ref := uuid.NewString()
		if e == nil {
			e = fmt.Errorf("%w: Err called with nil error", golink.ErrUnexpected)
		}

		d.logger.Error(e.Error(), &logger.LogContext{
			Data:    map[string]any{"reference": ref, "data": r.data},
			Error:   e,
			Request: r.r,
			User:    currentUser(r.r),
		})

		if r.code < http.StatusInternalServerError {
			r.code = http.StatusInternalServerError
		}

		r.errs = append(r.errs, "Internal Server Error. Check logs for "+ref)
		return nil
	}
}

// Msg adds a client-facing error message under the "status.error" key.
//
// Used with Responder.Err.
func Msg(format string, args ...any) Fn {
	return func(_ Responder, r *Response) error {
		r.errs = append(r.errs, fmt.Sprintf(format, args...))
		return nil
	}
}

// Page describes where the data sits in a larger set under the "page" key.
//
// Used with Responder.Json.
func Page(total int64, more bool) Fn {
	return func(_ Responder, r *Response) error {
		r.page = &pageState{More: more, Total: total}
		return nil
	}
}

// Param adds the query parameter to the response's URL.
//
// Used with Responder.Redirect.
func Param(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		if r.url == nil {
			return fmt.Errorf("%w: URL() has not been called", golink.ErrMissingData)
		}

		q := r.url.Query()
		q.Add(key, val)
		r.url.RawQuery = q.Encode()
		r.rawURL = ""
		return nil
	}
}

// ToRoot calls URL with the Responder's root URL.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		if d.rootURL == nil {
			return fmt.Errorf("%w: no root URL", golink.ErrBadConfig)
		}

		u := *d.rootURL
		r.url = &u
		r.rawURL = ""
		return nil
	}
}

// URL parses u and sets it as the redirect destination.
// Unless Param alters it, u is sent to the client as given.
//
// Used with Responder.Redirect.
func URL(u string) Fn {
	return func(_ Responder, r *Response) error {
		parsed, err := url.Parse(u)
		if err != nil {
			return fmt.Errorf("%w: u is not a valid URL: %s", golink.ErrNotValid, err)
		}

		r.url = parsed
		r.rawURL = u
		return nil
	}
}

// currentUser pulls the user an upstream middleware set out of r's context.
func currentUser(r *http.Request) logger.LogUser {
	if r == nil {
		return nil
	}

	u, ok := r.Context().Value(golink.CurrentUserKey).(logger.LogUser)
	if !ok {
		return nil
	}

	return u
}
