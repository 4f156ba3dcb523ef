package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/logger"
)

// Responder maintains reusable pieces for responding to HTTP requests.
// These are the forms of response Responder can execute:
//
//	Err
//	Json
//	Redirect
//
// A single instance of a Responder suffices for an application.
//
// When handling a specific HTTP request, calling code supplies additional data, structure,
// and so forth through Fn functions.
type Responder struct {
	logger logger.Logger

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool

	// URL ToRoot redirects to
	rootURL *url.URL
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool: &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New(nil)
	}

	if l, ok := d.logger.(*logger.SlogLogger); ok {
		d.logger = l.AddSkip(1)
	}

	return d
}

type status struct {
	Code  int      `json:"code"`
	Error []string `json:"error,omitempty"`
}

type envelope struct {
	Status status     `json:"status"`
	Data   any        `json:"data,omitempty"`
	Page   *pageState `json:"page,omitempty"`
}

// Err responds with err in the JSON envelope.
//
// Without a 4xx status code set by Code, Err treats err as a server error:
// it logs err and sends the client a reference to find it by.
// With a 4xx status code, messages set by Msg are sent to the client;
// without any, err's message is.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr, nested := doer.do(w, r, opts...)
	if nested != nil {
		err = fmt.Errorf("%w: %s", err, nested)
	}

	isClientErr := rr.code >= http.StatusBadRequest && rr.code < http.StatusInternalServerError
	switch {
	case !isClientErr:
		Err(err)(*doer, rr)

	case len(rr.errs) == 0:
		Msg("%s", err)(*doer, rr)
		fallthrough

	default:
		doer.logger.Debug(err.Error(), &logger.LogContext{Error: err, Request: r, User: currentUser(r)})
	}

	if rr.closeBody && r.Body != nil {
		defer r.Body.Close()
	}

	if werr := doer.write(w, rr); werr != nil {
		doer.logger.Error("failed writing error response", &logger.LogContext{Error: werr, Request: r})
	}
}

// Json responds with data in the JSON envelope, collating it from Data and Page.
//
// The default response status code is 200.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.closeBody && r.Body != nil {
		defer r.Body.Close()
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	return doer.write(w, rr)
}

// Redirect calls http.Redirect, given URL set the redirect destination.
// If URL is not passed in opts, then ToRoot sets the redirect destination.
//
// The default response status code is 302.
//
// If Code set the status code to something other than standard redirect 3xx statuses,
// Redirect overwrites the status code with an appropriate 3xx status code.
func (doer *Responder) Redirect(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	if doer.rootURL != nil {
		opts = append([]Fn{ToRoot()}, opts...)
	}

	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.closeBody && r.Body != nil {
		defer r.Body.Close()
	}

	if rr.url == nil {
		return fmt.Errorf("%w: cannot redirect, no resp.url", golink.ErrMissingData)
	}

	switch {
	case rr.code >= http.StatusMultipleChoices && rr.code <= http.StatusPermanentRedirect:
	case rr.code >= http.StatusBadRequest && rr.code < http.StatusInternalServerError:
		rr.code = http.StatusSeeOther
	case rr.code >= http.StatusInternalServerError:
		rr.code = http.StatusTemporaryRedirect
	default:
		rr.code = http.StatusFound
	}

	location := rr.rawURL
	if location == "" {
		location = rr.url.String()
	}

	http.Redirect(w, r, location, rr.code)
	return nil
}

// write encodes rr into the envelope and sends it.
func (doer *Responder) write(w http.ResponseWriter, rr *Response) error {
	payload := envelope{
		Status: status{Code: rr.code, Error: rr.errs},
		Data:   rr.data,
		Page:   rr.page,
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(payload); err != nil {
		err = fmt.Errorf("%w: failed encoding response: %s", golink.ErrUnexpected, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// do applies all options to the passed in http.ResponseWriter and *http.Request.
//
// Calling code ought to pass options in the correct order.
// An option requiring something set by another one should come after.
// do nonetheless retries options that returned errors until all succeed
// or a set of options unable to succeed is reached.
//
// do always returns a *Response, even when some options failed.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	resp := &Response{
		closeBody: true,
		w:         w,
		r:         r,
	}

	var redos []Fn
	for _, opt := range opts {
		if err := r.Context().Err(); err != nil {
			return resp, fmt.Errorf("request ctx done: %w", err)
		}

		if err := opt(*doer, resp); err != nil {
			redos = append(redos, opt)
		}
	}

	for {
		if len(redos) == 0 {
			return resp, nil
		}

		if err := r.Context().Err(); err != nil {
			return resp, fmt.Errorf("request ctx done: %w", err)
		}

		// NOTE: redo shrinks redos until only options that keep failing are left.
		n := len(redos)
		redos = doer.redo(resp, redos...)
		if len(redos) == n {
			break
		}
	}

	var err error
	for _, opt := range redos {
		nested := opt(*doer, resp)
		if err == nil {
			err = nested
			continue
		}

		err = fmt.Errorf("%w: %s", err, nested)
	}

	return resp, err
}

// redo applies each of opts, returning those that still fail.
func (doer *Responder) redo(resp *Response, opts ...Fn) []Fn {
	var failed []Fn
	for _, opt := range opts {
		if err := opt(*doer, resp); err != nil {
			failed = append(failed, opt)
		}
	}

	return failed
}
