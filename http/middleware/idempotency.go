package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"net/http"
)

// IdempotencyHeader names the request header carrying an idempotency key.
const IdempotencyHeader = "Idempotency-Key"

// Idempotent returns a middleware.Adapter that enables features
// of idempotency on a POST endpoint.
// GET, DELETE & PUT are idempotent by definition.
//
// Idempotent pulls a key from request headers
// to base the uniqueness of a POST request around.
// Requests without the header pass through untouched.
//
// If a previous request has not used that key,
// Idempotent pairs all of the following values to the key:
//   - a hash of the body of the request
//   - the body of the resulting response
//   - the status code of the resulting response
//
// If that key has been used before (and has not expired),
// Idempotent falls into one of these scenarios:
//
//   - if a status code has not been set for that key,
//     Idempotent responds with 409 since the idempotent request is still processing
//
//   - if the newly requested resource (the URI) does not match the original,
//     Idempotent responds with 422
//
//   - if the new request's body does not match the body of the original request's,
//     Idempotent responds with 422
//
//   - otherwise, Idempotent writes the status code and body set for the key
//
// If cache is nil, an IdemResMap is used.
//
// Idempotent implements the draft Idempotent HTTP Header Field specification:
// https://tools.ietf.org/id/draft-idempotency-header-01.html
func Idempotent(cache IdempotencyCacher) Adapter {
	if cache == nil {
		cache = NewIdemResMap()
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}

			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				handler.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)

			ir, ok := cache.Get(r.Context(), key)
			if ok {
				switch {
				case ir.Status == 0:
					w.WriteHeader(http.StatusConflict)
				case ir.URI != r.URL.RequestURI() || !bytes.Equal(ir.Req, sum[:]):
					w.WriteHeader(http.StatusUnprocessableEntity)
				default:
					if ir.ContentType != "" {
						w.Header().Set("Content-Type", ir.ContentType)
					}
					w.WriteHeader(ir.Status)
					w.Write(ir.Body)
				}
				return
			}

			ir = NewIdemRes(r.URL.RequestURI(), sum[:])
			cache.Set(r.Context(), key, ir)

			irw := &idemReqWriter{
				ctx: r.Context(),
				c:   cache,
				i:   &ir,
				k:   key,
				w:   w,
			}
			handler.ServeHTTP(irw, r)
		})
	}
}

// An IdemRes is data from an HTTP response
// that can be reused when another request
// matches the same idempotency key.
type IdemRes struct {
	Body        []byte
	ContentType string
	Req         []byte
	Status      int
	URI         string
}

// NewIdemRes constructs a new IdemRes.
func NewIdemRes(uri string, hashedBody []byte) IdemRes {
	return IdemRes{URI: uri, Req: hashedBody}
}

// An idemReqWriter pairs an IdemRes with an http.ResponseWriter
// so both can be written to by an HTTP handler.
// Changes to the IdemRes in such a way are saved in the cache.
type idemReqWriter struct {
	ctx context.Context
	c   IdempotencyCacher
	i   *IdemRes
	k   string
	w   http.ResponseWriter
}

// Header returns the http.Header of the underlying http.ResponseWriter.
func (irw *idemReqWriter) Header() http.Header { return irw.w.Header() }

// Write writes the bytes to all consumers the idemReqWriter is concerned with.
func (irw *idemReqWriter) Write(b []byte) (int, error) {
	if irw.i.Status == 0 {
		irw.WriteHeader(http.StatusOK)
	}

	n, err := irw.w.Write(b)
	if err != nil {
		return n, err
	}

	irw.i.Body = append(irw.i.Body, b[:n]...)
	irw.c.Set(irw.ctx, irw.k, *irw.i)
	return n, nil
}

// WriteHeader copies the status code about to be written to the IdemRes for later reuse
// before actually writing the status code.
func (irw *idemReqWriter) WriteHeader(s int) {
	irw.i.Status = s
	irw.i.ContentType = irw.w.Header().Get("Content-Type")
	irw.c.Set(irw.ctx, irw.k, *irw.i)
	irw.w.WriteHeader(s)
}
