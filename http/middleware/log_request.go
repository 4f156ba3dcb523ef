package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/xy-planning-network/golink"
)

// maskedParams are query params LogRequest never writes out.
var maskedParams = []string{"password", "token"}

// A LogRequestRecord describes a served HTTP request.
type LogRequestRecord struct {
	BodySize       int    `json:"bodySize"`
	Host           string `json:"host"`
	ID             string `json:"id"`
	IPAddr         string `json:"ipAddr"`
	Method         string `json:"method"`
	Path           string `json:"path"`
	Protocol       string `json:"protocol"`
	Referrer       string `json:"referrer"`
	ReqContentType string `json:"reqContentType"`
	Scheme         string `json:"scheme"`
	Status         int    `json:"status"`
	URI            string `json:"uri"`
	UserAgent      string `json:"userAgent"`
}

func (rec LogRequestRecord) attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("bodySize", rec.BodySize),
		slog.String("host", rec.Host),
		slog.String("id", rec.ID),
		slog.String("ipAddr", rec.IPAddr),
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.String("protocol", rec.Protocol),
		slog.String("referrer", rec.Referrer),
		slog.String("reqContentType", rec.ReqContentType),
		slog.String("scheme", rec.Scheme),
		slog.Int("status", rec.Status),
		slog.String("uri", rec.URI),
		slog.String("userAgent", rec.UserAgent),
	}
}

// LogRequest logs a LogRequestRecord and how long serving took for every request
// using the enclosed *slog.Logger.
//
// LogRequest masks the values of "password" and "token" query params.
//
// If l is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(l *slog.Logger) Adapter {
	if l == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			h.ServeHTTP(sw, r)

			rec := newLogRequestRecord(r, sw)
			level := slog.LevelInfo
			if rec.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := append(rec.attrs(), slog.Duration("duration", time.Since(start)))
			l.LogAttrs(r.Context(), level, rec.Method+" "+rec.URI, attrs...)
		})
	}
}

func newLogRequestRecord(r *http.Request, sw *statusWriter) LogRequestRecord {
	uri := r.URL.Path
	q := r.URL.Query()
	for _, key := range maskedParams {
		golink.Mask(q, key)
	}

	if query := q.Encode(); query != "" {
		uri += "?" + query
	}

	id, _ := r.Context().Value(golink.RequestIDKey).(string)
	ip, _ := r.Context().Value(golink.IpAddrKey).(string)

	return LogRequestRecord{
		BodySize:       sw.size,
		Host:           r.Host,
		ID:             id,
		IPAddr:         ip,
		Method:         r.Method,
		Path:           r.URL.Path,
		Protocol:       r.Proto,
		Referrer:       r.Referer(),
		ReqContentType: r.Header.Get("Content-Type"),
		Scheme:         r.URL.Scheme,
		Status:         sw.Status(),
		URI:            uri,
		UserAgent:      r.UserAgent(),
	}
}

// A statusWriter records the status code and body size an http.Handler writes.
type statusWriter struct {
	http.ResponseWriter

	size   int
	status int
}

// Status returns the status code written, defaulting to http.StatusOK.
func (sw *statusWriter) Status() int {
	if sw.status == 0 {
		return http.StatusOK
	}

	return sw.status
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}

	n, err := sw.ResponseWriter.Write(b)
	sw.size += n

	return n, err
}

// Unwrap lets http.ResponseController reach the underlying http.ResponseWriter.
func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }
