package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/xy-planning-network/golink"
	"github.com/xy-planning-network/golink/http/resp"
	"github.com/xy-planning-network/golink/store"
)

// Headers an oauth2-proxy in front of golink identifies the user with.
const (
	ForwardedUserHeader              = "X-Forwarded-User"
	ForwardedPreferredUsernameHeader = "X-Forwarded-Preferred-Username"
)

// AnonymousUser stands in for the user when anonymous access is allowed
// and the proxy forwarded no one.
var AnonymousUser = store.User{ExternalID: "1234", Name: "Unknown"}

// ProxyUser reads the user an authenticating proxy forwarded
// and stores it in the request context under golink.CurrentUserKey.
//
// Both ForwardedUserHeader and ForwardedPreferredUsernameHeader must be set.
// Without them, AnonymousUser is stored if allowAnonymous is true
// and no user is stored otherwise.
func ProxyUser(allowAnonymous bool) Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := forwardedUser(r.Header)
			if !ok && allowAnonymous {
				u, ok = AnonymousUser, true
			}

			if ok {
				r = r.Clone(context.WithValue(r.Context(), golink.CurrentUserKey, u))
			}

			h.ServeHTTP(w, r)
		})
	}
}

func forwardedUser(hm http.Header) (store.User, bool) {
	id := strings.TrimSpace(hm.Get(ForwardedUserHeader))
	name := strings.TrimSpace(hm.Get(ForwardedPreferredUsernameHeader))
	if id == "" || name == "" {
		return store.User{}, false
	}

	return store.User{ExternalID: id, Name: name}, true
}

// CurrentUser retrieves the user ProxyUser stored in ctx.
func CurrentUser(ctx context.Context) (store.User, bool) {
	u, ok := ctx.Value(golink.CurrentUserKey).(store.User)
	return u, ok
}

// RequireUser responds with 403 unless ProxyUser stored a user in the request context.
func RequireUser(d *resp.Responder) Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUser(r.Context()); !ok {
				d.Err(w, r, golink.ErrMissingData,
					resp.Code(http.StatusForbidden),
					resp.Msg("Endpoint required authentication, but none was provided."),
				)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}
