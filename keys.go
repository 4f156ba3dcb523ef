package golink

// A Key stashes values in a [context.Context].
type Key string

const (
	// CurrentUserKey stashes the user making an HTTP request, as forwarded by the auth proxy.
	CurrentUserKey Key = "CurrentUserKey"

	// IpAddrKey stashes the IP address of an HTTP request.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "golink context key: " + string(k)
}
