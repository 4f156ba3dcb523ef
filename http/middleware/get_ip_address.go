package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/xy-planning-network/golink"
)

// UnknownIPAddress is reported when no public address can be found.
const UnknownIPAddress = "0.0.0.0"

// InjectIPAddress grabs the IP address in the *http.Request.Header
// and promotes it to *http.Request.Context under golink.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetIPAddress(r.Header)
			r = r.Clone(context.WithValue(r.Context(), golink.IpAddrKey, ip))
			h.ServeHTTP(w, r)
		})
	}
}

// GetIPAddress parses "X-Forwarded-For" and "X-Real-Ip" headers for the IP address
// from the request.
//
// GetIPAddress skips addresses from non-public ranges.
func GetIPAddress(hm http.Header) string {
	for _, h := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		addresses := strings.Split(hm.Get(h), ",")
		// march from right to left until we get a public address
		// that will be the address right before our proxy.
		for i := len(addresses) - 1; i >= 0; i-- {
			ip := strings.TrimSpace(addresses[i])
			if isPublic(net.ParseIP(ip)) {
				return ip
			}
		}
	}

	return UnknownIPAddress
}

// carrierGradeNAT is the shared address space of RFC 6598, which IsPrivate does not cover.
var carrierGradeNAT = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isPublic(ip net.IP) bool {
	switch {
	case ip == nil:
		return false
	case !ip.IsGlobalUnicast(), ip.IsPrivate(), carrierGradeNAT.Contains(ip):
		return false
	}

	return true
}
