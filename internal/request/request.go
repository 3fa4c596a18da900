package request

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient is the sentinel identifier used when no address can be
// derived from the request.
const UnknownClient = "unknown"

// ClientIP derives a client identifier for rate limiting and audit logging:
// the connection's source address, falling back to the first X-Forwarded-For
// entry, falling back to UnknownClient.
//
// The forwarded-for header is client-supplied and spoofable; trusting it is a
// known weakness kept deliberately, since the proper fix (trusted-proxy
// configuration) is deployment-specific.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	return UnknownClient
}
