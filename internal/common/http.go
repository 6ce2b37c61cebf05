package common

import (
	"net"
	"net/http"
)

// ClientIP returns the host part of RemoteAddr. Proxy headers are applied
// upstream by chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
