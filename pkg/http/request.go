package http

import (
	"net"
	"net/http"
)

// UnknownIP is stored in place of a source address that is not a
// syntactically valid IPv4 or IPv6 address.
const UnknownIP = "0.0.0.0"

// ResolveAddress validates a candidate source address. A syntactically
// valid IPv4 or IPv6 address is returned unchanged; anything else
// (including the empty string) collapses to the unknown-address sentinel,
// so stored records never carry arbitrary unvalidated text.
func ResolveAddress(candidate string) string {
	if net.ParseIP(candidate) != nil {
		return candidate
	}
	return UnknownIP
}

// ExtractClientIP extracts the client IP address from the request.
// X-Forwarded-For is deliberately ignored: it is trivially spoofed and
// the recorded address feeds an audit trail. RemoteAddr only.
func ExtractClientIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return UnknownIP
	}

	// RemoteAddr may include port: "ip:port"
	host := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = ip
	}

	return ResolveAddress(host)
}
