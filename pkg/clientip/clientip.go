package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is returned when no valid client address can be determined.
// Downstream quota logic treats it as a sentinel and skips IP-keyed
// accounting for such requests.
const Unknown = "unknown"

// GetIP returns the client's IP address from an HTTP request.
// Resolution order:
//  1. X-Forwarded-For — first valid address in the list
//  2. X-Real-IP — set by reverse proxies such as Nginx
//  3. RemoteAddr — transport-level source address
//
// If none of these yields a parseable IP, Unknown is returned.
func GetIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For can contain multiple addresses; the first valid
		// one is the originating client.
		for ip := range strings.SplitSeq(forwarded, ",") {
			if parsed := parseIP(strings.TrimSpace(ip)); parsed != "" {
				return parsed
			}
		}
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if parsed := parseIP(ip); parsed != "" {
			return parsed
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr may already be a bare IP.
		host = r.RemoteAddr
	}
	if parsed := parseIP(host); parsed != "" {
		return parsed
	}

	return Unknown
}

// parseIP validates and normalizes an IP address string.
// Returns empty string if the IP is invalid.
func parseIP(ipStr string) string {
	ipStr = strings.TrimSpace(ipStr)
	if ipStr == "" {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	return ip.String()
}
