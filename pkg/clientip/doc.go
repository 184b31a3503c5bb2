// Package clientip extracts the originating client's IP address from an
// *http.Request behind one or more reverse proxies.
//
// The resolution algorithm examines sources in descending priority until the
// first valid IP address is found:
//
//  1. X-Forwarded-For — comma-separated list, first valid entry wins
//  2. X-Real-IP — set by reverse proxies such as Nginx
//  3. RemoteAddr — TCP peer address as a fallback
//
// When nothing parses, GetIP returns the literal string "unknown"
// (the Unknown constant). Guest quota accounting keys records by IP, so the
// sentinel lets downstream code skip accounting rather than pile every
// unattributable request onto a single shared record.
//
// # Usage
//
//	// As middleware
//	mux := http.NewServeMux()
//	mux.HandleFunc("/seatmap", handler)
//	http.ListenAndServe(":8080", clientip.Middleware(mux))
//
//	// Inside a handler
//	ip := clientip.FromContext(r.Context())
package clientip
