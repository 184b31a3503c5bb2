package quota

import (
	"net/http"

	"github.com/farescope/quotakit/pkg/clientip"
	"github.com/farescope/quotakit/svc/guest"
)

// GuestSeatmapGuard gates seat-map requests from unauthenticated visitors
// against the guest store's lifetime cap. Expects clientip.Middleware to
// have run. Requests whose IP could not be determined pass through
// unmetered; the guest store has no key to account them under.
//
// The guard only checks. The handler records consumption via
// guest.Store.RecordSeatmapRequest after the upstream fetch succeeds.
func GuestSeatmapGuard(store guest.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.FromContext(r.Context())
			if ip == "" || ip == clientip.Unknown {
				next.ServeHTTP(w, r)
				return
			}

			if !store.CanMakeSeatmapRequest(r.Context(), ip) {
				http.Error(w, guest.DenialMessage(), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
