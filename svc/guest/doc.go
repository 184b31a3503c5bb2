// Package guest meters seat-map access for unauthenticated visitors,
// identified only by client IP.
//
// Each IP gets a fixed lifetime cap of two seat-map fetches. Records expire
// six months after first access; an expired record is treated as a fresh IP
// on read, regardless of whether the store's background TTL reclamation has
// caught up. Once the cap is consumed the caller renders DenialMessage and
// points the visitor at registration, where svc/quota's transfer migrates
// the consumed count into the new account.
package guest
