// Package quota decides whether a billable action — creating a bookmark or
// fetching a seat map — is currently allowed for an actor, and records
// consumption so future decisions stay consistent.
//
// Authenticated users are metered per month against their tier's limits
// (svc/tier, svc/usage); unauthenticated visitors are metered per IP against
// a lifetime cap (svc/guest). GuestTransfer bridges the two at registration
// by migrating a guest's consumed count into the new account.
//
// The error posture is deliberate and uneven:
//
//   - Checks (CanCreateBookmark, CanMakeSeatmapRequest) never fail: any
//     underlying error answers false, preferring to under-permit.
//   - An unavailable tier policy table is a hard denial everywhere, never an
//     unlimited default.
//   - RecordBookmarkCreation gates the action and is the one place that
//     returns a user-renderable denial (*QuotaExceededError).
//   - RecordSeatmapRequest runs after the user already has their answer and
//     therefore never fails the request; problems are logged and swallowed.
//
// Because the backing store has no multi-key transactions, the limit checks
// inside the recording paths are single conditional increments rather than
// read-then-write sequences; concurrent requests cannot overshoot a limit.
package quota
