package quota

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/farescope/quotakit/pkg/clientip"
	"github.com/farescope/quotakit/pkg/logger"
	"github.com/farescope/quotakit/svc/guest"
	"github.com/farescope/quotakit/svc/usage"
)

// GuestTransfer migrates a guest's consumed seat-map quota into a freshly
// registered account, so registering does not reset the free allowance.
// Invoked once from the registration flow.
type GuestTransfer struct {
	guests guest.Store
	usage  usage.Store
	logger *slog.Logger
}

// TransferOption configures a GuestTransfer during construction.
type TransferOption func(*GuestTransfer)

// WithTransferLogger configures the logger for the transfer.
func WithTransferLogger(l *slog.Logger) TransferOption {
	return func(t *GuestTransfer) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewGuestTransfer creates a transfer wired to the guest and usage stores.
func NewGuestTransfer(guests guest.Store, usageStore usage.Store, opts ...TransferOption) *GuestTransfer {
	t := &GuestTransfer{
		guests: guests,
		usage:  usageStore,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transfer copies the guest record's consumed seat-map count for clientIP
// into a current-month usage record for newUserID (bookmarks start at zero).
// It silently no-ops when the IP is empty or the "unknown" sentinel, when no
// live record exists, or when nothing was consumed. Store failures are
// logged and swallowed: registration must succeed regardless of transfer
// outcome.
func (t *GuestTransfer) Transfer(ctx context.Context, newUserID uuid.UUID, clientIP string) {
	if clientIP == "" || clientIP == clientip.Unknown {
		return
	}

	rec, found, err := t.guests.Get(ctx, clientIP)
	if err != nil {
		t.logger.ErrorContext(ctx, "guest usage transfer skipped, record unreadable",
			logger.UserID(newUserID), logger.ClientIP(clientIP), logger.Error(err))
		return
	}
	if !found || rec.SeatmapRequestsUsed == 0 {
		return
	}

	target := usage.NewRecord(newUserID)
	target.SeatmapRequestsUsed = rec.SeatmapRequestsUsed

	if err := t.usage.Save(ctx, target); err != nil {
		t.logger.ErrorContext(ctx, "guest usage transfer failed",
			logger.UserID(newUserID), logger.ClientIP(clientIP), logger.Error(err))
		return
	}

	t.logger.InfoContext(ctx, "guest usage transferred",
		logger.UserID(newUserID), logger.ClientIP(clientIP),
		slog.Int("seatmap_requests", rec.SeatmapRequestsUsed))
}
