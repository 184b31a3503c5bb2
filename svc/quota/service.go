package quota

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/farescope/quotakit/pkg/logger"
	"github.com/farescope/quotakit/svc/tier"
	"github.com/farescope/quotakit/svc/usage"
)

// User identifies an authenticated actor with a tier already resolved by the
// authentication layer.
type User struct {
	ID   uuid.UUID
	Tier string
}

// TierResolver resolves a tier name to its policy definition.
// *tier.Store satisfies it.
type TierResolver interface {
	Resolve(name string) (tier.Definition, error)
}

// Service answers "may this user act?" and records consumption for the two
// billable operations. Error posture follows a fixed table: checks never
// propagate store errors (they answer false), the bookmark-gating write
// surfaces *QuotaExceededError, and the post-delivery seat-map write is
// fail-open.
type Service struct {
	tiers  TierResolver
	usage  usage.Store
	logger *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger configures the logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a usage limits service. All collaborators are
// constructor parameters; nothing is wired after construction.
func NewService(tiers TierResolver, usageStore usage.Store, opts ...Option) *Service {
	s := &Service{
		tiers:  tiers,
		usage:  usageStore,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanCreateBookmark reports whether the user has monthly bookmark quota
// left. Any underlying failure, including an unavailable policy table,
// answers false rather than erroring.
func (s *Service) CanCreateBookmark(ctx context.Context, user User) bool {
	def, err := s.tiers.Resolve(user.Tier)
	if err != nil {
		s.logger.WarnContext(ctx, "bookmark check denied, tier unresolved",
			logger.UserID(user.ID), logger.Tier(user.Tier), logger.Error(err))
		return false
	}
	if def.BookmarksUnlimited() {
		return true
	}
	return s.usage.RemainingBookmarks(ctx, user.ID, def.MaxBookmarks) > 0
}

// RecordBookmarkCreation consumes one bookmark slot for the current month.
// The check and the increment are one conditional store write, so two
// concurrent calls cannot both take the last slot. Fails with
// *QuotaExceededError when the tier has no quota left; the message tells the
// user how to proceed.
func (s *Service) RecordBookmarkCreation(ctx context.Context, user User) error {
	def, err := s.tiers.Resolve(user.Tier)
	if err != nil {
		return err
	}

	if def.MaxBookmarks == 0 {
		return &QuotaExceededError{
			Tier: def.Name(),
			Message: fmt.Sprintf(
				"Saved searches are not available for %s tier. Upgrade to a paid tier to bookmark flights.",
				def.Name()),
		}
	}

	if err := s.usage.IncrementBookmarks(ctx, user.ID, def.MaxBookmarks); err != nil {
		if errors.Is(err, usage.ErrLimitReached) {
			used := s.usage.GetOrCreate(ctx, user.ID).BookmarksCreated
			return &QuotaExceededError{
				Tier: def.Name(),
				Message: fmt.Sprintf(
					"Monthly bookmark limit reached (%d/%d) for %s tier",
					used, def.MaxBookmarks, def.Name()),
			}
		}
		return err
	}
	return nil
}

// CanMakeSeatmapRequest reports whether the user has monthly seat-map quota
// left. Same fail-safe-deny posture as CanCreateBookmark.
func (s *Service) CanMakeSeatmapRequest(ctx context.Context, user User) bool {
	def, err := s.tiers.Resolve(user.Tier)
	if err != nil {
		s.logger.WarnContext(ctx, "seat-map check denied, tier unresolved",
			logger.UserID(user.ID), logger.Tier(user.Tier), logger.Error(err))
		return false
	}
	if def.SeatmapCallsUnlimited() {
		return true
	}
	rec := s.usage.GetOrCreate(ctx, user.ID)
	return usage.Remaining(def.MaxSeatmapCalls, rec.SeatmapRequestsUsed) > 0
}

// RecordSeatmapRequest advances the seat-map counter after a successful
// upstream fetch. The user already received their answer, so nothing here
// may fail the request: every problem is logged and swallowed.
func (s *Service) RecordSeatmapRequest(ctx context.Context, user User) {
	def, err := s.tiers.Resolve(user.Tier)
	if err != nil {
		s.logger.ErrorContext(ctx, "seat-map usage not recorded, tier unresolved",
			logger.UserID(user.ID), logger.Tier(user.Tier), logger.Error(err))
		return
	}

	if err := s.usage.IncrementSeatmapRequests(ctx, user.ID, def.MaxSeatmapCalls); err != nil {
		s.logger.ErrorContext(ctx, "seat-map usage not recorded",
			logger.UserID(user.ID), logger.Tier(user.Tier), logger.Error(err))
	}
}

// GetRemainingBookmarks reports the user's remaining monthly bookmark quota.
// Unlimited tiers report the maximum representable integer; an unresolvable
// tier reports zero.
func (s *Service) GetRemainingBookmarks(ctx context.Context, user User) int {
	def, err := s.tiers.Resolve(user.Tier)
	if err != nil {
		return 0
	}
	return s.usage.RemainingBookmarks(ctx, user.ID, def.MaxBookmarks)
}

// ValidateTierTransition checks whether a tier change is permitted.
// BUSINESS is a one-time purchase and cannot be left; every other
// transition, including into BUSINESS, succeeds.
func (s *Service) ValidateTierTransition(from, to string) error {
	if tier.Normalize(from) == tier.Business && tier.Normalize(to) != tier.Business {
		return fmt.Errorf("%w: %s tier cannot be downgraded", ErrInvalidTransition, tier.Business)
	}
	return nil
}
