package tier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Source loads tier definitions from the policy table.
type Source interface {
	Load(ctx context.Context) ([]Definition, error)
}

// Store resolves tier names to their active definitions. The policy table is
// scanned once at construction and cached in memory; the cache is never
// mutated afterwards, so concurrent readers need no locking.
//
// If the scan fails or yields no usable rows the store is permanently failed
// for the process lifetime: every Resolve call returns ErrPolicyUnavailable.
// Ambiguous policy must never be interpreted as permissive.
type Store struct {
	byName map[string]Definition
	failed bool
	logger *slog.Logger
}

// StoreOption configures a Store during construction.
type StoreOption func(*Store)

// WithLogger configures the logger for the policy store.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore scans the policy source and builds the in-memory name index from
// active rows. Construction itself never fails; a failed scan produces a
// fail-closed store so callers deny rather than crash or default open.
func NewStore(ctx context.Context, src Source, opts ...StoreOption) *Store {
	s := &Store{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	defs, err := src.Load(ctx)
	if err != nil {
		s.failed = true
		s.logger.ErrorContext(ctx, "tier policy load failed, all authorization will deny",
			slog.Any("error", err))
		return s
	}

	index := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if !def.Active || def.TierName == "" {
			continue
		}
		name := def.Name()
		// One active definition per (name, region) is authoritative; on
		// duplicates the most recently updated row wins.
		if existing, ok := index[name]; ok && !existing.UpdatedAt.Before(def.UpdatedAt) {
			continue
		}
		index[name] = def
	}

	if len(index) == 0 {
		s.failed = true
		s.logger.ErrorContext(ctx, "tier policy table has no active rows, all authorization will deny")
		return s
	}

	s.byName = index
	return s
}

// Resolve returns the active definition for the named tier. Lookup is
// case-insensitive. Fails with ErrPolicyUnavailable when the initial load
// failed or the tier is unknown.
func (s *Store) Resolve(name string) (Definition, error) {
	if s.failed {
		return Definition{}, errors.Join(ErrPolicyUnavailable, ErrLoadFailed)
	}

	def, ok := s.byName[Normalize(name)]
	if !ok {
		return Definition{}, fmt.Errorf("%w: unknown tier %q", ErrPolicyUnavailable, name)
	}
	return def, nil
}

// Definitions returns the cached active definitions, sorted by name.
func (s *Store) Definitions() []Definition {
	defs := slices.Collect(maps.Values(s.byName))
	slices.SortFunc(defs, func(a, b Definition) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return defs
}

// Failed reports whether the initial policy scan failed.
func (s *Store) Failed() bool {
	return s.failed
}
