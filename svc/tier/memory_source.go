package tier

import (
	"context"
	"slices"
)

// inMemSource implements the Source interface over a static definition list.
type inMemSource struct {
	defs []Definition
}

// NewInMemSource returns an in-memory Source with a copy of the given
// definitions. Useful for tests and for deployments that pin the tier table
// in configuration instead of the database.
func NewInMemSource(defs ...Definition) Source {
	return &inMemSource{defs: slices.Clone(defs)}
}

func (s *inMemSource) Load(ctx context.Context) ([]Definition, error) {
	return slices.Clone(s.defs), nil
}
