package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
	"github.com/ewilliams-labs/lineup/internal/logging"
)

const defaultLineupConcurrency = 4

// LineupAssembler resolves a festival lineup against the catalog, running
// a bounded number of resolutions at once.
type LineupAssembler struct {
	concurrency int
	resolverOps []ResolverOption
	logger      zerolog.Logger
}

// NewLineupAssembler constructs a LineupAssembler. concurrency below 1 uses the default.
func NewLineupAssembler(concurrency int, logger zerolog.Logger, opts ...ResolverOption) *LineupAssembler {
	if concurrency < 1 {
		concurrency = defaultLineupConcurrency
	}
	return &LineupAssembler{concurrency: concurrency, resolverOps: opts, logger: logger}
}

// ResolveLineup resolves every name and returns the matches in input order.
// Names without a confident match are left out. If ctx ends first, no
// results are returned.
func (a *LineupAssembler) ResolveLineup(ctx context.Context, catalog ports.ArtistCatalog, names []string) ([]domain.ResolvedArtist, error) {
	resolver := NewArtistResolver(catalog, a.logger, a.resolverOps...)
	slots := make([]*domain.ResolvedArtist, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if artist, ok := resolver.Resolve(gctx, name); ok {
				slots[i] = &artist
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved := make([]domain.ResolvedArtist, 0, len(names))
	for _, slot := range slots {
		if slot != nil {
			resolved = append(resolved, *slot)
		}
	}

	skipped := len(names) - len(resolved)
	logging.FromContext(ctx, a.logger).Info().
		Int("requested", len(names)).
		Int("resolved", len(resolved)).
		Int("skipped", skipped).
		Msg("lineup resolved")

	return resolved, nil
}
