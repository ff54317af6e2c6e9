package discovery

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ExclusionResolver computes the set of user IDs that must never surface as
// candidates for a viewer: the viewer themself, everyone they blocked,
// everyone they currently match with, and everyone they reported.
//
// The set is advisory rather than a security boundary, so it may be served
// from a short-TTL cache; staleness only risks showing an excluded profile
// one extra time.
type ExclusionResolver struct {
	repo  Repository
	cache *ExclusionCache
}

func NewExclusionResolver(repo Repository, cache *ExclusionCache) *ExclusionResolver {
	return &ExclusionResolver{repo: repo, cache: cache}
}

// ExcludedIDs returns the exclusion set for a viewer. The three relationship
// reads are independent and issued in parallel. Blocks count only in the
// viewer->blocked direction here; matches count regardless of who initiated.
func (r *ExclusionResolver) ExcludedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	if r.cache != nil {
		if ids, ok := r.cache.Get(ctx, userID); ok {
			RecordExclusionCache(true)
			return toSet(ids, userID), nil
		}
		RecordExclusionCache(false)
	}

	var blocked, matched, reported []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blocked, err = r.repo.GetBlockedIDs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		matched, err = r.repo.GetMatchedIDs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		reported, err = r.repo.GetReportedIDs(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(blocked)+len(matched)+len(reported))
	ids = append(ids, blocked...)
	ids = append(ids, matched...)
	ids = append(ids, reported...)

	if r.cache != nil {
		r.cache.Set(ctx, userID, ids)
	}

	return toSet(ids, userID), nil
}

func toSet(ids []string, self string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids)+1)
	set[self] = struct{}{}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
