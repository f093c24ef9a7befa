package radius

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

// ZipResolver resolves a raw zip code to a point; ok is false when unresolvable.
type ZipResolver interface {
	ResolveZip(ctx context.Context, raw string) (geo.Resolution, bool)
}
