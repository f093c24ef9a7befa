package directory

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/record"
)

// Repository reads single directory records.
type Repository interface {
	Get(ctx context.Context, id string) (record.Record, error)
}
