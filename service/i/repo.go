package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-bot/domain"
)

// ResultRepo defines the persistence of finished runs.
type ResultRepo interface {
	// Save stores a finished run. Saving the same result twice overwrites it.
	Save(ctx context.Context, result *dmn.RunResult) error

	// Recent returns up to limit results, newest first.
	Recent(ctx context.Context, limit int64) ([]dmn.RunResult, error)
}
