package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-bot/domain"
)

// Leaderboard ranks players by wins.
type Leaderboard interface {
	// Record counts one finished run for user.
	Record(ctx context.Context, user string, won bool) error

	// Top returns up to n standings, most wins first.
	Top(ctx context.Context, n int64) ([]dmn.Standing, error)
}
