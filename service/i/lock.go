package i

import "context"

// AccountLock keeps a single bot process per game account.
type AccountLock interface {
	Acquire(ctx context.Context) error
	Extend(ctx context.Context) error
	Release(ctx context.Context) error
}
