package ports

import "context"

// Locker provides in-process mutual exclusion over named keys.
// Lock blocks until every key is held or ctx is done, and returns the release func.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}
