// README: Flat string-keyed record store. Each key holds one whole record.
package storage

import "context"

// Batch is applied atomically: every Set and Delete lands, or none does.
type Batch struct {
	Set    map[string]string
	Delete []string
}

func (b Batch) Empty() bool {
	return len(b.Set) == 0 && len(b.Delete) == 0
}

// KV is implemented by the Redis, Postgres and in-memory backends. Backend
// failures are returned wrapped in types.ErrPersistenceUnavailable.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, b Batch) error
	Ping(ctx context.Context) error
}
