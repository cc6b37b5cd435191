package utils

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CacheInvalidator purges cached public views after a mutation. Keys are
// namespaced per calendar owner, so one scan covers every cached response that
// could show stale data for that user.
type CacheInvalidator struct{ rdb *redis.Client }

func NewCacheInvalidator(rdb *redis.Client) *CacheInvalidator { return &CacheInvalidator{rdb} }

func (ci *CacheInvalidator) PurgeUser(ctx context.Context, username string) {
	iter := ci.rdb.Scan(ctx, 0, "cache:public:"+username+":*", 0).Iterator()
	for iter.Next(ctx) {
		_ = ci.rdb.Del(ctx, iter.Val()).Err()
	}
}
