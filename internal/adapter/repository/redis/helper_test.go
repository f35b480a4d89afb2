package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestRedisClient starts a miniredis instance torn down with the test and
// returns a client of the same interface type the store is built with.
func newTestRedisClient(t *testing.T) (redislib.UniversalClient, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewUniversalClient(&redislib.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}
