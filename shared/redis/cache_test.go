package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type view struct {
	Name string `json:"name"`
}

// unreachableClient points at a closed port so every command misses.
func unreachableClient(t *testing.T) *goredis.Client {
	t.Helper()
	c := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetOrLoadFallsBackToLoader(t *testing.T) {
	cache := NewViewCache[view](unreachableClient(t), time.Minute)

	v, err := cache.GetOrLoad(context.Background(), "customer:c1", func(ctx context.Context) (*view, error) {
		return &view{Name: "Adaeze"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Adaeze", v.Name)
}

func TestGetOrLoadReturnsLoaderError(t *testing.T) {
	cache := NewViewCache[view](unreachableClient(t), time.Minute)
	boom := errors.New("boom")

	v, err := cache.GetOrLoad(context.Background(), "customer:c1", func(ctx context.Context) (*view, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)
}

func TestGetOrLoadCollapsesConcurrentMisses(t *testing.T) {
	cache := NewViewCache[view](unreachableClient(t), time.Minute)
	var calls int32
	release := make(chan struct{})

	load := func(ctx context.Context) (*view, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &view{Name: "dashboard"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*view, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cache.GetOrLoad(context.Background(), "dashboard", load)
			if err == nil {
				results[i] = v
			}
		}(i)
	}

	// give every goroutine time to miss and join the in-flight load
	time.Sleep(300 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
	for _, v := range results {
		require.NotNil(t, v)
		assert.Equal(t, "dashboard", v.Name)
	}
}

func TestGetOrLoadIgnoresStarterCancellation(t *testing.T) {
	cache := NewViewCache[view](unreachableClient(t), time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	load := func(ctx context.Context) (*view, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &view{Name: "customer"}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		v   *view
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := cache.GetOrLoad(ctx, "customer:c1", load)
		done <- result{v, err}
	}()

	<-started
	cancel()
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "customer", res.v.Name)
}

func TestGetMissesOnUnreachableServer(t *testing.T) {
	cache := NewViewCache[view](unreachableClient(t), 0)
	v, ok := cache.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, v)

	cache.Delete(context.Background())
}

func TestRevokeExpiredTokenIsNoop(t *testing.T) {
	r := NewTokenRevocations(unreachableClient(t))
	assert.NoError(t, r.Revoke(context.Background(), "jti", time.Now().Add(-time.Minute)))
}

func TestIsRevokedReportsStoreErrors(t *testing.T) {
	r := NewTokenRevocations(unreachableClient(t))
	revoked, err := r.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
	assert.False(t, revoked)
}
