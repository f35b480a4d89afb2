package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/repository/memory"
)

func TestTxManager_PropagatesError(t *testing.T) {
	m := memory.NewTxManager()
	boom := errors.New("boom")

	err := m.RunInTx(context.Background(), func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestTxManager_SkipsCanceledContext(t *testing.T) {
	m := memory.NewTxManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := m.RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTxManager_Serializes(t *testing.T) {
	m := memory.NewTxManager()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.RunInTx(context.Background(), func(context.Context) error {
				cur := inside.Add(1)
				if cur > maxInside.Load() {
					maxInside.Store(cur)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}
