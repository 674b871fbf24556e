package conc

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestPool(t *testing.T) {
	pool := NewPool[int](4)
	defer pool.Release()
	assert.Equal(t, 4, pool.Cap())

	futures := make([]*Future[int], 0, 32)
	for i := 0; i < 32; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			return i * i, nil
		}))
	}
	require.NoError(t, AwaitAll(futures...))
	for i, f := range futures {
		assert.Equal(t, i*i, f.Value())
		assert.True(t, f.Done())
	}

	boom := errors.New("boom")
	f := pool.Submit(func() (int, error) { return 0, boom })
	_, err := f.Await()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, AwaitAll(futures[0], f), boom)

	require.NoError(t, pool.Resize(8))
	assert.Equal(t, 8, pool.Cap())
	assert.Error(t, pool.Resize(0))
}

func TestPreHandler(t *testing.T) {
	calls := atomic.NewInt32(0)
	pool := NewPool[struct{}](2, WithPreHandler(func() { calls.Inc() }), WithExpiryDuration(0))
	defer pool.Release()

	require.NoError(t, pool.Submit(func() (struct{}, error) { return struct{}{}, nil }).Err())
	assert.EqualValues(t, 1, calls.Load())
}

func TestConcealPanic(t *testing.T) {
	pool := NewDefaultPool[int](WithConcealPanic(true))
	defer pool.Release()

	_, err := pool.Submit(func() (int, error) { panic("bad input") }).Await()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")

	v, err := pool.Submit(func() (int, error) { return 7, nil }).Await()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestReleasedPool(t *testing.T) {
	pool := NewDefaultPool[int]()
	pool.Release()
	f := pool.Submit(func() (int, error) { return 1, nil })
	assert.Error(t, f.Err())
	assert.True(t, f.Done())
}

func TestGo(t *testing.T) {
	f := Go(func() (string, error) { return "done", nil })
	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	<-f.Inner()
}
