package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

// gatedOp returns an operation whose n-th invocation (0-based) blocks until
// gates[n] is closed and then returns n.
func gatedOp(gates []chan struct{}, calls *atomic.Int32) Operation[int] {
	return func(ctx context.Context) backend.Result[int] {
		n := int(calls.Add(1)) - 1
		select {
		case <-gates[n]:
		case <-ctx.Done():
			return backend.Fail[int](ctx.Err())
		}
		return backend.Ok(n)
	}
}

func TestLoadSuccess(t *testing.T) {
	f := New(func(ctx context.Context) backend.Result[[]string] {
		return backend.Ok([]string{"Alpha", "Beta"})
	})
	defer f.Close()

	st := f.Load()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Err)
	require.NotNil(t, st.Data)
	assert.Equal(t, []string{"Alpha", "Beta"}, *st.Data)
}

func TestLoadingTransition(t *testing.T) {
	gate := make(chan struct{})
	var calls atomic.Int32
	f := New(gatedOp([]chan struct{}{gate}, &calls))
	defer f.Close()

	require.True(t, f.Refresh())
	st := f.State()
	assert.True(t, st.Loading)
	assert.Nil(t, st.Data)

	close(gate)
	f.Wait()
	st = f.State()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Data)
	assert.Equal(t, 0, *st.Data)
}

func TestErrorNotifiesOnce(t *testing.T) {
	rec := &recorder{}
	f := New(func(ctx context.Context) backend.Result[[]string] {
		return backend.Fail[[]string](&backend.Error{Message: "timeout"})
	}, WithNotifier(rec), WithName("stations"))
	defer f.Close()

	st := f.Load()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Data)
	require.NotNil(t, st.Err)
	assert.Equal(t, "timeout", st.Err.Message)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, notify.LevelError, rec.notes[0].Level)
	assert.Equal(t, "timeout", rec.notes[0].Message)
}

func TestSameDependenciesDoNotReissue(t *testing.T) {
	var calls atomic.Int32
	f := New(func(ctx context.Context) backend.Result[int] {
		return backend.Ok(int(calls.Add(1)))
	})
	defer f.Close()

	f.Load("station-1", 2)
	f.Load("station-1", 2)
	assert.EqualValues(t, 1, calls.Load())

	st := f.Load("station-2", 2)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, 2, *st.Data)

	require.True(t, f.Reload())
	f.Wait()
	assert.EqualValues(t, 3, calls.Load())
}

func TestCloseSuppressesSettlement(t *testing.T) {
	gates := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var calls atomic.Int32
	rec := &recorder{}
	f := New(gatedOp(gates, &calls), WithNotifier(rec))

	require.True(t, f.Refresh("a"))
	require.True(t, f.Refresh("b"))
	before := f.State()
	f.Close()
	close(gates[0])
	close(gates[1])
	f.Wait()

	assert.Equal(t, before, f.State())
	assert.Nil(t, f.State().Data)
	assert.Equal(t, 0, rec.count())
	assert.False(t, f.Refresh("c"))
	assert.False(t, f.Reload())
}

func TestSupersededResultIsDiscarded(t *testing.T) {
	gates := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var calls atomic.Int32
	f := New(gatedOp(gates, &calls))
	defer f.Close()

	require.True(t, f.Refresh("old"))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, timeout, tick)
	require.True(t, f.Refresh("new"))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, timeout, tick)

	// newer invocation settles first, the older one afterwards
	close(gates[1])
	require.Eventually(t, func() bool { return !f.State().Loading }, timeout, tick)
	close(gates[0])
	f.Wait()

	st := f.State()
	require.NotNil(t, st.Data)
	assert.Equal(t, 1, *st.Data)
}

func TestErrorClearsPreviousData(t *testing.T) {
	fail := atomic.Bool{}
	f := New(func(ctx context.Context) backend.Result[string] {
		if fail.Load() {
			return backend.Fail[string](errors.New("connection refused"))
		}
		return backend.Ok("fresh")
	})
	defer f.Close()

	st := f.Load(1)
	require.NotNil(t, st.Data)

	fail.Store(true)
	st = f.Load(2)
	assert.Nil(t, st.Data)
	require.NotNil(t, st.Err)
	assert.Equal(t, backend.CodeUnexpected, st.Err.Code)

	fail.Store(false)
	st = f.Load(3)
	assert.Nil(t, st.Err)
	assert.Equal(t, "fresh", *st.Data)
}

func TestPanicBecomesError(t *testing.T) {
	rec := &recorder{}
	f := New(func(ctx context.Context) backend.Result[int] {
		panic("nil map")
	}, WithNotifier(rec), WithName("profiles"))
	defer f.Close()

	st := f.Load()
	require.NotNil(t, st.Err)
	assert.Contains(t, st.Err.Message, "loading profiles panicked")
	assert.Equal(t, 1, rec.count())
}

func TestEmptySuccess(t *testing.T) {
	f := New(func(ctx context.Context) backend.Result[int] {
		return backend.Empty[int]()
	})
	defer f.Close()

	st := f.Load()
	assert.Equal(t, State[int]{}, st)
}
