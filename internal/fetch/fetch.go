// Package fetch binds one backend read to the lifetime of its consumer.
//
// A Fetcher tracks {data, loading, error} for an operation and re-issues it
// when the consumer's dependency list changes. Every issue takes a fresh
// sequence token and only the newest token's settlement is applied, so a slow
// superseded response can never overwrite a newer one. Close is teardown:
// nothing settles into the state afterwards.
package fetch

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/notify"

	"github.com/rs/zerolog"
)

// Operation performs one read against the backend.
type Operation[T any] func(ctx context.Context) backend.Result[T]

type State[T any] struct {
	Data    *T             `json:"data"`
	Err     *backend.Error `json:"error"`
	Loading bool           `json:"loading"`
}

type options struct {
	ctx      context.Context
	name     string
	notifier notify.Notifier
	log      zerolog.Logger
}

type Option func(*options)

// WithContext sets the parent context of every invocation. Close cancels a
// child of it.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithName labels log lines and notifications, e.g. "stations".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithNotifier(n notify.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

type Fetcher[T any] struct {
	op     Operation[T]
	name   string
	notes  notify.Notifier
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	deps   []any
	issued bool
	closed bool
	wg     sync.WaitGroup
}

func New[T any](op Operation[T], opts ...Option) *Fetcher[T] {
	o := options{
		ctx:      context.Background(),
		name:     "data",
		notifier: notify.Discard,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(o.ctx)
	return &Fetcher[T]{
		op:     op,
		name:   o.name,
		notes:  o.notifier,
		log:    o.log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Refresh issues the operation if deps differ from the last issued list. The
// first call always issues. It reports whether an invocation started.
func (f *Fetcher[T]) Refresh(deps ...any) bool {
	f.mu.Lock()
	if f.closed || (f.issued && reflect.DeepEqual(f.deps, deps)) {
		f.mu.Unlock()
		return false
	}
	token := f.issueLocked(deps)
	f.mu.Unlock()

	go f.run(token)
	return true
}

// Reload issues the operation again with the current dependencies.
func (f *Fetcher[T]) Reload() bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	token := f.issueLocked(f.deps)
	f.mu.Unlock()

	go f.run(token)
	return true
}

func (f *Fetcher[T]) issueLocked(deps []any) uint64 {
	f.issued = true
	f.deps = append([]any(nil), deps...)
	f.seq++
	f.state.Loading = true
	f.state.Err = nil
	f.wg.Add(1)
	return f.seq
}

func (f *Fetcher[T]) run(token uint64) {
	defer f.wg.Done()
	res := f.invoke()

	f.mu.Lock()
	if f.closed || token != f.seq {
		f.mu.Unlock()
		f.log.Debug().Str("fetch", f.name).Uint64("token", token).Msg("discarding superseded result")
		return
	}
	if res.Err != nil {
		f.state.Data = nil
		f.state.Err = res.Err
	} else {
		f.state.Data = res.Data
		f.state.Err = nil
	}
	f.state.Loading = false
	f.mu.Unlock()

	if res.Err != nil {
		f.log.Warn().
			Str("fetch", f.name).
			Str("code", res.Err.Code).
			Msg(res.Err.Message)
		f.notes.Notify(notify.Notification{
			Level:   notify.LevelError,
			Title:   "Could not load " + f.name,
			Message: res.Err.Message,
		})
	}
}

func (f *Fetcher[T]) invoke() (res backend.Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = backend.Fail[T](fmt.Errorf("loading %s panicked: %v", f.name, r))
		}
	}()
	return f.op(f.ctx)
}

// State returns a snapshot of the current state.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Wait blocks until every issued invocation has returned. Call it from the
// goroutine that calls Refresh.
func (f *Fetcher[T]) Wait() {
	f.wg.Wait()
}

// Load refreshes with deps, waits for settlement and returns the state.
func (f *Fetcher[T]) Load(deps ...any) State[T] {
	f.Refresh(deps...)
	f.Wait()
	return f.State()
}

// Close tears the fetcher down. In-flight invocations are canceled and their
// results dropped.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}
