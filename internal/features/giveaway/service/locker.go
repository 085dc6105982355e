package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog"

	apperrors "giveaway-bot/internal/common/errors"
)

// LocalLocker is an in-process keyed mutex. Entries are reference counted
// and dropped once no goroutine holds or waits for them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*LocalLocker)(nil)

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyedLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	k, ok := l.locks[id]
	if !ok {
		k = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[id] = k
	}
	k.refs++
	l.mu.Unlock()

	select {
	case k.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(id, k)
		return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeLock, "failed to acquire giveaway lock")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-k.ch
			l.release(id, k)
		})
	}, nil
}

func (l *LocalLocker) release(id string, k *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k.refs--
	if k.refs == 0 {
		delete(l.locks, id)
	}
}

// RedisLocker serialises operations across processes sharing a Redis store.
// Acquisition retries until the caller's context is done, or for one expiry
// period when the context has no deadline.
type RedisLocker struct {
	rs         *redsync.Redsync
	expiry     time.Duration
	retryDelay time.Duration
	logger     zerolog.Logger
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(rs *redsync.Redsync, expiry time.Duration, logger zerolog.Logger) *RedisLocker {
	if expiry <= 0 {
		expiry = LockTimeout
	}
	return &RedisLocker{rs: rs, expiry: expiry, retryDelay: lockRetryDelay, logger: logger}
}

func (l *RedisLocker) Lock(ctx context.Context, id string) (func(), error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.expiry)
		defer cancel()
	}

	mutex := l.rs.NewMutex(lockKeyPrefix+id,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(math.MaxInt32),
		redsync.WithRetryDelay(l.retryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeLock, "failed to acquire giveaway lock")
	}
	return func() {
		if _, err := mutex.UnlockContext(context.Background()); err != nil {
			l.logger.Warn().Err(err).Str("giveaway_id", id).Msg("Failed to release giveaway lock")
		}
	}, nil
}
