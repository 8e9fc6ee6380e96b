package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "kardex:lock:"

// RedisLocker serializa por clave entre réplicas del API usando bsm/redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
	log    zerolog.Logger
}

// NewRedisLocker construye el locker. ttl acota cuánto puede retener una clave un proceso caído.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		log:    log,
	}
}

// Lock obtiene las claves en orden ascendente, reintentando hasta el deadline del contexto (o el TTL si no tiene).
func (r *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)
	held := make([]*redislock.Lock, 0, len(keys))
	for _, k := range keys {
		lk, err := r.client.Obtain(ctx, keyPrefix+k, r.ttl, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(r.retry),
		})
		if err != nil {
			r.release(held)
			if errors.Is(err, redislock.ErrNotObtained) {
				return nil, fmt.Errorf("%w: clave %s ocupada", domain.ErrConflict, k)
			}
			return nil, fmt.Errorf("redis lock %s: %w", k, err)
		}
		held = append(held, lk)
	}

	// Mientras se retengan las claves el TTL se renueva cada ttl/2.
	stop := make(chan struct{})
	done := make(chan struct{})
	go r.keepAlive(held, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			r.release(held)
		})
	}, nil
}

func (r *RedisLocker) keepAlive(held []*redislock.Lock, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.ttl/2)
			for _, lk := range held {
				if err := lk.Refresh(ctx, r.ttl, nil); err != nil {
					r.log.Error().Err(err).Str("key", lk.Key()).Msg("no se pudo renovar el lock de redis")
				}
			}
			cancel()
		}
	}
}

func (r *RedisLocker) release(held []*redislock.Lock) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(held) - 1; i >= 0; i-- {
		if err := held[i].Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el lock de redis")
		}
	}
}
