package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UnlockFunc освобождает захваченную блокировку
type UnlockFunc func(ctx context.Context) error

const keyPrefix = "isb:lock:"

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенная блокировка на SET NX PX
// TTL ограничивает время удержания, если процесс упал, не освободив блокировку
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisLocker создает блокировку поверх клиента Redis
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// TryLock захватывает блокировку name без ожидания
func (l *RedisLocker) TryLock(ctx context.Context, name string) (UnlockFunc, error) {
	key := keyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: SETNX %s: %v", ErrLockBackend, key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("%w: release %s: %v", ErrLockBackend, key, err)
		}
		return nil
	}, nil
}
