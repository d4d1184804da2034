package ports

import (
	"context"
	"time"
)

// Cache almacén clave/valor con expiración. Un miss devuelve found=false sin error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
