package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Cache stores rendered responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache is a Cache backed by a redis client.
type RedisCache struct {
	Client *redis.Client
}

func (r RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// cacheMiddleware caches successful GET responses. Entries are stored as the
// content type, a newline, then the body.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, ok, err := h.cache.Get(ctx, key); err == nil && ok {
			if i := bytes.IndexByte(cached, '\n'); i >= 0 {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, string(cached[:i]), cached[i+1:])
				c.Abort()
				return
			}
		} else if err != nil {
			h.log.WithError(err).Warn("cache read failed")
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			entry := append([]byte(recorder.Header().Get("Content-Type")+"\n"), recorder.body.Bytes()...)
			if err := h.cache.Set(ctx, key, entry, h.cacheTTL); err != nil {
				h.log.WithError(err).Warn("cache write failed")
			}
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

// cacheKey covers everything a cached response depends on: the request, the
// data set version and the display settings that colour the charts.
func (h *Handler) cacheKey(c *gin.Context) string {
	s := h.settings.Get()
	return fmt.Sprintf("cache:%s:%s?%s:v%d:%s:%s",
		c.Request.Method, c.FullPath(), c.Request.URL.RawQuery,
		h.data.Snapshot().Version, s.Mode, s.Scheme)
}
