package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		if remain := cw.limit - cw.size; cw.limit <= 0 || int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// CacheScope maps a route template to the resource family whose writes
// invalidate it: "/api/rooms/:id" -> "rooms".  Routes outside /api have no
// scope and are never cached.
func CacheScope(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok || rest == "" {
		return ""
	}
	scope, _, _ := strings.Cut(rest, "/")
	return scope
}

// uncachedHeaders are per-request and never replayed from a cache entry.
var uncachedHeaders = map[string]bool{
	"X-Cache":                true,
	echo.HeaderXRequestID:    true,
	echo.HeaderContentLength: true,
	"X-Ratelimit-Limit":      true,
	"X-Ratelimit-Remaining":  true,
}

func generationKey(prefix, scope string) string {
	return prefix + ":gen:" + scope
}

// cacheKeyFrom builds a stable cache key honouring prefix, strategy and the
// scope generation.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, scope string, gen int64) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	parts := []string{"scope", scope, "gen", fmt.Sprint(gen)}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = append(parts, "route", route)
	case "method_route":
		parts = append(parts, "method", r.Method, "route", route)
	case "method_route_query":
		parts = append(parts, "method", r.Method, "route", route, "q", query)
	default: // "route_query"
		parts = append(parts, "route", route, "q", query)
	}
	// the path itself keeps /api/rooms/1 and /api/rooms/2 apart under the
	// route-only strategies
	parts = append(parts, "path", r.URL.Path)

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// NewRedisCache caches successful GET responses under /api in Redis and
// invalidates them on writes.  Every scope ("rooms", "bookings") has a
// generation counter that is part of the key; a successful write bumps its
// scope's counter before the response is sent, so a client never reads a
// cached entry older than its own write.  Redis failures degrade to an
// uncached request.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := CacheScope(c.Path())
			if scope == "" {
				return next(c)
			}
			method := strings.ToUpper(c.Request().Method)
			if !cfg.Methods[method] {
				if method == http.MethodGet || method == http.MethodHead {
					return next(c)
				}
				return invalidateOnSuccess(c, next, rdb, generationKey(cfg.Prefix, scope), log)
			}

			ctx := c.Request().Context()
			gen, err := rdb.Get(ctx, generationKey(cfg.Prefix, scope)).Int64()
			if err != nil && err != redis.Nil {
				log.Warn("cache: generation lookup failed", zap.String("scope", scope), zap.Error(err))
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, scope, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						c.Response().Header()[k] = vals
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}

			hdr := make(http.Header, len(c.Response().Header()))
			for k, vals := range c.Response().Header() {
				if uncachedHeaders[k] {
					continue
				}
				hdr[k] = append([]string(nil), vals...)
			}
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err()
			}
			return nil
		}
	}
}

// invalidateOnSuccess runs next and bumps the scope generation just before
// a 2xx response is written.
func invalidateOnSuccess(c echo.Context, next echo.HandlerFunc, rdb *redis.Client, genKey string, log *zap.Logger) error {
	resp := c.Response()
	resp.Before(func() {
		if resp.Status < 200 || resp.Status >= 300 {
			return
		}
		if err := rdb.Incr(context.WithoutCancel(c.Request().Context()), genKey).Err(); err != nil {
			log.Error("cache: invalidation failed", zap.String("key", genKey), zap.Error(err))
		}
	})
	return next(c)
}
