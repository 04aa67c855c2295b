package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"user-accounts/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	loginWindow      = time.Minute
	maxLoginBodySize = 1 << 20
)

// LoginRateLimit limits login attempts per email (or client IP when the body
// has none) using Redis. Without a client it does nothing, and Redis errors
// let the request through.
func LoginRateLimit(cache *redis.Client, maxPerMin int, logger *zap.Logger) func(http.Handler) http.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}

	return func(next http.Handler) http.Handler {
		if cache == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBodySize))
			if err != nil {
				utils.ResponseBadRequest(w, "Invalid request body", nil)
				return
			}
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := "rl:login:" + loginKey(body, r)
			cnt, err := cache.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Warn("Login rate limit unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if cnt == 1 {
				cache.Expire(r.Context(), key, loginWindow)
			}

			if cnt > int64(maxPerMin) {
				logger.Warn("Too many login attempts", zap.String("key", key), zap.Int64("count", cnt))
				utils.ResponseTooManyRequests(w, "Too many login attempts, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func loginKey(body []byte, r *http.Request) string {
	var req struct {
		Email string `json:"email"`
	}
	_ = json.Unmarshal(body, &req)

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		return email
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
