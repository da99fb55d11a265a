package app

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
		if !ok {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		userID, err := app.parseAccessToken(token)
		if err != nil {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, contextSetUserId(r, userID))
	})
}

// tokenBucketScript refills and drains a per-client token bucket atomically.
// The bucket holds up to capacity tokens and gains one back every refill
// interval. Returns 1 when the request is allowed.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local intervals = math.floor(math.max(0, now_ms - last_refill) / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return allowed
`)

func (app *Application) rateLimit(next http.Handler) http.Handler {
	if !app.config.Limiter.Enabled || app.redis == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		key := fmt.Sprintf("ratelimit:%s", ip)

		allowed, err := tokenBucketScript.Run(
			r.Context(),
			app.redis,
			[]string{key},
			time.Now().UnixMilli(),
			app.config.Limiter.Capacity,
			app.config.Limiter.Refill.Milliseconds(),
			60,
		).Int()

		if err != nil {
			// Fail open: a limiter outage must not take bookings down with it.
			app.logger.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if allowed != 1 {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
