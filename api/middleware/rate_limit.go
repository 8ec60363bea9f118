package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/invenpos/invenpos-backend/api/responses"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

// maxThrottledBody bounds how much of a request body a RateKey may inspect.
const maxThrottledBody = 64 << 10

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateKey is one throttling dimension. A blank value skips the check for
// that request. Hashed values never reach Redis or the logs in clear text.
type RateKey struct {
	name     string
	limit    int
	hashed   bool
	needBody bool
	value    func(r *http.Request, body []byte) string
}

// ByClientIP throttles on the first forwarded address, falling back to the
// socket peer.
func ByClientIP(limit int) RateKey {
	return RateKey{
		name:  "ip",
		limit: limit,
		value: func(r *http.Request, _ []byte) string { return clientIP(r) },
	}
}

// ByJSONField throttles on a top level string field of the JSON body,
// compared case-insensitively.
func ByJSONField(field string, limit int) RateKey {
	return RateKey{
		name:     field,
		limit:    limit,
		hashed:   true,
		needBody: true,
		value: func(_ *http.Request, body []byte) string {
			var payload map[string]any
			if err := json.Unmarshal(body, &payload); err != nil {
				return ""
			}
			raw, _ := payload[field].(string)
			return strings.ToLower(strings.TrimSpace(raw))
		},
	}
}

// RateLimitPolicy is a named fixed window shared by its keys.
type RateLimitPolicy struct {
	name   string
	window time.Duration
	keys   []RateKey
}

// NewRateLimitPolicy drops keys with a non-positive limit.
func NewRateLimitPolicy(name string, window time.Duration, keys ...RateKey) RateLimitPolicy {
	policy := RateLimitPolicy{name: strings.ToLower(strings.TrimSpace(name)), window: window}
	if policy.name == "" {
		policy.name = "default"
	}
	for _, key := range keys {
		if key.limit > 0 {
			policy.keys = append(policy.keys, key)
		}
	}
	return policy
}

func (p RateLimitPolicy) enabled() bool { return p.window > 0 && len(p.keys) > 0 }

func (p RateLimitPolicy) needsBody() bool {
	for _, key := range p.keys {
		if key.needBody {
			return true
		}
	}
	return false
}

// RateLimit rejects requests over any key's limit with 429 and Retry-After.
// A Redis failure fails closed with 503.
func RateLimit(policy RateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if policy.needsBody() && r.Body != nil {
				var err error
				body, err = io.ReadAll(io.LimitReader(r.Body, maxThrottledBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			for _, key := range policy.keys {
				value := key.value(r, body)
				if value == "" {
					continue
				}
				if key.hashed {
					value = hashValue(value)
				}
				allowed, count, err := store.FixedWindowAllow(ctx, policy.name+":"+key.name+":"+value, int64(key.limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":         policy.name,
							"key":            key.name,
							"value":          value,
							"attempts":       count,
							"limit":          key.limit,
							"window_seconds": int(policy.window.Seconds()),
						}), "rate_limit.blocked")
					}
					w.Header().Set("Retry-After", retryAfterSeconds(policy.window))
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) string {
	return strconv.FormatInt(max(int64(d/time.Second), 1), 10)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
