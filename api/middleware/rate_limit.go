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

	"github.com/loyalteez/saas-demo-backend/api/responses"
	pkgerrors "github.com/loyalteez/saas-demo-backend/pkg/errors"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy defines the throttling parameters for a traffic surface.
type RateLimitPolicy struct {
	name          string
	window        time.Duration
	ipLimit       int
	identityLimit int
}

// NewRateLimitPolicy builds a policy with the supplied window and limits.
func NewRateLimitPolicy(name string, window time.Duration, ipLimit, identityLimit int) RateLimitPolicy {
	return RateLimitPolicy{
		name:          strings.ToLower(strings.TrimSpace(name)),
		window:        window,
		ipLimit:       ipLimit,
		identityLimit: identityLimit,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.identityLimit > 0)
}

func (p RateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "events"
	}
	return p.name
}

func (p RateLimitPolicy) scope(kind, value string) string {
	return p.normalizedName() + ":" + kind + ":" + value
}

// EventRateLimit enforces per-IP and per-user counters on reward event
// routes. Blocked calls get a failed reward result with status 429. Store
// errors let the request through.
func EventRateLimit(policy RateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				if !check(ctx, logg, store, policy, "ip", ip, policy.ipLimit, w) {
					return
				}
			}

			if policy.identityLimit > 0 && r.Body != nil {
				body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
				if err != nil {
					responses.WriteResult(w, loyalteez.Failure(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read request body")))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if identity := normalizeIdentity(extractIdentity(body)); identity != "" {
					if !check(ctx, logg, store, policy, "user", hashValue(identity), policy.identityLimit, w) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check reports whether the request may continue, writing the 429 when not.
func check(ctx context.Context, logg *logger.Logger, store rateLimiterStore, policy RateLimitPolicy, kind, value string, limit int, w http.ResponseWriter) bool {
	allowed, count, err := store.FixedWindowAllow(ctx, policy.scope(kind, value), int64(limit), policy.window)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"policy": policy.normalizedName(),
				"scope":  kind,
				"error":  err.Error(),
			}), "rate_limit.store_unavailable")
		}
		return true
	}
	if allowed {
		return true
	}

	if logg != nil {
		fields := map[string]any{
			"scope":          kind,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}
		if kind == "ip" {
			fields["ip"] = value
		} else {
			fields["user_hash"] = value
		}
		logg.Warn(logg.WithFields(ctx, fields), "rate_limit.blocked")
	}
	w.Header().Set("Retry-After", retryAfter(policy.window))
	responses.WriteResult(w, loyalteez.Failure(pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded")))
	return false
}

func retryAfter(window time.Duration) string {
	seconds := int(window.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// extractIdentity pulls the user identity out of an event or form body.
func extractIdentity(payload []byte) string {
	var body struct {
		UserIdentifier string `json:"userIdentifier"`
		UserEmail      string `json:"userEmail"`
		Email          string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	switch {
	case strings.TrimSpace(body.UserIdentifier) != "":
		return body.UserIdentifier
	case strings.TrimSpace(body.UserEmail) != "":
		return body.UserEmail
	}
	return body.Email
}

func normalizeIdentity(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
