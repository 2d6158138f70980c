// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements Idempotency-Key support for the prediction endpoints.
// IdempotencyValidator validates the header, stashes the key for handlers, and
// when the caller identifies itself with X-Farmer-ID it asks a lookup whether
// the key already has a stored prediction. A hit marks the request as a
// replay so the rate limiter lets it through.
//
// The authoritative replay decision is made by the prediction service, which
// knows the farmer from the request body. The middleware only makes it cheap.
package middleware

import (
	"context"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client's key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderFarmerID optionally identifies the calling farmer for rate limiting
// and idempotency pre-checks.
const HeaderFarmerID = "X-Farmer-ID"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
	ctxKeyFarmerID   = "farmerID"
)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the lookup found a stored prediction for this key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// FarmerID returns the farmer identity for this request: a value set in the
// Gin context under "farmerID" wins over the X-Farmer-ID header. Empty when
// neither is present.
func FarmerID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyFarmerID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		return strings.TrimSpace(c.GetHeader(HeaderFarmerID))
	}
	return ""
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Defaults to ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Kind maps a request to the prediction kind used as the lookup key.
	// Defaults to the last segment of the matched route, so
	// /api/predict/crop yields "crop".
	Kind func(*gin.Context) string
}

// IdempotencyLookup reports whether (scope, kind, key) has a live stored
// result at now. Errors are ignored by the middleware.
type IdempotencyLookup func(ctx context.Context, scope, kind, key string, now time.Time) (bool, error)

// IdempotencyValidator validates Idempotency-Key on POST requests.
//
// A missing header is a no-op. An invalid one is rejected with 400. A valid
// key is stashed for GetIdempotencyKey, and when lookup finds it the request
// is flagged for IsReplay and rate-limit bypass.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}
	kindOf := opts.Kind
	if kindOf == nil {
		kindOf = routeKind
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abort(c, http.StatusBadRequest, "bad_idempotency_key", "invalid Idempotency-Key")
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if scope := FarmerID(c); lookup != nil && scope != "" {
			if exists, _ := lookup(c.Request.Context(), scope, kindOf(c), key, time.Now().UTC()); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}

func routeKind(c *gin.Context) string {
	p := c.FullPath()
	if p == "" {
		p = c.Request.URL.Path
	}
	return path.Base(p)
}
