package middleware

import (
	"net"
	"net/http"
	"strings"

	"plenum/pkg/auth"
	"plenum/pkg/common"

	"go.uber.org/zap"
)

// Authenticate validates the Bearer token on every request and puts the
// caller into the request context. The validator and limiter come in
// through the container rather than being built here, so tests can swap
// them out.
func Authenticate(validator *auth.JWTValidator, limiter *auth.IPRateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			allowed, err := limiter.Allow(r.Context(), clientIP)
			if err != nil {
				logger.Warn("Rate limiter failed", zap.Error(err))
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authHeader = r.Header.Get("authorization")
			}
			if authHeader == "" {
				common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Invalid authorization header format")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Invalid or expired token")
				return
			}

			user := &auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  claims.Roles,
			}
			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// getClientIP resolves the caller's IP, preferring proxy headers
func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
