package http

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	logger *zap.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		key := limiter.clientKey(r)

		if !limiter.Allow(key) {
			logger.Debug("rate limit exceeded", zap.String("client", key), zap.String("path", r.URL.Path))
			writeError(w, logger, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the bucket of a request: the connection address,
// or the forwarded client address when the connection comes from a trusted
// proxy.
func (r *RateLimiter) clientKey(req *http.Request) string {
	host := remoteHost(req)
	if r.isTrusted(host) {
		return ClientIP(req)
	}
	return host
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address without its port. The headers are client
// supplied; use it for logging, not for access decisions.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteHost(r)
}
