package api

import (
	"CoinPulse/internal/service/ratelimit"
	xhttp "CoinPulse/pkg/http"

	"github.com/labstack/echo/v4"
)

// RateLimit rejects clients that drained their bucket with 429. A nil limiter yields nil.
func RateLimit(l *ratelimit.Limiter) echo.MiddlewareFunc {
	if l == nil {
		return nil
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests."))
			}
			return next(c)
		}
	}
}
