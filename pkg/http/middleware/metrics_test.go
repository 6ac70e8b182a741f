package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newMetricsEcho() *echo.Echo {
	e := echo.New()
	e.Use(Metrics(nil, 0))
	e.GET("/api/portfolio", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}

func serve(e *echo.Echo, path string) int {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code
}

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	e := newMetricsEcho()

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/portfolio", http.MethodGet, "200"))
	require.Equal(t, http.StatusOK, serve(e, "/api/portfolio?symbols=bitcoin"))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/api/portfolio", http.MethodGet, "200"))
	require.Equal(t, before+1, after)
}

func TestMetrics_UnknownPathsShareOneSeries(t *testing.T) {
	e := newMetricsEcho()
	require.Equal(t, http.StatusOK, serve(e, "/api/portfolio"))

	series := testutil.CollectAndCount(httpRequestsTotal)
	for _, p := range []string{"/.env", "/wp-login.php", "/xmlrpc.php", "/admin/config.bak"} {
		require.Equal(t, http.StatusNotFound, serve(e, p))
	}

	require.LessOrEqual(t, testutil.CollectAndCount(httpRequestsTotal), series+1)
	require.False(t, httpRequestsTotal.DeleteLabelValues("/.env", http.MethodGet, "404"))
	require.False(t, httpRequestsTotal.DeleteLabelValues("/wp-login.php", http.MethodGet, "404"))
}
