package api

import (
	"net/http"

	models "CoinPulse/internal/domain/models"
	"CoinPulse/internal/usecase"
	xhttp "CoinPulse/pkg/http"
	xlogger "CoinPulse/pkg/logger"
	xutil "CoinPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// MarketEchoHandler serves liveness and direct provider price queries.
type MarketEchoHandler struct {
	logger *xlogger.Logger
	market *usecase.MarketUseCase
	limit  echo.MiddlewareFunc
}

func NewMarketEchoHandler(logger *xlogger.Logger, market *usecase.MarketUseCase, limit echo.MiddlewareFunc) *MarketEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &MarketEchoHandler{logger: logger, market: market, limit: limit}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	if h.limit != nil {
		g.GET("/market-data", h.MarketData, h.limit)
		g.GET("/portfolio", h.Portfolio, h.limit)
		return
	}
	g.GET("/market-data", h.MarketData)
	g.GET("/portfolio", h.Portfolio)
}

func (h *MarketEchoHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "CoinPulse API is running")
}

func (h *MarketEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *MarketEchoHandler) MarketData(c echo.Context) error {
	req := &models.MarketDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	q, err := h.market.MarketData(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("market data usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, providerFailure(err, "Failed to fetch market data."))
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *MarketEchoHandler) Portfolio(c echo.Context) error {
	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.market.Portfolio(c.Request().Context(), xutil.SplitList(req.Symbols))
	if err != nil {
		h.logger.Error("portfolio usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, providerFailure(err, "Failed to fetch portfolio data."))
	}
	return xhttp.SuccessResponse(c, res)
}
