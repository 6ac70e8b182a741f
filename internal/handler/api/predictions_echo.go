package api

import (
	"errors"

	models "CoinPulse/internal/domain/models"
	"CoinPulse/internal/usecase"
	xhttp "CoinPulse/pkg/http"
	xlogger "CoinPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictionsEchoHandler exposes the predictor and its ledger.
type PredictionsEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.PredictionUseCase
	limit  echo.MiddlewareFunc
}

func NewPredictionsEchoHandler(logger *xlogger.Logger, uc *usecase.PredictionUseCase, limit echo.MiddlewareFunc) *PredictionsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PredictionsEchoHandler{logger: logger, uc: uc, limit: limit}
}

func (h *PredictionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	if h.limit != nil {
		g.GET("/predict", h.Predict, h.limit)
	} else {
		g.GET("/predict", h.Predict)
	}
	g.POST("/actual", h.Actual)
	g.GET("/accuracy", h.Accuracy)
}

func (h *PredictionsEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.uc.Predict(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("predict usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, providerFailure(err, "Failed to generate prediction."))
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *PredictionsEchoHandler) Actual(c echo.Context) error {
	req := &models.ActualRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.uc.RecordOutcome(c.Request().Context(), req.ID, req.Actual)
	if errors.Is(err, models.ErrPredictionNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("Prediction not found."))
	}
	if err != nil {
		h.logger.Error("record outcome error", xlogger.Int64("id", req.ID), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *PredictionsEchoHandler) Accuracy(c echo.Context) error {
	res, err := h.uc.Accuracy(c.Request().Context())
	if err != nil {
		h.logger.Error("accuracy usecase error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, res)
}
