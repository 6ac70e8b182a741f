package api

import (
	"errors"

	models "CoinPulse/internal/domain/models"
	xhttp "CoinPulse/pkg/http"
)

// providerFailure maps a provider error to 429 when upstream rate-limited us, otherwise 500 with msg.
func providerFailure(err error, msg string) *xhttp.AppError {
	var pe *models.ProviderError
	if errors.As(err, &pe) && pe.RateLimited() {
		return xhttp.TooManyRequestsError("Rate limit exceeded. Please try again later.").WithError(err)
	}
	return xhttp.InternalError(msg).WithError(err)
}
