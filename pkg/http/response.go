package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageBody is the JSON shape of every error response.
type MessageBody struct {
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// JSONResponse writes data as-is with the given status.
func JSONResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return JSONResponse(c, http.StatusOK, data)
}

// MessageResponse writes {"message": msg} with the given status.
func MessageResponse(c echo.Context, statusCode int, msg string) error {
	return JSONResponse(c, statusCode, MessageBody{Message: msg})
}

// BadRequestResponse writes bad request error with validation details.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return JSONResponse(c, http.StatusBadRequest, MessageBody{Message: "Invalid request.", Errors: details})
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return MessageResponse(c, http.StatusInternalServerError, "Something went wrong.")
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return MessageResponse(c, appErr.Status, appErr.Message)
	}
	return InternalServerErrorResponse(c)
}
