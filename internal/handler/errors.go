package handler

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	var fe *validator.FieldError
	if errors.As(err, &fe) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: fe.Error()})
	}
	if errors.Is(err, validator.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func sessionID(c echo.Context) (string, bool) {
	return middleware.SessionID(c)
}
