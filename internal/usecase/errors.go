package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 想定外のエラーはログに残して500にする
func internalError(ctx context.Context, op string, err error) error {
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("usecase failed")
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
