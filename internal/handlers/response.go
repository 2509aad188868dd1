package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studykit/studylib-backend/internal/lifecycle"
	"github.com/studykit/studylib-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service and lifecycle sentinels onto HTTP
// statuses; anything unrecognized is a 400 at this boundary.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrStaleOrderVersion):
		RespondError(c, http.StatusConflict, "stale_order_version", err)
	case errors.Is(err, lifecycle.ErrTerminalStatus):
		RespondError(c, http.StatusConflict, "slide_deleted", err)
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, services.ErrSparseOrder):
		RespondError(c, http.StatusBadRequest, "sparse_order", err)
	case errors.Is(err, services.ErrNotifyUnconfirmed):
		RespondError(c, http.StatusBadRequest, "notify_unconfirmed", err)
	default:
		RespondError(c, http.StatusBadRequest, "", err)
	}
}
