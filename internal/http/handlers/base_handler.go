// README: Base handler utilities (JSON helpers, path parsing, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"taxibook/internal/http/middleware"
	"taxibook/internal/modules/location"
	"taxibook/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
	// Redirect tells the page to go back to the start when its stored state is unusable.
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeBookingError maps error kinds to status codes. Unknown errors are
// logged and hidden behind a generic message.
func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrOutOfRange):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrNotAvailable):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrDecode):
		writeJSON(c, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Redirect: "/"})
	case errors.Is(err, types.ErrPersistenceUnavailable):
		log.WithFields(log.Fields{"request_id": middleware.GetRequestID(c)}).WithError(err).Error("store unavailable")
		writeError(c, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, location.ErrGeocodingDisabled):
		writeError(c, http.StatusNotImplemented, err.Error())
	default:
		log.WithFields(log.Fields{"request_id": middleware.GetRequestID(c)}).WithError(err).Error("request failed")
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// intParam reads a non-negative integer path parameter.
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return n, true
}
