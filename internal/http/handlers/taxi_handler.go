// README: Fleet and session handlers: taxi inventory, new user ids, health.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxibook/internal/service"
)

type TaxiHandler struct {
	flow *service.BookingFlow
}

func NewTaxiHandler(flow *service.BookingFlow) *TaxiHandler {
	return &TaxiHandler{flow: flow}
}

func (h *TaxiHandler) List(c *gin.Context) {
	units, err := h.flow.Taxis(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	views := make([]taxiView, 0, len(units))
	for _, u := range units {
		views = append(views, newInventoryView(u))
	}
	writeJSON(c, http.StatusOK, gin.H{"taxis": views})
}

// NewUser hands out an anonymous user id that partitions stored state.
func (h *TaxiHandler) NewUser(c *gin.Context) {
	writeJSON(c, http.StatusCreated, gin.H{"uid": uuid.NewString()})
}

func (h *TaxiHandler) Health(c *gin.Context) {
	if err := h.flow.Ping(c.Request.Context()); err != nil {
		writeBookingError(c, err)
		return
	}
	c.String(http.StatusOK, "OK")
}
