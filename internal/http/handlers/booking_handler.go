// README: Booking handlers: confirm, list, detail, change taxi, delete.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxibook/internal/http/middleware"
	"taxibook/internal/modules/taxi"
	"taxibook/internal/service"
)

type BookingHandler struct {
	flow *service.BookingFlow
}

func NewBookingHandler(flow *service.BookingFlow) *BookingHandler {
	return &BookingHandler{flow: flow}
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	index, b, err := h.flow.Confirm(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, newBookingView(b, &index, h.flow.Now()))
}

func (h *BookingHandler) List(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}
	res, err := h.flow.List(c.Request.Context(), middleware.CallerUID(c), page)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	now := h.flow.Now()
	views := make([]bookingView, 0, len(res.Entries))
	for _, e := range res.Entries {
		idx := e.Index
		views = append(views, newBookingView(e.Booking, &idx, now))
	}
	writeJSON(c, http.StatusOK, gin.H{
		"page":      res.Number,
		"last_page": res.Last,
		"page_size": h.flow.PageSize(),
		"bookings":  views,
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	b, err := h.flow.Detail(c.Request.Context(), middleware.CallerUID(c), index)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(b, &index, h.flow.Now()))
}

func (h *BookingHandler) Last(c *gin.Context) {
	index, b, err := h.flow.LastViewed(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(b, &index, h.flow.Now()))
}

func (h *BookingHandler) Alternatives(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	alts, err := h.flow.Alternatives(c.Request.Context(), middleware.CallerUID(c), index)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	views := make([]taxiView, 0, len(alts))
	for _, a := range alts {
		views = append(views, newTaxiView(taxi.Unit{Class: a.Class, Index: a.Index}))
	}
	writeJSON(c, http.StatusOK, gin.H{"alternatives": views})
}

type changeTaxiReq struct {
	Index *int `json:"index"`
}

func (h *BookingHandler) ChangeTaxi(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req changeTaxiReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		writeError(c, http.StatusBadRequest, "taxi index is required")
		return
	}
	b, err := h.flow.ChangeTaxi(c.Request.Context(), middleware.CallerUID(c), index, *req.Index)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(b, &index, h.flow.Now()))
}

func (h *BookingHandler) Delete(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	name, err := h.flow.Delete(c.Request.Context(), middleware.CallerUID(c), index)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": name})
}

// DeletionNotice pops the notice left by the last delete; 204 when there is none.
func (h *BookingHandler) DeletionNotice(c *gin.Context) {
	name, ok, err := h.flow.DeletionNotice(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": name})
}
