// README: Draft handlers: endpoints, stops, schedule, class and fare previews.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxibook/internal/http/middleware"
	"taxibook/internal/modules/booking"
	"taxibook/internal/modules/location"
	"taxibook/internal/modules/pricing"
	"taxibook/internal/modules/trip"
	"taxibook/internal/service"
	"taxibook/internal/types"
)

type DraftHandler struct {
	flow *service.BookingFlow
}

func NewDraftHandler(flow *service.BookingFlow) *DraftHandler {
	return &DraftHandler{flow: flow}
}

// placeReq is either a named place or bare coordinates to reverse-geocode.
type placeReq struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lng     *float64 `json:"lng"`
	Lat     *float64 `json:"lat"`
}

func (r placeReq) toPlace() (service.Place, bool) {
	if r.Lng == nil || r.Lat == nil {
		return service.Place{}, false
	}
	if r.Name == "" && r.Address == "" {
		return service.Place{Point: &types.Point{Lng: *r.Lng, Lat: *r.Lat}}, true
	}
	loc := location.Location{Name: r.Name, Address: r.Address, Coordinates: types.Point{Lng: *r.Lng, Lat: *r.Lat}}
	return service.Place{Location: &loc}, true
}

func bindPlace(c *gin.Context) (service.Place, bool) {
	var req placeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return service.Place{}, false
	}
	p, ok := req.toPlace()
	if !ok {
		writeError(c, http.StatusBadRequest, "lng and lat are required")
		return service.Place{}, false
	}
	return p, true
}

func (h *DraftHandler) respond(c *gin.Context, b *booking.Booking, err error) {
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, newBookingView(b, nil, h.flow.Now()))
}

func (h *DraftHandler) Get(c *gin.Context) {
	b, err := h.flow.Draft(c.Request.Context(), middleware.CallerUID(c))
	h.respond(c, b, err)
}

func (h *DraftHandler) SetEndpoint(c *gin.Context) {
	which, err := trip.ParseEndpoint(c.Param("endpoint"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	p, ok := bindPlace(c)
	if !ok {
		return
	}
	b, err := h.flow.SetEndpoint(c.Request.Context(), middleware.CallerUID(c), which, p)
	h.respond(c, b, err)
}

func (h *DraftHandler) AddStop(c *gin.Context) {
	p, ok := bindPlace(c)
	if !ok {
		return
	}
	b, err := h.flow.AddStop(c.Request.Context(), middleware.CallerUID(c), p)
	h.respond(c, b, err)
}

func (h *DraftHandler) EditStop(c *gin.Context) {
	pos, ok := intParam(c, "pos")
	if !ok {
		return
	}
	p, ok := bindPlace(c)
	if !ok {
		return
	}
	b, err := h.flow.EditStop(c.Request.Context(), middleware.CallerUID(c), pos, p)
	h.respond(c, b, err)
}

func (h *DraftHandler) DeleteStop(c *gin.Context) {
	pos, ok := intParam(c, "pos")
	if !ok {
		return
	}
	b, err := h.flow.DeleteStop(c.Request.Context(), middleware.CallerUID(c), pos)
	h.respond(c, b, err)
}

type scheduleReq struct {
	Advance     bool       `json:"advance"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (h *DraftHandler) Schedule(c *gin.Context) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	b, err := h.flow.Schedule(c.Request.Context(), middleware.CallerUID(c), req.Advance, req.ScheduledAt)
	h.respond(c, b, err)
}

type classReq struct {
	Class *pricing.Class `json:"class"`
}

func (h *DraftHandler) ChooseClass(c *gin.Context) {
	var req classReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid taxi class")
		return
	}
	if req.Class == nil {
		writeError(c, http.StatusBadRequest, "class is required")
		return
	}
	b, err := h.flow.ChooseClass(c.Request.Context(), middleware.CallerUID(c), *req.Class)
	h.respond(c, b, err)
}

func (h *DraftHandler) Fares(c *gin.Context) {
	offers, err := h.flow.Quotes(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	fares, available := newQuoteViews(offers)
	writeJSON(c, http.StatusOK, gin.H{"fares": fares, "taxis_available": available})
}

func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.flow.DiscardDraft(c.Request.Context(), middleware.CallerUID(c)); err != nil {
		writeBookingError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
