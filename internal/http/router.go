// README: HTTP router registration: middleware chain and API routes.
package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taxibook/internal/http/handlers"
	"taxibook/internal/http/middleware"
	"taxibook/internal/service"
)

type RouterDeps struct {
	Flow        *service.BookingFlow
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(deps.CORSOrigins)))
	}

	draft := handlers.NewDraftHandler(deps.Flow)
	bookings := handlers.NewBookingHandler(deps.Flow)
	taxis := handlers.NewTaxiHandler(deps.Flow)

	r.GET("/health", taxis.Health)

	api := r.Group("/api")
	api.GET("/taxis", taxis.List)
	api.POST("/users", taxis.NewUser)

	user := api.Group("/users/:uid", middleware.Session())
	user.GET("/draft", draft.Get)
	user.DELETE("/draft", draft.Discard)
	user.PUT("/draft/schedule", draft.Schedule)
	user.PUT("/draft/taxi", draft.ChooseClass)
	user.GET("/draft/fares", draft.Fares)
	user.POST("/draft/stops", draft.AddStop)
	user.PUT("/draft/stops/:pos", draft.EditStop)
	user.DELETE("/draft/stops/:pos", draft.DeleteStop)
	user.PUT("/draft/endpoints/:endpoint", draft.SetEndpoint)

	user.POST("/bookings", bookings.Confirm)
	user.GET("/bookings", bookings.List)
	user.GET("/bookings/last", bookings.Last)
	user.GET("/bookings/:index", bookings.Get)
	user.DELETE("/bookings/:index", bookings.Delete)
	user.GET("/bookings/:index/alternatives", bookings.Alternatives)
	user.PUT("/bookings/:index/taxi", bookings.ChangeTaxi)
	user.GET("/notices/deletion", bookings.DeletionNotice)

	return r
}
