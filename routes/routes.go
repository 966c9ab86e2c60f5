package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/middleware"
)

type Controllers struct {
	Hotels   *controllers.HotelController
	Rooms    *controllers.RoomController
	Bookings *controllers.BookingController
	Drafts   *controllers.DraftController
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With",
			middleware.RequestIDHeader, middleware.UserIDHeader, middleware.UserEmailHeader, middleware.UserNameHeader,
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires the controllers to the HTTP surface.
func SetupRouter(cfg config.HTTPConfig, log zerolog.Logger, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst), middleware.Identity())
	auth := middleware.RequireUser()
	{
		hotels := api.Group("/hotels")
		{
			hotels.GET("", ctl.Hotels.List)
			hotels.POST("", auth, ctl.Hotels.Create)
			hotels.GET("/:id", ctl.Hotels.Get)
			hotels.PATCH("/:id", auth, ctl.Hotels.Update)
			hotels.DELETE("/:id", auth, ctl.Hotels.Delete)
			hotels.POST("/:id/rooms", auth, ctl.Rooms.Create)
		}

		rooms := api.Group("/rooms")
		{
			rooms.PATCH("/:id", auth, ctl.Rooms.Update)
			rooms.DELETE("/:id", auth, ctl.Rooms.Delete)
			rooms.GET("/:id/bookings", ctl.Rooms.BookedRanges)
			rooms.GET("/:id/availability", ctl.Rooms.Availability)
			rooms.GET("/:id/quote", ctl.Rooms.Quote)
		}

		api.POST("/payment-intents", auth, ctl.Bookings.RequestIntent)

		bookings := api.Group("/bookings", auth)
		{
			bookings.GET("/mine", ctl.Bookings.MyBookings)
			bookings.GET("/owner", ctl.Bookings.OwnerBookings)
			bookings.GET("/owner/export", ctl.Bookings.ExportOwnerBookings)
			bookings.PATCH("/:intentId/confirm", ctl.Bookings.ConfirmPayment)
		}

		drafts := api.Group("/booking-draft", auth)
		{
			drafts.GET("", ctl.Drafts.Get)
			drafts.PUT("", ctl.Drafts.Put)
			drafts.DELETE("", ctl.Drafts.Delete)
		}
	}

	return r
}
