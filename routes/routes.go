package routes

import (
	"net/http"
	"time"

	"maideasy/handlers"
	"maideasy/middleware"
	"maideasy/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers OTP sign-in endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/otp", hb.Auth.SendOTPHandler)
		api.POST("/verify", hb.Auth.VerifyOTPHandler)
		api.POST("/signout", middleware.JWTAuthUserMiddleware(hb.Sessions), hb.Auth.SignOutHandler)
	}
}

// RegisterUserRoutes registers profile endpoints for the signed-in user.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users/me")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.Sessions))
		api.GET("", hb.Profile.GetProfileHandler)
		api.PATCH("", hb.Profile.UpdateProfileHandler)
		api.POST("/complete", hb.Profile.CompleteProfileHandler)
		api.POST("/avatar", hb.Profile.UploadAvatarHandler)
	}
}

// RegisterCatalogRoutes registers the public listings.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/services", hb.Catalog.ListServicesHandler)
		api.GET("/services/:id", hb.Catalog.GetServiceHandler)
		api.GET("/maids", hb.Catalog.ListProvidersHandler)
		api.GET("/maids/:id", hb.Catalog.GetProviderHandler)
		api.GET("/schedule", hb.Catalog.ScheduleHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware(hb.Sessions))
		bookingGroup.POST("/session", hb.Booking.InitiateSession)
		bookingGroup.GET("/session/:sessionID", hb.Booking.GetSession)
		bookingGroup.PUT("/session/:sessionID/service", hb.Booking.SelectService)
		bookingGroup.PUT("/session/:sessionID/maid", hb.Booking.SelectProvider)
		bookingGroup.PUT("/session/:sessionID/schedule", hb.Booking.SetDateTime)
		bookingGroup.PUT("/session/:sessionID/address", hb.Booking.SetAddress)
		bookingGroup.GET("/session/:sessionID/quote", hb.Booking.Quote)
		bookingGroup.POST("/session/:sessionID/confirm", hb.Booking.ConfirmBooking)
		bookingGroup.DELETE("/session/:sessionID", hb.Booking.CancelSession)
	}

	history := r.Group("/api/bookings")
	{
		history.Use(middleware.JWTAuthUserMiddleware(hb.Sessions))
		history.GET("", hb.Booking.ListBookings)
		history.GET("/:id", hb.Booking.GetBooking)
		history.PATCH("/:id/status", hb.Booking.UpdateStatus)
	}
}

// RegisterTrackingRoutes registers the live maid tracking endpoints.
func RegisterTrackingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tracking")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.Sessions))
		api.POST("/:bookingID", hb.Tracking.StartTracking)
		api.GET("/:bookingID", hb.Tracking.GetTracking)
		api.DELETE("/:bookingID", hb.Tracking.StopTracking)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.CheckedAt.IsZero() && !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm MaidEasy"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterTrackingRoutes(r, hb)
}
