package routes

import (
	"net/http"
	"time"

	"mindcare/handlers"
	"mindcare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup and signin for both roles.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/users/register", hb.Auth.RegisterUser)
		api.POST("/users/login", hb.Auth.LoginUser)
		api.POST("/psychologists/register", hb.Auth.RegisterPsychologist)
		api.POST("/psychologists/login", hb.Auth.LoginPsychologist)
	}
}

// RegisterUserRoutes registers the authenticated user's account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.GET("/me", hb.Users.GetProfile)
		api.PATCH("/me", hb.Users.UpdateProfile)
		api.PUT("/me/fcm-token", hb.Users.UpdateFCMToken)
		api.POST("/me/logout", hb.Users.Logout)
		api.DELETE("/me", hb.Users.DeleteAccount)
	}
}

// RegisterPsychologistRoutes registers discovery and psychologist self-service.
func RegisterPsychologistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/psychologists")
	{
		// Discovery is available to authenticated users.
		public := api.Group("")
		public.Use(middleware.JWTAuthUserMiddleware())
		public.GET("", hb.Psychologists.Discover)
		public.GET("/id/:id", hb.Psychologists.GetByID)
		public.POST("/id/:id/rate", hb.Psychologists.Rate)

		// Self-service requires a psychologist session.
		self := api.Group("")
		self.Use(middleware.JWTAuthPsychologistMiddleware())
		self.PATCH("/me", hb.Psychologists.UpdateProfile)
		self.PUT("/me/schedule", hb.Psychologists.SetSchedule)
		self.POST("/me/logout", hb.Psychologists.Logout)
		self.GET("/me/appointments", hb.Appointments.ListForPsychologist)
	}
}

// RegisterAvailabilityRoutes registers slot lookups.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.GET("/:psychologistId", hb.Availability.ListSlots)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.POST("/session", hb.Booking.StartSession)
		api.PUT("/session/:sessionID", hb.Booking.SelectSlot)
		api.POST("/session/:sessionID/confirm", hb.Booking.Confirm)
		api.DELETE("/session/:sessionID", hb.Booking.CancelSession)
	}
}

// RegisterAppointmentRoutes registers the user's appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.GET("", hb.Appointments.ListForUser)
		api.DELETE("/:id", hb.Appointments.Cancel)
	}
}

// RegisterMoodRoutes registers mood tracking endpoints.
func RegisterMoodRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/moods")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.POST("", hb.Moods.Record)
		api.GET("", hb.Moods.History)
		api.GET("/summary", hb.Moods.Summary)
	}
}

// RegisterAssessmentRoutes registers questionnaire endpoints.
func RegisterAssessmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/assessments")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.POST("", hb.Assessments.Submit)
		api.GET("", hb.Assessments.History)
	}
}

// RegisterChatRoutes registers messaging endpoints for both roles.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	registerChatGroup(r.Group("/api/chat", middleware.JWTAuthUserMiddleware()), hb)
	registerChatGroup(r.Group("/api/psychologists/chat", middleware.JWTAuthPsychologistMiddleware()), hb)
}

func registerChatGroup(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/rooms", hb.Chat.OpenRoom)
	api.GET("/rooms", hb.Chat.ListRooms)
	api.POST("/rooms/:roomID/messages", hb.Chat.Send)
	api.GET("/rooms/:roomID/messages", hb.Chat.Messages)
	api.POST("/rooms/:roomID/read", hb.Chat.MarkRead)
	api.GET("/rooms/:roomID/stream", hb.Chat.Stream)
}

// RegisterSubscriptionRoutes registers premium plan endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscriptions")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.POST("", hb.Subscriptions.Subscribe)
		api.GET("/current", hb.Subscriptions.Current)
		api.POST("/:id/activate", hb.Subscriptions.Activate)
		api.DELETE("/:id", hb.Subscriptions.Cancel)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPsychologistRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterMoodRoutes(r, hb)
	RegisterAssessmentRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterSubscriptionRoutes(r, hb)
	RegisterHealthRoute(r)
}
