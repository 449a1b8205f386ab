package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindcare/config"
	"mindcare/cron"
	"mindcare/database"
	appointmentRepoPkg "mindcare/database/repository/appointment"
	assessmentRepoPkg "mindcare/database/repository/assessment"
	chatRepoPkg "mindcare/database/repository/chat"
	moodRepoPkg "mindcare/database/repository/mood"
	psychologistRepoPkg "mindcare/database/repository/psychologist"
	scheduleRepoPkg "mindcare/database/repository/schedule"
	subscriptionRepoPkg "mindcare/database/repository/subscription"
	userRepoPkg "mindcare/database/repository/user"
	"mindcare/handlers"
	"mindcare/routes"
	"mindcare/services/assessment"
	"mindcare/services/availability"
	"mindcare/services/booking"
	"mindcare/services/chat"
	"mindcare/services/mood"
	"mindcare/services/notification"
	"mindcare/services/psychologist"
	"mindcare/services/subscription"
	"mindcare/services/tasks"
	"mindcare/services/user"
	"mindcare/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	psychRepo := psychologistRepoPkg.NewMongoPsychologistRepo()
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	moodRepo := moodRepoPkg.NewMongoMoodRepo()
	assessmentRepo := assessmentRepoPkg.NewMongoAssessmentRepo()
	chatRepo := chatRepoPkg.NewMongoChatRepo()
	subscriptionRepo := subscriptionRepoPkg.NewMongoSubscriptionRepo()

	// services.
	tokenCache := &utils.RedisTokenCache{Client: utils.GetAuthCacheClient()}

	userService := &user.DefaultUserService{Repo: userRepo, Tokens: tokenCache}
	availabilityService := &availability.DefaultAvailabilityService{Repo: scheduleRepo}
	psychologistService := &psychologist.DefaultPsychologistService{
		Repo:         psychRepo,
		Availability: availabilityService,
		Tokens:       tokenCache,
	}
	notificationService := &notification.DefaultNotificationService{
		Users:         userRepo,
		Psychologists: psychRepo,
	}
	reminderScheduler := tasks.NewScheduler()
	defer reminderScheduler.Close()

	bookingService := &booking.DefaultBookingService{
		Availability:  availabilityService,
		ScheduleRepo:  scheduleRepo,
		Appointments:  appointmentRepo,
		Psychologists: psychRepo,
		Sessions:      &booking.RedisSessionStore{Client: utils.GetCacheClient()},
		Payments:      booking.NewStripePaymentProvider("", logger),
		Notifier:      notificationService,
		Reminders:     reminderScheduler,
	}
	moodService := &mood.DefaultMoodService{Repo: moodRepo}
	assessmentService := &assessment.DefaultAssessmentService{Repo: assessmentRepo}
	chatService := &chat.DefaultChatService{Repo: chatRepo, Appointments: appointmentRepo}
	subscriptionService := &subscription.DefaultSubscriptionService{
		Repo:     subscriptionRepo,
		Users:    userRepo,
		Payments: booking.NewStripePaymentProvider("", logger),
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:          &handlers.AuthHandler{Users: userService, Psychologists: psychologistService},
		Users:         &handlers.UserHandler{Users: userService},
		Psychologists: &handlers.PsychologistHandler{Psychologists: psychologistService},
		Availability:  &handlers.AvailabilityHandler{Availability: availabilityService},
		Booking:       &handlers.BookingHandler{Booking: bookingService},
		Appointments:  &handlers.AppointmentHandler{Appointments: appointmentRepo, Booking: bookingService},
		Moods:         &handlers.MoodHandler{Moods: moodService},
		Assessments:   &handlers.AssessmentHandler{Assessments: assessmentService},
		Chat:          &handlers.ChatHandler{Chat: chatService},
		Subscriptions: &handlers.SubscriptionHandler{Subscriptions: subscriptionService},
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder worker.
	cron.InitReminderWorker(notificationService, appointmentRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
