package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/SonrisaDental01/clinic-scheduler/internal/audit"
	"github.com/SonrisaDental01/clinic-scheduler/internal/config"
	domain "github.com/SonrisaDental01/clinic-scheduler/internal/domain/appointment"
	"github.com/SonrisaDental01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/SonrisaDental01/clinic-scheduler/internal/infra/repository"
	"github.com/SonrisaDental01/clinic-scheduler/internal/middleware"
	"github.com/SonrisaDental01/clinic-scheduler/internal/notify"
	ucAppointment "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/appointment"
	ucReferral "github.com/SonrisaDental01/clinic-scheduler/internal/usecase/referral"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	policy domain.CalendarPolicy,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db, cfg.RepoTimeout, cfg.RepoMaxRetries)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var mailer notify.Mailer
	if sg := notify.NewSendGridMailer(cfg.SendgridAPIKey, cfg.MailFrom, cfg.MailFromName); sg != nil {
		mailer = sg
	}
	notifyDispatcher := notify.NewDispatcher(mailer)

	// ======================================================
	// USE CASES
	// ======================================================
	referralValidator := ucReferral.NewValidate(appointmentRepo, cfg.ReferralMinLength)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, policy.Grid)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		policy,
		referralValidator,
		cfg.ClinicTimezone,
		cfg.PublicBaseURL,
		auditDispatcher,
		notifyDispatcher,
	)

	redeemTokenUC := ucAppointment.NewRedeemToken(
		appointmentRepo,
		cfg.ClinicTimezone,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		cfg.ClinicTimezone,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	publicHandler := handlers.NewPublicHandler(
		appointmentRepo,
		availabilityUC,
		createAppointmentUC,
		referralValidator,
	)

	actionHandler := handlers.NewActionHandler(redeemTokenUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		cancelAppointmentUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// RATE LIMIT (solo superficie pública de escritura)
	// ======================================================
	publicWriteGuard := func(c *gin.Context) { c.Next() }
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter := middleware.NewRedisRateLimiter(rdb, cfg.PublicRatePerMin, time.Minute, "booking")
		publicWriteGuard = limiter.Middleware()
	}

	// ======================================================
	// CANJE POR CORREO (HTML)
	// ======================================================
	r.GET("/appointment-action", actionHandler.HandleAction)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA (wizard de citas)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/locations", publicHandler.ListLocations)
			publicAPI.GET("/locations/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/locations/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/locations/:slug/appointments", publicWriteGuard, publicHandler.CreateAppointment)
			publicAPI.GET("/referral-codes/check", publicHandler.CheckReferral)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA (portal interno)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
