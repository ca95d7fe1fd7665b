package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/frailin-studio/booking-api/internal/audit"
	"github.com/frailin-studio/booking-api/internal/cache"
	"github.com/frailin-studio/booking-api/internal/config"
	"github.com/frailin-studio/booking-api/internal/handlers"
	infraRepo "github.com/frailin-studio/booking-api/internal/infra/repository"
	"github.com/frailin-studio/booking-api/internal/metrics"
	"github.com/frailin-studio/booking-api/internal/middleware"
	"github.com/frailin-studio/booking-api/internal/notify"
	ucBooking "github.com/frailin-studio/booking-api/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	var sender notify.Sender = notify.LogSender{}
	if cfg.TwilioEnabled() {
		sender = notify.NewTwilioSender(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFromNumber,
		)
	}
	notifier := notify.NewDispatcher(sender)

	slotCache, err := cache.New(cfg.SlotCacheSize)
	if err != nil {
		log.Println("slot cache disabled:", err)
	}

	// ======================================================
	// 🧠 USE CASES — BOOKING
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(scheduleRepo, slotCache)

	createAppointmentUC := ucBooking.NewCreateAppointment(
		scheduleRepo,
		auditDispatcher,
		notifier,
		slotCache,
		cfg.ShopName,
	)

	promoteUC := ucBooking.NewPromoteFromWaitlist(
		scheduleRepo,
		createAppointmentUC,
		notifier,
		auditDispatcher,
		cfg.ShopName,
	)

	var policy ucBooking.WaitlistPolicy
	switch cfg.WaitlistPolicy {
	case ucBooking.PolicyNotify:
		policy = ucBooking.NewNotifyWaitlistPolicy(
			scheduleRepo,
			notifier,
			auditDispatcher,
			cfg.ShopName,
		)
	default:
		policy = ucBooking.NewPromoteWaitlistPolicy(promoteUC)
	}

	cancelAppointmentUC := ucBooking.NewCancelAppointment(
		scheduleRepo,
		auditDispatcher,
		notifier,
		slotCache,
		policy,
	)

	completeAppointmentUC := ucBooking.NewCompleteAppointment(
		scheduleRepo,
		auditDispatcher,
	)

	noShowUC := ucBooking.NewMarkNoShow(
		scheduleRepo,
		auditDispatcher,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	serviceHandler := handlers.NewServiceHandler(db)
	slotsHandler := handlers.NewSlotsHandler(availabilityUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		noShowUC,
	)

	waitlistHandler := handlers.NewWaitlistHandler(db, auditDispatcher)
	blockedHandler := handlers.NewBlockedHandler(db, slotCache, auditDispatcher)
	scheduleHandler := handlers.NewScheduleHandler(db, slotCache, auditDispatcher)
	clientHandler := handlers.NewClientHandler(db)
	queueHandler := handlers.NewQueueHandler(db, cfg.ShopName)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 📈 MÉTRICAS
	// ======================================================
	r.GET("/metrics", metrics.Handler())

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", serviceHandler.List)
			publicAPI.GET("/slots", slotsHandler.Get)
			publicAPI.POST("/appointments", appointmentHandler.Create)
			publicAPI.POST("/appointments/cancel", appointmentHandler.CancelByToken)
			publicAPI.POST("/waitlist", waitlistHandler.Join)
			publicAPI.GET("/queue", queueHandler.List)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA (panel)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/appointments", appointmentHandler.List)
			secured.PATCH("/appointments/:id", appointmentHandler.UpdateStatus)

			secured.GET("/schedule/:barberId", scheduleHandler.Get)
			secured.PUT("/schedule/:barberId", scheduleHandler.Upsert)
			secured.PUT("/schedule/:barberId/overrides", scheduleHandler.UpsertOverride)
			secured.DELETE("/schedule/overrides/:id", scheduleHandler.DeleteOverride)

			secured.GET("/blocked-intervals", blockedHandler.List)
			secured.POST("/blocked-intervals", blockedHandler.Create)
			secured.DELETE("/blocked-intervals/:id", blockedHandler.Delete)

			secured.GET("/waitlist", waitlistHandler.List)
			secured.PATCH("/waitlist/:id", waitlistHandler.UpdateStatus)

			secured.GET("/clients", clientHandler.List)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
