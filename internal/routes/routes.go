package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/barbierimoderni/booking-api/internal/audit"
	"github.com/barbierimoderni/booking-api/internal/config"
	"github.com/barbierimoderni/booking-api/internal/handlers"
	infraRepo "github.com/barbierimoderni/booking-api/internal/infra/repository"
	"github.com/barbierimoderni/booking-api/internal/kvstore"
	"github.com/barbierimoderni/booking-api/internal/middleware"
	"github.com/barbierimoderni/booking-api/internal/notify"
	ucAvailability "github.com/barbierimoderni/booking-api/internal/usecase/availability"
	ucBooking "github.com/barbierimoderni/booking-api/internal/usecase/booking"
	ucClosure "github.com/barbierimoderni/booking-api/internal/usecase/closure"
	ucDailyJob "github.com/barbierimoderni/booking-api/internal/usecase/dailyjob"
	ucWaitlist "github.com/barbierimoderni/booking-api/internal/usecase/waitlist"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log *zap.Logger,
	kv kvstore.Store,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	waitlistRepo := infraRepo.NewWaitlistGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	sender := notify.NewLogSender(log)

	// ======================================================
	// USE CASES: AVAILABILITY
	// ======================================================
	resolveSlotsUC := ucAvailability.NewResolveSlots(scheduleRepo, bookingRepo)
	batchAvailabilityUC := ucAvailability.NewBatchAvailability(resolveSlotsUC)

	// ======================================================
	// USE CASES: WAITLIST
	// ======================================================
	offerNextUC := ucWaitlist.NewOfferNextInLine(
		waitlistRepo,
		scheduleRepo,
		kv,
		sender,
		cfg.WaitlistOfferTTL,
		log,
	)

	expireOffersUC := ucWaitlist.NewExpireOffers(
		waitlistRepo,
		kv,
		offerNextUC,
		log,
	)

	joinWaitlistUC := ucWaitlist.NewJoinWaitlist(
		waitlistRepo,
		scheduleRepo,
		bookingRepo,
	)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		scheduleRepo,
		resolveSlotsUC,
		auditDispatcher,
	)

	confirmBookingUC := ucBooking.NewConfirmBooking(bookingRepo, auditDispatcher)
	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		offerNextUC,
		auditDispatcher,
		log,
	)

	moveBookingUC := ucBooking.NewMoveBooking(bookingRepo, auditDispatcher)
	purgeCancelledUC := ucBooking.NewPurgeCancelled(bookingRepo, auditDispatcher)

	// ======================================================
	// USE CASES: CLOSURES
	// ======================================================
	addClosureUC := ucClosure.NewAddClosure(scheduleRepo, auditDispatcher)
	removeClosureUC := ucClosure.NewRemoveClosure(scheduleRepo, auditDispatcher, log)
	recurringClosuresUC := ucClosure.NewRecurringClosures(scheduleRepo, auditDispatcher)
	saveOverrideUC := ucClosure.NewSaveOverride(scheduleRepo, auditDispatcher)

	// ======================================================
	// USE CASES: SYSTEM
	// ======================================================
	dailyUpdateUC := ucDailyJob.NewDailyUpdate(scheduleRepo, expireOffersUC, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(scheduleRepo, cfg)

	publicHandler := handlers.NewPublicHandler(
		scheduleRepo,
		bookingRepo,
		resolveSlotsUC,
		batchAvailabilityUC,
		createBookingUC,
		joinWaitlistUC,
		kv,
	)

	bookingHandler := handlers.NewBookingHandler(
		bookingRepo,
		confirmBookingUC,
		completeBookingUC,
		cancelBookingUC,
		moveBookingUC,
		purgeCancelledUC,
	)

	closureHandler := handlers.NewClosureHandler(
		scheduleRepo,
		addClosureUC,
		removeClosureUC,
		recurringClosuresUC,
		saveOverrideUC,
	)

	waitlistHandler := handlers.NewWaitlistHandler(waitlistRepo)
	serviceHandler := handlers.NewServiceHandler(db)
	systemHandler := handlers.NewSystemHandler(dailyUpdateUC, cfg)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.GET("/availability/batch", publicHandler.AvailabilityBatch)
			publicAPI.GET("/bookings/:code", bookingHandler.GetByCode)

			publicAPI.POST(
				"/bookings",
				middleware.RateLimitMiddleware(kv),
				publicHandler.CreateBooking,
			)
			publicAPI.POST(
				"/waitlist",
				middleware.RateLimitMiddleware(kv),
				publicHandler.JoinWaitlist,
			)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/bookings", bookingHandler.ListByDate)
			secured.GET("/bookings/month", bookingHandler.ListByMonth)
			secured.PATCH("/bookings/:id", bookingHandler.Update)
			secured.DELETE("/bookings/cancelled", bookingHandler.Purge)

			secured.GET("/closures", closureHandler.List)
			secured.POST("/closures", closureHandler.Create)
			secured.DELETE("/closures", closureHandler.Delete)

			secured.GET("/closures/recurring/:barber", closureHandler.RecurringGet)
			secured.PUT("/closures/recurring/:barber", closureHandler.RecurringSave)

			secured.PUT("/schedule/:barber/override", closureHandler.OverrideSave)

			secured.GET("/waitlist", waitlistHandler.ListByDate)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/audit-logs", auditLogsHandler.List)

			secured.POST("/system/daily-update", systemHandler.RunDailyUpdate)
		}
	}
}
