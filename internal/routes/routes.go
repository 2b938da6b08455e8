package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SamarthKalavadia/hospital-management-system/internal/app"
	"github.com/SamarthKalavadia/hospital-management-system/internal/handlers"
	"github.com/SamarthKalavadia/hospital-management-system/internal/metrics"
	"github.com/SamarthKalavadia/hospital-management-system/internal/middleware"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
)

// NewRouter builds the engine with logging, recovery and CORS installed.
func NewRouter(a *app.App) *gin.Engine {
	if a.Config.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(a.Log), middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{a.Config.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	router.Use(cors.New(corsConfig))

	SetupRoutes(router, a)
	return router
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, a *app.App) {
	authHandler := handlers.NewAuthHandler(a.DB, a.Config, a.Directory)
	userHandler := handlers.NewUserHandler(a.Directory, a.Appointments, a.Prescriptions, a.Records)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(a.Directory, a.Records)
	appointmentHandler := handlers.NewAppointmentHandler(a.Appointments)
	medicineHandler := handlers.NewMedicineHandler(a.Catalogue)
	prescriptionHandler := handlers.NewPrescriptionHandler(a.Prescriptions)
	aiHandler := handlers.NewAIHandler(a.Catalogue)
	dashboardHandler := handlers.NewDashboardHandler(handlers.DashboardSources{
		Users:        a.Directory,
		Appointments: a.Appointments,
		Stock:        a.Catalogue,
	})

	doctorOnly := middleware.RoleAuthMiddleware(models.RoleDoctor)
	staff := middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin)

	// Public routes
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Emailed links carry a signed token instead of a session.
		public.GET("/appointments/action/approve", appointmentHandler.HandleAction)
		public.GET("/appointments/action/reject", appointmentHandler.HandleAction)
	}

	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(a.Config.JWTSecret))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/doctors", userHandler.GetDoctors)
			userRoutes.GET("/patients", staff, userHandler.GetPatients)
			userRoutes.GET("/patients/:id", medicalRecordHandler.GetPatient)
			userRoutes.POST("/patients/:id/history", doctorOnly, medicalRecordHandler.AddHistory)
			userRoutes.DELETE("/:id", staff, userHandler.DeleteUser)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
			}
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("/slots", appointmentHandler.GetSlots)
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/history", appointmentHandler.GetHistory)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/approve", doctorOnly, appointmentHandler.ApproveAppointment)
			appointmentRoutes.PATCH("/:id/reject", doctorOnly, appointmentHandler.RejectAppointment)
			appointmentRoutes.PUT("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.CancelAppointment)
		}

		medicineRoutes := private.Group("/medicines")
		{
			medicineRoutes.GET("", medicineHandler.ListMedicines)
			medicineRoutes.GET("/:id", medicineHandler.GetMedicine)
			medicineRoutes.POST("", doctorOnly, medicineHandler.CreateMedicine)
			medicineRoutes.PUT("/:id", doctorOnly, medicineHandler.UpdateMedicine)
			medicineRoutes.PATCH("/:id/quantity", doctorOnly, medicineHandler.UpdateQuantity)
			medicineRoutes.DELETE("/:id", doctorOnly, medicineHandler.DeleteMedicine)
		}

		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.GET("", prescriptionHandler.ListPrescriptions)
			prescriptionRoutes.GET("/:id", prescriptionHandler.GetPrescription)
			prescriptionRoutes.GET("/:id/download", prescriptionHandler.DownloadPrescription)
			prescriptionRoutes.POST("", doctorOnly, prescriptionHandler.CreatePrescription)
			prescriptionRoutes.PUT("/:id", doctorOnly, prescriptionHandler.UpdatePrescription)
			prescriptionRoutes.POST("/:id/send-pdf", doctorOnly, prescriptionHandler.SendPDF)
			prescriptionRoutes.POST("/:id/feedback", prescriptionHandler.SubmitFeedback)
		}

		aiRoutes := private.Group("/ai")
		{
			aiRoutes.POST("/prescription-draft", doctorOnly, aiHandler.PrescriptionDraft)
			aiRoutes.POST("/medicine-demand", doctorOnly, aiHandler.MedicineDemand)
			aiRoutes.POST("/symptom-progress", aiHandler.SymptomProgress)
			aiRoutes.POST("/patient-assistant", middleware.RoleAuthMiddleware(models.RolePatient), aiHandler.PatientAssistant)
		}

		dashboardRoutes := private.Group("/dashboard")
		{
			dashboardRoutes.GET("/doctor", staff, dashboardHandler.DoctorStats)
			dashboardRoutes.GET("/patient", middleware.RoleAuthMiddleware(models.RolePatient), dashboardHandler.PatientStats)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		status := "UP"
		code := http.StatusOK
		if sqlDB, err := a.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
