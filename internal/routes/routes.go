package routes

import (
	"hospital-management-server/internal/config"
	"hospital-management-server/internal/handlers"
	"hospital-management-server/internal/logger"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes. The router must already run
// middleware.LoadSession so the guards below can see the session.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, sessions *session.Manager, log *logger.Logger) {
	// Services
	accounts := services.NewAccountService(db, log)
	appointments := services.NewAppointmentService(db)
	dashboard := services.NewDashboard(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, accounts, sessions, log)
	userHandler := handlers.NewUserHandler(db, accounts, cfg.UploadDir)
	appointmentHandler := handlers.NewAppointmentHandler(db, appointments)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db)
	messageHandler := handlers.NewMessageHandler(db)
	pharmacyHandler := handlers.NewPharmacyHandler(db)
	staffingHandler := handlers.NewStaffingHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(dashboard, accounts, cfg.LowStockThreshold)

	// Public routes (no authentication required)
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.Static("/uploads", cfg.UploadDir)

	// Any logged-in account
	authed := router.Group("")
	authed.Use(middleware.RequireSession())
	{
		authed.GET("/session", authHandler.Session)
		authed.GET("/api/me", authHandler.Me)
		authed.POST("/reset-password", authHandler.ResetPassword)
		authed.GET("/api/doctors", userHandler.ListDoctors)
		authed.GET("/api/schedules", staffingHandler.ListSchedules)
	}

	doctorRoutes := router.Group("/doctor")
	doctorRoutes.Use(middleware.RequireRole(models.RoleDoctor))
	{
		doctorRoutes.GET("/profile", userHandler.GetDoctorProfile)
		doctorRoutes.POST("/profile", userHandler.UpdateDoctorProfile)
		doctorRoutes.GET("/appointments/today", appointmentHandler.GetDoctorTodayAppointments)
		doctorRoutes.POST("/appointments/update", appointmentHandler.UpdateDoctorAppointmentStatus)
		doctorRoutes.GET("/lab-tests", medicalRecordHandler.GetDoctorLabTests)
		doctorRoutes.GET("/lab-test-types", medicalRecordHandler.ListLabTestTypes)
		doctorRoutes.POST("/lab-tests/create", medicalRecordHandler.CreateLabTest)
		doctorRoutes.GET("/prescriptions", medicalRecordHandler.GetDoctorPrescriptions)
		doctorRoutes.POST("/prescriptions", medicalRecordHandler.CreateDoctorPrescription)
		doctorRoutes.POST("/prescriptions/create", medicalRecordHandler.CreateAppointmentPrescription)
		doctorRoutes.GET("/patient/:id/prescriptions", medicalRecordHandler.GetPrescriptionsForPatient)
		doctorRoutes.POST("/medical-records", medicalRecordHandler.CreateMedicalRecord)
		doctorRoutes.GET("/messages", messageHandler.GetMyMessages)
	}

	// Patients may only reach their own records
	patientRoutes := router.Group("/api/patient/:id")
	patientRoutes.Use(middleware.RequireRole(models.RolePatient), middleware.RequireSelf("id"))
	{
		patientRoutes.GET("", userHandler.GetPatient)
		patientRoutes.PUT("", userHandler.UpdatePatient)
		patientRoutes.GET("/appointments", appointmentHandler.GetPatientAppointments)
		patientRoutes.POST("/appointments", appointmentHandler.BookPatientAppointment)
		patientRoutes.GET("/medical-history", medicalRecordHandler.GetMedicalHistory)
		patientRoutes.GET("/prescriptions", medicalRecordHandler.GetPrescriptionsForPatient)
		patientRoutes.GET("/lab-tests", medicalRecordHandler.GetPatientLabTests)
		patientRoutes.GET("/billing", pharmacyHandler.GetPatientBills)
		patientRoutes.POST("/billing/:billId/pay", pharmacyHandler.PayBill)
		patientRoutes.GET("/messages", messageHandler.GetPatientMessages)
		patientRoutes.POST("/messages", messageHandler.SendPatientMessage)
		patientRoutes.GET("/notifications", messageHandler.GetPatientNotifications)
		patientRoutes.GET("/overview", dashboardHandler.GetPatientOverview)
	}

	adminRoutes := router.Group("/api/admin")
	adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
	{
		adminRoutes.GET("/dashboard", dashboardHandler.GetAdminDashboard)
		adminRoutes.GET("/patients", userHandler.ListPatients)
		adminRoutes.GET("/doctors", userHandler.AdminListDoctors)
		adminRoutes.POST("/doctors", userHandler.CreateDoctor)
		adminRoutes.DELETE("/doctors/:id", userHandler.DeleteDoctor)
		adminRoutes.GET("/staff", userHandler.ListStaff)
		adminRoutes.POST("/staff", userHandler.CreateStaff)
		adminRoutes.DELETE("/staff/:id", userHandler.DeleteStaff)
		adminRoutes.GET("/profile", userHandler.GetOwnProfile(models.RoleAdmin))
		adminRoutes.PUT("/profile", userHandler.UpdateOwnProfile(models.RoleAdmin, true))
		adminRoutes.GET("/tasks", staffingHandler.ListTasks)
		adminRoutes.POST("/tasks", staffingHandler.CreateTask)
		adminRoutes.PUT("/tasks/:id", staffingHandler.UpdateTask)
		adminRoutes.GET("/duties", staffingHandler.ListDuties)
		adminRoutes.POST("/duties", staffingHandler.CreateDuty)
		adminRoutes.GET("/announcements", messageHandler.ListAnnouncements)
		adminRoutes.POST("/announcements", messageHandler.CreateAnnouncement)
		adminRoutes.GET("/schedules", staffingHandler.ListSchedules)
		adminRoutes.POST("/schedules", staffingHandler.CreateSchedule)
		adminRoutes.GET("/lab-test-types", medicalRecordHandler.ListLabTestTypes)
		adminRoutes.POST("/lab-test-types", medicalRecordHandler.CreateLabTestType)
		adminRoutes.GET("/messages", messageHandler.GetMyMessages)
	}

	// Reception screens only require a session; the profile lookup is scoped to
	// receptionist accounts.
	receptionRoutes := router.Group("/api/reception")
	receptionRoutes.Use(middleware.RequireSession())
	{
		receptionRoutes.GET("/appointments/today", appointmentHandler.GetReceptionTodayAppointments)
		receptionRoutes.GET("/counts", dashboardHandler.GetReceptionCounts)
		receptionRoutes.GET("/appointments/today/count", dashboardHandler.GetReceptionCount("todayAppointments"))
		receptionRoutes.GET("/patients/new/count", dashboardHandler.GetReceptionCount("newPatientsToday"))
		receptionRoutes.GET("/doctors/count", dashboardHandler.GetReceptionCount("totalDoctors"))
		receptionRoutes.GET("/schedules/count", dashboardHandler.GetReceptionCount("totalSchedules"))
		receptionRoutes.PUT("/appointments/:id/update", appointmentHandler.UpdateReceptionAppointment)
		receptionRoutes.POST("/appointments", appointmentHandler.CreateReceptionAppointment)
		receptionRoutes.POST("/patients", userHandler.CreatePatient)
		receptionRoutes.GET("/profile", userHandler.GetOwnProfile(models.RoleReceptionist))
		receptionRoutes.PUT("/profile", userHandler.UpdateOwnProfile(models.RoleReceptionist, true))
	}

	pharmacistRoutes := router.Group("/api/pharmacist")
	pharmacistRoutes.Use(middleware.RequireRole(models.RolePharmacist))
	{
		pharmacistRoutes.GET("/dashboard", dashboardHandler.GetPharmacistDashboard)
		pharmacistRoutes.GET("/profile", userHandler.GetOwnProfile(models.RolePharmacist))
		pharmacistRoutes.PUT("/profile", userHandler.UpdateOwnProfile(models.RolePharmacist, false))
		pharmacistRoutes.GET("/medicines", pharmacyHandler.ListMedicines)
		pharmacistRoutes.POST("/medicines", pharmacyHandler.CreateMedicine)
		pharmacistRoutes.GET("/medicines/expired", pharmacyHandler.ListExpiredMedicines)
		pharmacistRoutes.GET("/prescriptions", medicalRecordHandler.ListAllPrescriptions)
		pharmacistRoutes.POST("/prescriptions", medicalRecordHandler.CreatePharmacyPrescription)
	}

	// Staff screens only require a session; the profile lookup is scoped to staff
	// accounts.
	staffRoutes := router.Group("/api/staff")
	staffRoutes.Use(middleware.RequireSession())
	{
		staffRoutes.GET("/dashboard", dashboardHandler.GetStaffDashboard)
		staffRoutes.GET("/profile", userHandler.GetOwnProfile(models.RoleStaff))
		staffRoutes.PUT("/profile", userHandler.UpdateOwnProfile(models.RoleStaff, false))
		staffRoutes.POST("/message", messageHandler.SendStaffMessage)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
