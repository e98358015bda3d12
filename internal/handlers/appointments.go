package handlers

import (
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment requests from doctors, patients and reception.
type AppointmentHandler struct {
	DB           *gorm.DB
	Appointments *services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Appointments: appointments}
}

// viewQuery joins appointments with the people involved and the appointment's bill.
func (h *AppointmentHandler) viewQuery(c *gin.Context) *gorm.DB {
	return h.DB.WithContext(c.Request.Context()).Table("appointments a").
		Select("a.id, a.patient_id, a.doctor_id, a.receptionist_id, a.appointment_date, a.appointment_time, a.reason, a.status, " +
			"p.name AS patient_name, u.name AS doctor_name, d.specialization, b.amount AS bill_amount, b.status AS bill_status").
		Joins("JOIN users p ON p.id = a.patient_id").
		Joins("JOIN users u ON u.id = a.doctor_id").
		Joins("LEFT JOIN doctors d ON d.doctor_id = a.doctor_id").
		Joins("LEFT JOIN bills b ON b.appointment_id = a.id")
}

// GetDoctorTodayAppointments returns the logged-in doctor's appointments for today.
func (h *AppointmentHandler) GetDoctorTodayAppointments(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	views := []models.AppointmentView{}
	err := h.viewQuery(c).
		Where("a.doctor_id = ? AND a.appointment_date = ?", user.ID, utils.Today()).
		Order("a.appointment_time asc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch appointments", err))
		return
	}
	utils.Success(c, "Appointments fetched successfully", views)
}

// DoctorStatusRequest represents the doctor's status change form.
type DoctorStatusRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

// UpdateDoctorAppointmentStatus changes the status of one of the logged-in doctor's
// appointments. Appointments of other doctors are reported as not found.
func (h *AppointmentHandler) UpdateDoctorAppointmentStatus(c *gin.Context) {
	var req DoctorStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)

	appointment, err := h.Appointments.UpdateStatus(c.Request.Context(), services.StatusUpdate{
		AppointmentID: req.AppointmentID,
		DoctorID:      user.ID,
		Status:        req.Status,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appointment)
}

// GetReceptionTodayAppointments returns every appointment booked for today.
func (h *AppointmentHandler) GetReceptionTodayAppointments(c *gin.Context) {
	views := []models.AppointmentView{}
	err := h.viewQuery(c).
		Where("a.appointment_date = ?", utils.Today()).
		Order("a.appointment_time asc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch today appointments", err))
		return
	}
	utils.Success(c, "Appointments fetched successfully", views)
}

// ReceptionUpdateRequest represents the reception desk's status and billing form.
type ReceptionUpdateRequest struct {
	Status     string   `json:"status" binding:"required"`
	BillAmount *float64 `json:"bill_amount" binding:"omitempty,gte=0"`
	BillStatus string   `json:"bill_status" binding:"omitempty,oneof=unpaid paid"`
}

// UpdateReceptionAppointment changes an appointment's status and, when a bill amount is
// sent, creates or updates its bill in the same transaction.
func (h *AppointmentHandler) UpdateReceptionAppointment(c *gin.Context) {
	var req ReceptionUpdateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	upd := services.StatusUpdate{
		AppointmentID: c.Param("id"),
		Status:        req.Status,
	}
	if req.BillAmount != nil {
		upd.Bill = &services.BillUpdate{Amount: *req.BillAmount, Status: models.BillStatus(req.BillStatus)}
	}

	appointment, err := h.Appointments.UpdateStatus(c.Request.Context(), upd)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", appointment)
}

// ReceptionBookingRequest represents a walk-in booking made at the desk.
type ReceptionBookingRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	DoctorID  string `json:"doctor_id" binding:"required"`
	Date      string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time      string `json:"time" binding:"required,datetime=15:04"`
	Reason    string `json:"reason"`
}

// CreateReceptionAppointment books an appointment on behalf of a patient. The date
// defaults to today.
func (h *AppointmentHandler) CreateReceptionAppointment(c *gin.Context) {
	var req ReceptionBookingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	date := req.Date
	if date == "" {
		date = utils.Today()
	}

	appointment, err := h.Appointments.Book(c.Request.Context(), services.BookingInput{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		ReceptionistID:  user.ID,
		AppointmentDate: date,
		AppointmentTime: req.Time,
		Reason:          req.Reason,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appointment)
}

// GetPatientAppointments returns a patient's appointments, newest first.
func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	views := []models.AppointmentView{}
	err := h.viewQuery(c).
		Where("a.patient_id = ?", c.Param("id")).
		Order("a.appointment_date desc, a.appointment_time desc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch appointments", err))
		return
	}
	utils.Success(c, "Appointments fetched successfully", views)
}

// PatientBookingRequest represents a patient's booking form.
type PatientBookingRequest struct {
	DoctorID        string `json:"doctor_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointment_time" binding:"required,datetime=15:04"`
	Reason          string `json:"reason"`
}

// BookPatientAppointment books a pending appointment for the patient in the path.
func (h *AppointmentHandler) BookPatientAppointment(c *gin.Context) {
	var req PatientBookingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Appointments.Book(c.Request.Context(), services.BookingInput{
		PatientID:       c.Param("id"),
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Reason:          req.Reason,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Appointment booked successfully", appointment)
}
