package services

import (
	"context"
	"errors"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingInput describes a new appointment.
type BookingInput struct {
	PatientID       string
	DoctorID        string
	ReceptionistID  string
	AppointmentDate string
	AppointmentTime string
	Reason          string
}

// StatusUpdate moves one appointment to a new status. A non-empty DoctorID restricts the
// update to that doctor's appointments.
type StatusUpdate struct {
	AppointmentID string
	DoctorID      string
	Status        string
	Bill          *BillUpdate
}

// BillUpdate creates or replaces the bill attached to an appointment.
type BillUpdate struct {
	Amount float64
	Status models.BillStatus
}

// AppointmentService books appointments and applies status transitions.
type AppointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// Book creates a pending appointment after checking both participants exist with the
// expected roles.
func (s *AppointmentService) Book(ctx context.Context, in BookingInput) (*models.Appointment, error) {
	db := s.db.WithContext(ctx)
	if err := RequireAccount(db, in.DoctorID, models.RoleDoctor); err != nil {
		return nil, err
	}
	if err := RequireAccount(db, in.PatientID, models.RolePatient); err != nil {
		return nil, err
	}

	appointment := models.Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		ReceptionistID:  in.ReceptionistID,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		Reason:          in.Reason,
		Status:          models.StatusPending,
	}
	if err := db.Create(&appointment).Error; err != nil {
		return nil, utils.NewInternalError("Failed to create appointment", err)
	}
	return &appointment, nil
}

// UpdateStatus applies a status transition. An id that does not match an appointment in
// the caller's scope is reported as not found and changes nothing; a transition out of a
// terminal status is a conflict.
func (s *AppointmentService) UpdateStatus(ctx context.Context, upd StatusUpdate) (*models.Appointment, error) {
	next, err := models.ParseAppointmentStatus(upd.Status)
	if err != nil {
		return nil, utils.NewValidationError("Invalid data", "status must be one of pending, in_progress, completed, cancelled")
	}

	var appointment models.Appointment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", upd.AppointmentID)
		if upd.DoctorID != "" {
			q = q.Where("doctor_id = ?", upd.DoctorID)
		}
		if err := q.First(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("Appointment not found")
			}
			return utils.NewInternalError("Update failed", err)
		}

		current := appointment.Status
		if !current.CanTransitionTo(next) {
			return utils.NewConflictError("Cannot change a "+string(current)+" appointment to "+string(next), nil)
		}

		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointment.ID, current).
			Update("status", next)
		if res.Error != nil {
			return utils.NewInternalError("Update failed", res.Error)
		}
		if res.RowsAffected == 0 && current != next {
			return utils.NewConflictError("Appointment was changed by someone else, reload and retry", nil)
		}
		appointment.Status = next

		if upd.Bill != nil {
			return upsertBill(tx, &appointment, *upd.Bill)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// upsertBill creates the appointment's bill or updates its amount. The stored status is
// only replaced when upd carries one; a new bill without a status starts unpaid.
func upsertBill(tx *gorm.DB, appointment *models.Appointment, upd BillUpdate) error {
	status := upd.Status
	columns := []string{"amount", "updated_at"}
	if status == "" {
		status = models.BillUnpaid
	} else {
		columns = append(columns, "status")
	}
	today := utils.Today()
	appointmentID := appointment.ID
	bill := models.Bill{
		PatientID:     appointment.PatientID,
		AppointmentID: &appointmentID,
		Amount:        upd.Amount,
		Status:        status,
		BillDate:      today,
		DueDate:       today,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "appointment_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&bill).Error
	if err != nil {
		return utils.NewInternalError("Failed to update bill", err)
	}
	return nil
}

// RequireAccount reports a not-found error unless an account with id has the given role.
func RequireAccount(db *gorm.DB, id string, role models.Role) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ? AND role = ?", id, role).Count(&count).Error; err != nil {
		return utils.NewInternalError("Failed to verify "+string(role), err)
	}
	if count == 0 {
		return utils.NewNotFoundError(capitalize(string(role)) + " not found")
	}
	return nil
}
