package models

import (
	"fmt"
	"strings"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// appointmentTransitions lists, per current status, the statuses it may move to.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusPending, StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusCompleted},
	StatusCancelled:  {StatusCancelled},
}

// ParseAppointmentStatus accepts the canonical values as well as the labels the
// reception and doctor dashboards have historically sent ("Waiting", "In Progress",
// "Cancelled").
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "pending", "waiting":
		return StatusPending, nil
	case "in_progress", "inprogress":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	case "cancelled", "canceled":
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// CanTransitionTo reports whether an appointment in status s may be moved to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no other status can follow s.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment links a patient and a doctor, optionally booked by a receptionist.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index;not null" json:"doctorId"`
	ReceptionistID  string            `gorm:"size:36" json:"receptionistId,omitempty"`
	AppointmentDate string            `gorm:"size:10;index" json:"appointmentDate"`
	AppointmentTime string            `gorm:"size:8" json:"appointmentTime"`
	Reason          string            `gorm:"size:255" json:"reason"`
	Status          AppointmentStatus `gorm:"size:20;default:'pending'" json:"status"`
}

// AppointmentView is an appointment joined with the names of the people involved.
type AppointmentView struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patientId"`
	DoctorID        string            `json:"doctorId"`
	ReceptionistID  string            `json:"receptionistId,omitempty"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Reason          string            `json:"reason"`
	Status          AppointmentStatus `json:"status"`
	PatientName     string            `json:"patientName,omitempty"`
	DoctorName      string            `json:"doctorName,omitempty"`
	Specialization  string            `json:"specialization,omitempty"`
	BillAmount      *float64          `json:"billAmount,omitempty"`
	BillStatus      *string           `json:"billStatus,omitempty"`
}
