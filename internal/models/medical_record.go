package models

import (
	"time"
)

// Prescription is written by a doctor for a patient, optionally against an appointment.
type Prescription struct {
	BaseModel
	AppointmentID    string    `gorm:"size:36;index" json:"appointmentId,omitempty"`
	DoctorID         string    `gorm:"size:36;index;not null" json:"doctorId"`
	PatientID        string    `gorm:"size:36;index;not null" json:"patientId"`
	PrescriptionDate time.Time `gorm:"index" json:"prescriptionDate"`
	Diagnosis        string    `gorm:"type:text" json:"diagnosis"`
	Medicines        string    `gorm:"type:text" json:"medicines"`
	Instructions     string    `gorm:"type:text" json:"instructions,omitempty"`
	Notes            string    `gorm:"type:text" json:"notes,omitempty"`
}

// PrescriptionView adds the counterpart's name to a prescription.
type PrescriptionView struct {
	Prescription
	PatientName string `json:"patientName,omitempty"`
	DoctorName  string `json:"doctorName,omitempty"`
}

// LabTestStatus is the processing state of a lab test.
type LabTestStatus string

const (
	LabTestPending   LabTestStatus = "pending"
	LabTestCompleted LabTestStatus = "completed"
)

// LabTestType is a catalogue entry, e.g. "Complete Blood Count".
type LabTestType struct {
	BaseModel
	TypeName string `gorm:"size:100;uniqueIndex;not null" json:"typeName"`
}

// LabTest is ordered by a doctor for a patient.
type LabTest struct {
	BaseModel
	PatientID  string        `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID   string        `gorm:"size:36;index;not null" json:"doctorId"`
	TypeID     string        `gorm:"size:36;index;not null" json:"typeId"`
	TestDate   string        `gorm:"size:10" json:"testDate"`
	ReportDate string        `gorm:"size:10" json:"reportDate,omitempty"`
	Status     LabTestStatus `gorm:"size:20;default:'pending'" json:"status"`
	Findings   string        `gorm:"type:text" json:"findings,omitempty"`
	ValuesJSON string        `gorm:"type:text" json:"valuesJson,omitempty"`
}

// LabTestView adds the test type and names to a lab test.
type LabTestView struct {
	LabTest
	TestType    string `json:"testType"`
	PatientName string `json:"patientName,omitempty"`
	DoctorName  string `json:"doctorName,omitempty"`
}

// MedicalRecord represents one visit in a patient's medical history
type MedicalRecord struct {
	BaseModel
	PatientID   string `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID    string `gorm:"size:36;index" json:"doctorId"`
	VisitDate   string `gorm:"size:10;index" json:"visitDate"`
	Diagnosis   string `gorm:"type:text" json:"diagnosis"`
	Treatment   string `gorm:"type:text" json:"treatment"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`
	Attachments string `gorm:"type:text" json:"attachments,omitempty"`
}
