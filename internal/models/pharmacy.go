package models

// Medicine is a stock line managed by pharmacists.
type Medicine struct {
	BaseModel
	Name       string  `gorm:"size:150;not null" json:"name"`
	Quantity   int     `gorm:"not null;default:0" json:"quantity"`
	Category   string  `gorm:"size:100" json:"category"`
	Price      float64 `json:"price"`
	ExpiryDate string  `gorm:"size:10;index" json:"expiryDate"`
	Company    string  `gorm:"size:150" json:"company"`
	AddedBy    string  `gorm:"size:36" json:"addedBy"`
}

// BillStatus is whether a bill has been settled.
type BillStatus string

const (
	BillUnpaid BillStatus = "unpaid"
	BillPaid   BillStatus = "paid"
)

// Bill is what a patient owes, at most one per appointment.
type Bill struct {
	BaseModel
	PatientID     string     `gorm:"size:36;index;not null" json:"patientId"`
	AppointmentID *string    `gorm:"size:36;uniqueIndex" json:"appointmentId,omitempty"`
	Amount        float64    `json:"amount"`
	Status        BillStatus `gorm:"size:20;default:'unpaid'" json:"status"`
	BillDate      string     `gorm:"size:10" json:"billDate"`
	DueDate       string     `gorm:"size:10" json:"dueDate"`
}
