package models

import "time"

// Doctor is the role-detail row for a doctor Account. DoctorID is both the primary key
// and the foreign key to users.id.
type Doctor struct {
	DoctorID       string    `gorm:"primaryKey;type:varchar(36)" json:"doctorId"`
	Specialization string    `gorm:"size:100" json:"specialization"`
	Qualification  string    `gorm:"size:100" json:"qualification"`
	AvailableDays  string    `gorm:"size:100" json:"availableDays"`
	Timings        string    `gorm:"size:100" json:"timings"`
	RoomNumber     string    `gorm:"size:20" json:"roomNumber"`
	Photo          string    `gorm:"size:255" json:"photo,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// Staff is the role-detail row for a staff Account, keyed like Doctor.
type Staff struct {
	StaffID    string    `gorm:"primaryKey;type:varchar(36)" json:"staffId"`
	Position   string    `gorm:"size:100" json:"position"`
	Shift      string    `gorm:"size:50" json:"shift"`
	Department string    `gorm:"size:100" json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:StaffID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the table singular, as the schema has always named it.
func (Staff) TableName() string {
	return "staff"
}

// RoleDetail is a role-specific row that shares its owner's account id.
type RoleDetail interface {
	OwnerRole() Role
	SetAccountID(id string)
}

func (d *Doctor) OwnerRole() Role { return RoleDoctor }

func (d *Doctor) SetAccountID(id string) { d.DoctorID = id }

func (s *Staff) OwnerRole() Role { return RoleStaff }

func (s *Staff) SetAccountID(id string) { s.StaffID = id }
