package models

// TaskStatus is the progress of a staff task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// StaffTask is assigned by an admin to a staff account.
type StaffTask struct {
	BaseModel
	UserID   string     `gorm:"size:36;index;not null" json:"userId"`
	TaskName string     `gorm:"size:255;not null" json:"taskName"`
	Deadline string     `gorm:"size:10" json:"deadline"`
	Status   TaskStatus `gorm:"size:20;default:'pending'" json:"status"`
}

// StaffDuty is one shift on the duty roster.
type StaffDuty struct {
	BaseModel
	UserID       string `gorm:"size:36;index;not null" json:"userId"`
	DutyDate     string `gorm:"size:10;index" json:"dutyDate"`
	Shift        string `gorm:"size:50" json:"shift"`
	Department   string `gorm:"size:100" json:"department"`
	RoleAssigned string `gorm:"size:100" json:"roleAssigned"`
}

// TableName keeps the roster table name the dashboards query.
func (StaffDuty) TableName() string {
	return "staff_duty"
}

// DoctorSchedule is a recurring weekly slot for a doctor.
type DoctorSchedule struct {
	BaseModel
	DoctorID  string `gorm:"size:36;index;not null" json:"doctorId"`
	Day       string `gorm:"size:20" json:"day"`
	StartTime string `gorm:"size:8" json:"startTime"`
	EndTime   string `gorm:"size:8" json:"endTime"`
	Room      string `gorm:"size:20" json:"room"`
}

// TableName keeps the schedule table name the dashboards query.
func (DoctorSchedule) TableName() string {
	return "doctor_schedule"
}
