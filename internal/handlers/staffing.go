package handlers

import (
	"time"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StaffingHandler handles staff tasks, the duty roster and doctor schedules.
type StaffingHandler struct {
	DB *gorm.DB
}

// NewStaffingHandler creates a new StaffingHandler.
func NewStaffingHandler(db *gorm.DB) *StaffingHandler {
	return &StaffingHandler{DB: db}
}

// TaskView is a task with the assignee's name.
type TaskView struct {
	models.StaffTask
	StaffName string `json:"staffName"`
}

// DutyView is a roster entry with the assignee's name.
type DutyView struct {
	models.StaffDuty
	StaffName string `json:"staffName"`
}

// ScheduleView is a schedule slot with the doctor's name.
type ScheduleView struct {
	models.DoctorSchedule
	DoctorName string `json:"doctorName"`
}

// ListTasks returns every staff task, earliest deadline first.
func (h *StaffingHandler) ListTasks(c *gin.Context) {
	views := []TaskView{}
	err := h.DB.WithContext(c.Request.Context()).Table("staff_tasks t").
		Select("t.*, u.name AS staff_name").
		Joins("JOIN users u ON u.id = t.user_id").
		Order("t.deadline asc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching tasks", err))
		return
	}
	utils.Success(c, "Tasks fetched successfully", views)
}

// TaskRequest represents a task assignment.
type TaskRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	TaskName string `json:"task_name" binding:"required"`
	Deadline string `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
}

// CreateTask assigns a pending task to a staff account.
func (h *StaffingHandler) CreateTask(c *gin.Context) {
	var req TaskRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	db := h.DB.WithContext(c.Request.Context())
	if err := requireStaffAccount(db, req.UserID); err != nil {
		utils.RespondError(c, err)
		return
	}

	task := models.StaffTask{
		UserID:   req.UserID,
		TaskName: req.TaskName,
		Deadline: req.Deadline,
		Status:   models.TaskPending,
	}
	if err := db.Create(&task).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error adding task", err))
		return
	}
	utils.Created(c, "Task added successfully", task)
}

// TaskStatusRequest represents a task progress update.
type TaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress completed"`
}

// UpdateTask changes the status of the task in the path.
func (h *StaffingHandler) UpdateTask(c *gin.Context) {
	var req TaskStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	db := h.DB.WithContext(c.Request.Context())

	var task models.StaffTask
	if err := db.First(&task, "id = ?", c.Param("id")).Error; err != nil {
		utils.RespondError(c, utils.StoreError(err, "Error updating task"))
		return
	}
	if err := db.Model(&task).Update("status", models.TaskStatus(req.Status)).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error updating task", err))
		return
	}
	utils.Success(c, "Task updated successfully", task)
}

// ListDuties returns the whole duty roster, earliest first.
func (h *StaffingHandler) ListDuties(c *gin.Context) {
	views := []DutyView{}
	err := h.DB.WithContext(c.Request.Context()).Table("staff_duty d").
		Select("d.*, u.name AS staff_name").
		Joins("JOIN users u ON u.id = d.user_id").
		Order("d.duty_date asc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching duties", err))
		return
	}
	utils.Success(c, "Duties fetched successfully", views)
}

// DutyRequest represents a roster assignment.
type DutyRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	DutyDate     string `json:"duty_date" binding:"required,datetime=2006-01-02"`
	Shift        string `json:"shift"`
	Department   string `json:"department"`
	RoleAssigned string `json:"role_assigned"`
}

// CreateDuty adds a shift to the roster.
func (h *StaffingHandler) CreateDuty(c *gin.Context) {
	var req DutyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	db := h.DB.WithContext(c.Request.Context())
	if err := requireStaffAccount(db, req.UserID); err != nil {
		utils.RespondError(c, err)
		return
	}

	duty := models.StaffDuty{
		UserID:       req.UserID,
		DutyDate:     req.DutyDate,
		Shift:        req.Shift,
		Department:   req.Department,
		RoleAssigned: req.RoleAssigned,
	}
	if err := db.Create(&duty).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error assigning duty", err))
		return
	}
	utils.Created(c, "Duty assigned successfully", duty)
}

// ListSchedules returns every doctor schedule slot.
func (h *StaffingHandler) ListSchedules(c *gin.Context) {
	views := []ScheduleView{}
	err := h.DB.WithContext(c.Request.Context()).Table("doctor_schedule s").
		Select("s.*, u.name AS doctor_name").
		Joins("JOIN users u ON u.id = s.doctor_id").
		Order("u.name asc, s.day asc, s.start_time asc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch schedules", err))
		return
	}
	utils.Success(c, "Schedules fetched successfully", views)
}

// ScheduleRequest represents a weekly slot for a doctor.
type ScheduleRequest struct {
	DoctorID  string `json:"doctor_id" binding:"required"`
	Day       string `json:"day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time" binding:"required,datetime=15:04"`
	Room      string `json:"room"`
}

// CreateSchedule adds a weekly slot for a doctor.
func (h *StaffingHandler) CreateSchedule(c *gin.Context) {
	var req ScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	start, startErr := time.Parse(utils.TimeLayout, req.StartTime)
	end, endErr := time.Parse(utils.TimeLayout, req.EndTime)
	if startErr != nil || endErr != nil || !end.After(start) {
		utils.BadRequest(c, "Validation failed", "end_time must be after start_time")
		return
	}
	db := h.DB.WithContext(c.Request.Context())
	if err := services.RequireAccount(db, req.DoctorID, models.RoleDoctor); err != nil {
		utils.RespondError(c, err)
		return
	}

	schedule := models.DoctorSchedule{
		DoctorID:  req.DoctorID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	if err := db.Create(&schedule).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to add schedule", err))
		return
	}
	utils.Created(c, "Schedule added successfully", schedule)
}

func requireStaffAccount(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ? AND role IN ?", id, models.StaffRoles).Count(&count).Error; err != nil {
		return utils.NewInternalError("Failed to verify staff member", err)
	}
	if count == 0 {
		return utils.NewNotFoundError("Staff member not found")
	}
	return nil
}
