package handlers

import (
	"errors"
	"sort"
	"time"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MessageHandler handles messages, notifications and announcements.
type MessageHandler struct {
	DB *gorm.DB
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{DB: db}
}

func (h *MessageHandler) inbox(c *gin.Context, userID string) {
	views := []models.MessageView{}
	err := h.DB.WithContext(c.Request.Context()).Table("messages m").
		Select("m.id, m.from_id, u.name AS from_name, m.subject, m.message, m.created_at").
		Joins("LEFT JOIN users u ON u.id = m.from_id").
		Where("m.to_id = ?", userID).
		Order("m.created_at desc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch messages", err))
		return
	}
	utils.Success(c, "Messages fetched successfully", views)
}

// GetMyMessages returns the messages received by the logged-in account.
func (h *MessageHandler) GetMyMessages(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	h.inbox(c, user.ID)
}

// GetPatientMessages returns the messages received by the patient in the path.
func (h *MessageHandler) GetPatientMessages(c *gin.Context) {
	h.inbox(c, c.Param("id"))
}

// PatientMessageRequest represents a patient's message to a doctor.
type PatientMessageRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
	Subject  string `json:"subject"`
	Message  string `json:"message" binding:"required"`
}

// SendPatientMessage sends a message from the patient in the path to a doctor.
func (h *MessageHandler) SendPatientMessage(c *gin.Context) {
	var req PatientMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	db := h.DB.WithContext(c.Request.Context())
	if err := services.RequireAccount(db, req.DoctorID, models.RoleDoctor); err != nil {
		utils.RespondError(c, err)
		return
	}

	message := models.Message{
		FromID:  c.Param("id"),
		ToID:    req.DoctorID,
		Subject: req.Subject,
		Body:    req.Message,
	}
	if err := db.Create(&message).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to send message", err))
		return
	}
	utils.Created(c, "Message sent successfully", message)
}

// StaffMessageRequest represents a staff member's message to the administration.
type StaffMessageRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// SendStaffMessage sends a message from the logged-in account to the first admin.
func (h *MessageHandler) SendStaffMessage(c *gin.Context) {
	var req StaffMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	db := h.DB.WithContext(c.Request.Context())

	var admin models.User
	if err := db.Where("role = ?", models.RoleAdmin).Order("created_at asc").First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "No admin available")
			return
		}
		utils.RespondError(c, utils.NewInternalError("Error sending message", err))
		return
	}

	message := models.Message{
		FromID:  user.ID,
		ToID:    admin.ID,
		Subject: req.Subject,
		Body:    req.Message,
	}
	if err := db.Create(&message).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error sending message", err))
		return
	}
	utils.Created(c, "Message sent to admin successfully", message)
}

// NotificationView is a patient notification or a hospital-wide announcement.
type NotificationView struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetPatientNotifications returns the patient's own notifications merged with every
// announcement, newest first.
func (h *MessageHandler) GetPatientNotifications(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())

	var notifications []models.Notification
	if err := db.Where("patient_id = ?", c.Param("id")).Find(&notifications).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch notifications", err))
		return
	}
	var announcements []models.Announcement
	if err := db.Find(&announcements).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch notifications", err))
		return
	}

	views := make([]NotificationView, 0, len(notifications)+len(announcements))
	for _, n := range notifications {
		views = append(views, NotificationView{ID: n.ID, Message: n.Message, IsRead: n.IsRead, Source: "notification", CreatedAt: n.CreatedAt})
	}
	for _, a := range announcements {
		views = append(views, NotificationView{ID: a.ID, Message: a.Title + ": " + a.Content, Source: "announcement", CreatedAt: a.CreatedAt})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	utils.Success(c, "Notifications fetched successfully", views)
}

// ListAnnouncements returns every announcement, newest first.
func (h *MessageHandler) ListAnnouncements(c *gin.Context) {
	announcements := []models.Announcement{}
	if err := h.DB.WithContext(c.Request.Context()).Order("created_at desc").Find(&announcements).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching announcements", err))
		return
	}
	utils.Success(c, "Announcements fetched successfully", announcements)
}

// AnnouncementRequest represents an admin announcement.
type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreateAnnouncement posts an announcement visible to every account.
func (h *MessageHandler) CreateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	announcement := models.Announcement{Title: req.Title, Content: req.Content}
	if err := h.DB.WithContext(c.Request.Context()).Create(&announcement).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error adding announcement", err))
		return
	}
	utils.Created(c, "Announcement posted successfully", announcement)
}
