package models

import (
	"time"
)

// Message represents a message between users
type Message struct {
	BaseModel
	FromID  string `gorm:"size:36;index;not null" json:"fromId"`
	ToID    string `gorm:"size:36;index;not null" json:"toId"`
	Subject string `gorm:"size:255" json:"subject,omitempty"`
	Body    string `gorm:"column:message;type:text;not null" json:"message"`
}

// MessageView is a received message with the sender's name.
type MessageView struct {
	ID        string    `json:"id"`
	FromID    string    `json:"fromId"`
	FromName  string    `json:"fromName"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is addressed to one patient.
type Notification struct {
	BaseModel
	PatientID string `gorm:"size:36;index;not null" json:"patientId"`
	Message   string `gorm:"type:text;not null" json:"message"`
	IsRead    bool   `gorm:"default:false" json:"isRead"`
}

// Announcement is posted by an admin and shown to everyone.
type Announcement struct {
	BaseModel
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
}
