package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RolePatient      Role = "patient"
	RoleReceptionist Role = "receptionist"
	RolePharmacist   Role = "pharmacist"
	RoleStaff        Role = "staff"
)

// StaffRoles are the non-clinical roles counted as staff on the admin dashboard.
var StaffRoles = []Role{RoleReceptionist, RolePharmacist, RoleStaff}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient, RoleReceptionist, RolePharmacist, RoleStaff:
		return true
	}
	return false
}

// DashboardPath is where the front-end sends a user with this role after login.
func (r Role) DashboardPath() string {
	switch r {
	case RoleDoctor:
		return "/doctor-dashboard.html"
	case RolePatient:
		return "/patient-dashboard.html"
	case RoleAdmin:
		return "/admin-dashboard.html"
	case RoleReceptionist:
		return "/receptionist-dashboard.html"
	case RolePharmacist:
		return "/pharmacist-dashboard.html"
	case RoleStaff:
		return "/staff-dashboard.html"
	}
	return "/"
}

// User is an Account: one row per person, whatever their role.
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password     string `gorm:"size:255" json:"-"` // Never send password in JSON
	Role         Role   `gorm:"size:20;index;not null" json:"role"`
	Phone        string `gorm:"size:30" json:"phone"`
	Gender       string `gorm:"size:20" json:"gender"`
	DOB          string `gorm:"column:dob;size:10" json:"dob"`
	Address      string `gorm:"size:255" json:"address"`
	ProfileImage string `gorm:"size:255" json:"profileImage,omitempty"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	Address      string `json:"address"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password. Accounts created
// without a password (patients registered at reception) never match.
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Gender:       u.Gender,
		DOB:          u.DOB,
		Address:      u.Address,
		ProfileImage: u.ProfileImage,
	}
}

// ProfileCompletion is the percentage of the patient-facing profile fields that are set.
func (u *User) ProfileCompletion() int {
	fields := []string{u.Name, u.Email, u.Phone, u.DOB, u.Gender, u.Address}
	filled := 0
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}
