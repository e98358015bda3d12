package handlers

import (
	"errors"
	"net/http"

	"hospital-management-server/internal/logger"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/session"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and the session lifecycle.
type AuthHandler struct {
	DB       *gorm.DB
	Accounts *services.AccountService
	Sessions *session.Manager
	Log      *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, accounts *services.AccountService, sessions *session.Manager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Accounts: accounts, Sessions: sessions, Log: log}
}

// RegisterRequest represents the request body for patient self-registration.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Phone    string `json:"phone" form:"phone" binding:"required"`
	Gender   string `json:"gender" form:"gender"`
	DOB      string `json:"dob" form:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address  string `json:"address" form:"address"`
}

// Register creates a patient account. The role is never taken from the request.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	id, err := h.Accounts.CreatePersonWithRole(c.Request.Context(), services.AccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Gender:   req.Gender,
		DOB:      req.DOB,
		Address:  req.Address,
	}, nil, models.RolePatient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "Registration successful", gin.H{"id": id})
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse carries the account and the dashboard the front-end should open.
type LoginResponse struct {
	User     models.UserSanitized `json:"user"`
	Redirect string               `json:"redirect"`
}

// Login verifies the credentials and starts a session carrying the account's role.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.Log.Audit("", "login", "session", false, map[string]interface{}{"email": req.Email})
			utils.Unauthorized(c, "Invalid credentials")
			return
		}
		utils.RespondError(c, utils.NewInternalError("Login error", err))
		return
	}

	if !user.CheckPassword(req.Password) {
		h.Log.Audit(user.ID, "login", "session", false, nil)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if _, err := h.Sessions.Start(c, session.FromAccount(&user)); err != nil {
		utils.RespondError(c, utils.NewInternalError("Login error", err))
		return
	}

	h.Log.Audit(user.ID, "login", "session", true, map[string]interface{}{"role": user.Role})
	utils.Success(c, "Login successful", LoginResponse{
		User:     user.Sanitize(),
		Redirect: user.Role.DashboardPath(),
	})
}

// Logout destroys the session and sends the browser back to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := middleware.GetSessionToken(c)
	if err := h.Sessions.Destroy(c, token); err != nil {
		utils.RespondError(c, utils.NewInternalError("Could not log out", err))
		return
	}
	if user, ok := middleware.GetSessionUser(c); ok {
		h.Log.Audit(user.ID, "logout", "session", true, nil)
	}
	c.Redirect(http.StatusFound, "/login.html")
}

// Session returns the projection stored in the current session.
func (h *AuthHandler) Session(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	utils.Success(c, "Session fetched successfully", gin.H{"user": user})
}

// Me returns the id, role and name of the logged-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	utils.Success(c, "Account fetched successfully", gin.H{
		"id":   user.ID,
		"role": user.Role,
		"name": user.Name,
	})
}

// ResetPasswordRequest represents the request body for a password change.
type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" form:"newPassword" binding:"required,min=6"`
}

// ResetPassword replaces the password of the logged-in account. The email must be the
// session's own.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	if req.Email != user.Email {
		utils.Forbidden(c, "You can only reset your own password")
		return
	}

	var account models.User
	if err := account.SetPassword(req.NewPassword); err != nil {
		utils.RespondError(c, utils.NewInternalError("Error resetting password", err))
		return
	}
	res := h.DB.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("id = ? AND email = ?", user.ID, req.Email).
		Update("password", account.Password)
	if res.Error != nil {
		utils.RespondError(c, utils.NewInternalError("Error resetting password", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Email not found")
		return
	}

	h.Log.Audit(user.ID, "reset_password", "account", true, nil)
	utils.Success(c, "Password reset successfully", nil)
}
