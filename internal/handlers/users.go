package handlers

import (
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler handles account and profile requests for every role.
type UserHandler struct {
	DB        *gorm.DB
	Accounts  *services.AccountService
	UploadDir string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB, accounts *services.AccountService, uploadDir string) *UserHandler {
	return &UserHandler{DB: db, Accounts: accounts, UploadDir: uploadDir}
}

// DoctorView is a doctor account joined with its detail row.
type DoctorView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Gender         string `json:"gender,omitempty"`
	DOB            string `json:"dob,omitempty"`
	Address        string `json:"address,omitempty"`
	Specialization string `json:"specialization"`
	Qualification  string `json:"qualification"`
	AvailableDays  string `json:"availableDays"`
	Timings        string `json:"timings"`
	RoomNumber     string `json:"roomNumber"`
	Photo          string `json:"photo,omitempty"`
}

// StaffView is a staff account joined with its detail row.
type StaffView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Gender     string `json:"gender"`
	DOB        string `json:"dob"`
	Address    string `json:"address"`
	Position   string `json:"position"`
	Shift      string `json:"shift"`
	Department string `json:"department"`
}

// ProfileRequest represents the editable account fields of the logged-in user.
type ProfileRequest struct {
	Name    string `json:"name" form:"name" binding:"required"`
	Email   string `json:"email" form:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" form:"phone"`
	Gender  string `json:"gender" form:"gender"`
	DOB     string `json:"dob" form:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address string `json:"address" form:"address"`
}

func (r ProfileRequest) updates(withEmail bool) map[string]interface{} {
	updates := map[string]interface{}{
		"name":    r.Name,
		"phone":   r.Phone,
		"gender":  r.Gender,
		"dob":     r.DOB,
		"address": r.Address,
	}
	if withEmail && r.Email != "" {
		updates["email"] = r.Email
	}
	return updates
}

// GetOwnProfile returns the logged-in account, which must have the given role.
func (h *UserHandler) GetOwnProfile(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.GetSessionUser(c)
		account, err := h.Accounts.FindAccount(c.Request.Context(), user.ID, role)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, "Profile fetched successfully", account.Sanitize())
	}
}

// UpdateOwnProfile overwrites the logged-in account's profile. withEmail controls
// whether the role may change its login email from this screen.
func (h *UserHandler) UpdateOwnProfile(role models.Role, withEmail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfileRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		user, _ := middleware.GetSessionUser(c)
		if err := h.Accounts.UpdateAccountProfile(c.Request.Context(), user.ID, role, req.updates(withEmail)); err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.Success(c, "Profile updated successfully", nil)
	}
}

// GetPatient returns the patient account named in the path.
func (h *UserHandler) GetPatient(c *gin.Context) {
	account, err := h.Accounts.FindAccount(c.Request.Context(), c.Param("id"), models.RolePatient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Patient fetched successfully", account.Sanitize())
}

// UpdatePatient updates the patient's profile and, when a "profileImage" file is
// uploaded, their photo.
func (h *UserHandler) UpdatePatient(c *gin.Context) {
	var req ProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	patientID := c.Param("id")

	updates := req.updates(true)
	upload, err := profileImage(c, string(models.RolePatient), patientID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if upload != nil {
		updates["profile_image"] = upload.URL()
	}

	ctx := c.Request.Context()
	if err := h.Accounts.UpdateAccountProfile(ctx, patientID, models.RolePatient, updates); err != nil {
		utils.RespondError(c, err)
		return
	}
	if upload != nil {
		if err := upload.save(c, h.UploadDir); err != nil {
			utils.RespondError(c, err)
			return
		}
	}
	account, err := h.Accounts.FindAccount(ctx, patientID, models.RolePatient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile updated successfully", account.Sanitize())
}

// GetDoctorProfile returns the logged-in doctor's account and detail row. The detail
// fields are empty until the doctor saves a profile.
func (h *UserHandler) GetDoctorProfile(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	var views []DoctorView
	err := h.doctorQuery(c, true).Where("u.id = ?", user.ID).Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to load profile", err))
		return
	}
	if len(views) == 0 {
		utils.NotFound(c, "No profile found")
		return
	}
	utils.Success(c, "Profile fetched successfully", views[0])
}

// DoctorProfileRequest represents the doctor-detail fields of the profile form.
type DoctorProfileRequest struct {
	Specialization string `json:"specialization" form:"specialization"`
	Qualification  string `json:"qualification" form:"qualification"`
	AvailableDays  string `json:"available_days" form:"available_days"`
	Timings        string `json:"timings" form:"timings"`
	RoomNumber     string `json:"room_number" form:"room_number"`
}

// UpdateDoctorProfile upserts the doctor's detail row. Saving twice updates the same row.
func (h *UserHandler) UpdateDoctorProfile(c *gin.Context) {
	var req DoctorProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)

	upload, err := profileImage(c, string(models.RoleDoctor), user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	profile := models.Doctor{
		Specialization: req.Specialization,
		Qualification:  req.Qualification,
		AvailableDays:  req.AvailableDays,
		Timings:        req.Timings,
		RoomNumber:     req.RoomNumber,
	}
	if upload != nil {
		profile.Photo = upload.URL()
	}

	if err := h.Accounts.UpsertDoctorProfile(c.Request.Context(), user.ID, profile); err != nil {
		utils.RespondError(c, err)
		return
	}
	if upload != nil {
		if err := upload.save(c, h.UploadDir); err != nil {
			utils.RespondError(c, err)
			return
		}
	}
	utils.Success(c, "Profile updated successfully", nil)
}

// ListDoctors returns the doctor directory shown to logged-in users.
func (h *UserHandler) ListDoctors(c *gin.Context) {
	views := []DoctorView{}
	if err := h.doctorQuery(c, false).Order("u.name asc").Scan(&views).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch doctors", err))
		return
	}
	utils.Success(c, "Doctors fetched successfully", views)
}

// AdminListDoctors returns every doctor with contact details.
func (h *UserHandler) AdminListDoctors(c *gin.Context) {
	views := []DoctorView{}
	if err := h.doctorQuery(c, true).Order("u.name asc").Scan(&views).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching doctors", err))
		return
	}
	utils.Success(c, "Doctors fetched successfully", views)
}

// doctorQuery selects doctor accounts left-joined with their detail rows.
func (h *UserHandler) doctorQuery(c *gin.Context, withContact bool) *gorm.DB {
	columns := "u.id AS id, u.name AS name, d.specialization, d.qualification, d.available_days, d.timings, d.room_number, d.photo"
	if withContact {
		columns += ", u.email, u.phone, u.gender, u.dob, u.address"
	}
	return h.DB.WithContext(c.Request.Context()).Table("users u").
		Select(columns).
		Joins("LEFT JOIN doctors d ON d.doctor_id = u.id").
		Where("u.role = ?", models.RoleDoctor)
}

// CreateDoctorRequest represents the admin form for a new doctor.
type CreateDoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Phone          string `json:"phone"`
	Gender         string `json:"gender"`
	DOB            string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address        string `json:"address"`
	Specialization string `json:"specialization" binding:"required"`
	Qualification  string `json:"qualification"`
	AvailableDays  string `json:"available_days"`
	Timings        string `json:"timings"`
	RoomNumber     string `json:"room_number"`
	Photo          string `json:"photo"`
}

// CreateDoctor creates the doctor account and its detail row together.
func (h *UserHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
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
	}, &models.Doctor{
		Specialization: req.Specialization,
		Qualification:  req.Qualification,
		AvailableDays:  req.AvailableDays,
		Timings:        req.Timings,
		RoomNumber:     req.RoomNumber,
		Photo:          req.Photo,
	}, models.RoleDoctor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Doctor added successfully", gin.H{"id": id})
}

// DeleteDoctor removes a doctor account and its detail row.
func (h *UserHandler) DeleteDoctor(c *gin.Context) {
	if err := h.Accounts.DeletePersonWithRole(c.Request.Context(), c.Param("id"), models.RoleDoctor); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Doctor deleted successfully", nil)
}

// ListStaff returns every staff account with its detail row.
func (h *UserHandler) ListStaff(c *gin.Context) {
	views := []StaffView{}
	err := h.DB.WithContext(c.Request.Context()).Table("staff s").
		Select("u.id AS id, u.name, u.email, u.phone, u.gender, u.dob, u.address, s.position, s.shift, s.department").
		Joins("JOIN users u ON u.id = s.staff_id").
		Order("u.name asc").
		Scan(&views).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching staff", err))
		return
	}
	utils.Success(c, "Staff fetched successfully", views)
}

// CreateStaffRequest represents the admin form for a new staff member.
type CreateStaffRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone"`
	Gender     string `json:"gender"`
	DOB        string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address    string `json:"address"`
	Position   string `json:"position" binding:"required"`
	Shift      string `json:"shift"`
	Department string `json:"department"`
}

// CreateStaff creates the staff account and its detail row together.
func (h *UserHandler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
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
	}, &models.Staff{
		Position:   req.Position,
		Shift:      req.Shift,
		Department: req.Department,
	}, models.RoleStaff)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Staff added successfully", gin.H{"id": id})
}

// DeleteStaff removes a staff account and its detail row.
func (h *UserHandler) DeleteStaff(c *gin.Context) {
	if err := h.Accounts.DeletePersonWithRole(c.Request.Context(), c.Param("id"), models.RoleStaff); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Staff deleted successfully", nil)
}

// ListPatients returns every patient account.
func (h *UserHandler) ListPatients(c *gin.Context) {
	var users []models.User
	if err := h.DB.WithContext(c.Request.Context()).Where("role = ?", models.RolePatient).Order("name asc").Find(&users).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching patients", err))
		return
	}

	sanitizedUsers := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitizedUsers[i] = u.Sanitize()
	}
	utils.Success(c, "Patients fetched successfully", sanitizedUsers)
}

// CreatePatientRequest represents the reception desk's patient intake form.
type CreatePatientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Gender  string `json:"gender"`
	DOB     string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address string `json:"address"`
}

// CreatePatient registers a walk-in patient. The account has no password and cannot
// log in until one is set.
func (h *UserHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	id, err := h.Accounts.CreatePersonWithRole(c.Request.Context(), services.AccountInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Gender:  req.Gender,
		DOB:     req.DOB,
		Address: req.Address,
	}, nil, models.RolePatient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Patient registered successfully", gin.H{"id": id})
}
