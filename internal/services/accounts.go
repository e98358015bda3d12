package services

import (
	"context"
	"errors"
	"strings"

	"hospital-management-server/internal/logger"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountInput holds the base-account fields of a new person.
type AccountInput struct {
	Name     string
	Email    string
	Password string // empty leaves the account unable to log in
	Phone    string
	Gender   string
	DOB      string
	Address  string
}

// AccountService owns every write that touches users together with a role-detail table.
type AccountService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *gorm.DB, log *logger.Logger) *AccountService {
	return &AccountService{db: db, log: log}
}

// CreatePersonWithRole inserts the account and, when detail is non-nil, its role-detail
// row keyed by the new account id. Both inserts share one transaction: if the detail
// insert fails the account insert is rolled back, so no account is left without its
// detail row. A duplicate email is reported as a conflict before the detail is touched.
func (s *AccountService) CreatePersonWithRole(ctx context.Context, in AccountInput, detail models.RoleDetail, role models.Role) (string, error) {
	if !role.Valid() {
		return "", utils.NewValidationError("Invalid role", "role must be one of admin, doctor, patient, receptionist, pharmacist, staff")
	}
	if detail != nil && detail.OwnerRole() != role {
		return "", utils.NewValidationError("Role details do not match role", "role must be "+string(detail.OwnerRole()))
	}

	user := models.User{
		Name:    in.Name,
		Email:   in.Email,
		Role:    role,
		Phone:   in.Phone,
		Gender:  in.Gender,
		DOB:     in.DOB,
		Address: in.Address,
	}
	if in.Password != "" {
		if err := user.SetPassword(in.Password); err != nil {
			return "", utils.NewInternalError("Failed to hash password", err)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if utils.IsDuplicateKey(err) {
				return utils.NewConflictError("Email already exists", err)
			}
			return utils.NewInternalError("Failed to create account", err)
		}
		if detail == nil {
			return nil
		}
		detail.SetAccountID(user.ID)
		if err := tx.Create(detail).Error; err != nil {
			return utils.NewInternalError("Failed to create "+string(role)+" details", err)
		}
		return nil
	})
	if err != nil {
		s.log.Audit("", "create_account", string(role), false, map[string]interface{}{"email": in.Email, "error": err.Error()})
		return "", err
	}

	s.log.Audit(user.ID, "create_account", string(role), true, nil)
	return user.ID, nil
}

// DeletePersonWithRole removes the role-detail row and then the account in one
// transaction. The account must exist with the given role.
func (s *AccountService) DeletePersonWithRole(ctx context.Context, id string, role models.Role) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch role {
		case models.RoleDoctor:
			if err := tx.Where("doctor_id = ?", id).Delete(&models.Doctor{}).Error; err != nil {
				return utils.NewInternalError("Failed to delete doctor details", err)
			}
		case models.RoleStaff:
			if err := tx.Where("staff_id = ?", id).Delete(&models.Staff{}).Error; err != nil {
				return utils.NewInternalError("Failed to delete staff details", err)
			}
		}

		res := tx.Where("id = ? AND role = ?", id, role).Delete(&models.User{})
		if res.Error != nil {
			return utils.NewInternalError("Failed to delete account", res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.NewNotFoundError(capitalize(string(role)) + " not found")
		}
		return nil
	})
	s.log.Audit(id, "delete_account", string(role), err == nil, nil)
	return err
}

// UpsertDoctorProfile inserts or updates the doctor-detail row keyed by doctorID, so
// repeated edits never create a second row. An empty photo keeps the stored one.
func (s *AccountService) UpsertDoctorProfile(ctx context.Context, doctorID string, profile models.Doctor) error {
	profile.DoctorID = doctorID
	columns := []string{"specialization", "qualification", "available_days", "timings", "room_number", "updated_at"}
	if profile.Photo != "" {
		columns = append(columns, "photo")
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&profile).Error
	if err != nil {
		return utils.NewInternalError("Failed to update doctor profile", err)
	}
	return nil
}

// UpdateAccountProfile overwrites the editable account fields of a user that has the given
// role. Email changes that collide with another account are reported as conflicts.
func (s *AccountService) UpdateAccountProfile(ctx context.Context, id string, role models.Role, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ? AND role = ?", id, role).Updates(updates)
	if res.Error != nil {
		if utils.IsDuplicateKey(res.Error) {
			return utils.NewConflictError("Email already exists", res.Error)
		}
		return utils.NewInternalError("Failed to update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when nothing changed, so confirm the row exists.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ? AND role = ?", id, role).Count(&count).Error; err != nil {
			return utils.NewInternalError("Failed to update profile", err)
		}
		if count == 0 {
			return utils.NewNotFoundError(capitalize(string(role)) + " not found")
		}
	}
	return nil
}

// FindAccount loads an account with the given role.
func (s *AccountService) FindAccount(ctx context.Context, id string, role models.Role) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(capitalize(string(role)) + " not found")
		}
		return nil, utils.NewInternalError("Failed to load profile", err)
	}
	return &user, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
