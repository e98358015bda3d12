// Package testutil provides in-memory databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"hospital-management-server/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Password is the plain-text password of every account created by CreateUser.
const Password = "password123"

// NewDB opens a private in-memory SQLite database with the full schema migrated. A
// single connection serializes concurrent queries so every goroutine sees the same data.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), models.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// CreateUser inserts an account with the given role and Password.
func CreateUser(t testing.TB, db *gorm.DB, role models.Role, email string) models.User {
	t.Helper()

	user := models.User{
		Name:  string(role) + " " + email,
		Email: email,
		Role:  role,
		Phone: "555-0100",
	}
	require.NoError(t, user.SetPassword(Password))
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateDoctor inserts a doctor account together with its detail row.
func CreateDoctor(t testing.TB, db *gorm.DB, email, specialization string) models.User {
	t.Helper()

	user := CreateUser(t, db, models.RoleDoctor, email)
	require.NoError(t, db.Create(&models.Doctor{DoctorID: user.ID, Specialization: specialization}).Error)
	return user
}

// CreateAppointment inserts an appointment in the given status.
func CreateAppointment(t testing.TB, db *gorm.DB, patientID, doctorID, date string, status models.AppointmentStatus) models.Appointment {
	t.Helper()

	appointment := models.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: "09:30",
		Reason:          "checkup",
		Status:          status,
	}
	require.NoError(t, db.Create(&appointment).Error)
	return appointment
}

// Count returns the number of rows of model matching the optional where clause.
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
