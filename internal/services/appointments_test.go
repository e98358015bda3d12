package services

import (
	"context"
	"testing"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/testutil"
	"hospital-management-server/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type appointmentFixture struct {
	db      *gorm.DB
	svc     *AppointmentService
	doctor  models.User
	other   models.User
	patient models.User
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	db := testutil.NewDB(t)
	return &appointmentFixture{
		db:      db,
		svc:     NewAppointmentService(db),
		doctor:  testutil.CreateDoctor(t, db, "doc@example.com", "General"),
		other:   testutil.CreateDoctor(t, db, "other@example.com", "Surgery"),
		patient: testutil.CreateUser(t, db, models.RolePatient, "pat@example.com"),
	}
}

func (f *appointmentFixture) statuses(t *testing.T) map[string]models.AppointmentStatus {
	var rows []models.Appointment
	require.NoError(t, f.db.Find(&rows).Error)
	out := make(map[string]models.AppointmentStatus, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Status
	}
	return out
}

func TestBook(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	appointment, err := f.svc.Book(ctx, BookingInput{
		PatientID: f.patient.ID, DoctorID: f.doctor.ID, AppointmentDate: "2026-10-20", AppointmentTime: "10:00", Reason: "fever",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, appointment.Status)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.Appointment{}, ""))

	_, err = f.svc.Book(ctx, BookingInput{PatientID: f.patient.ID, DoctorID: f.patient.ID, AppointmentDate: "2026-10-20"})
	requireKind(t, err, utils.KindNotFound)

	_, err = f.svc.Book(ctx, BookingInput{PatientID: "nobody", DoctorID: f.doctor.ID, AppointmentDate: "2026-10-20"})
	requireKind(t, err, utils.KindNotFound)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.Appointment{}, ""))
}

func TestUpdateStatus_ScopedToDoctor(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	mine := testutil.CreateAppointment(t, f.db, f.patient.ID, f.doctor.ID, "2026-10-19", models.StatusPending)
	theirs := testutil.CreateAppointment(t, f.db, f.patient.ID, f.other.ID, "2026-10-19", models.StatusPending)
	before := f.statuses(t)

	_, err := f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: "does-not-exist", DoctorID: f.doctor.ID, Status: "completed"})
	requireKind(t, err, utils.KindNotFound)
	assert.Equal(t, before, f.statuses(t))

	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: theirs.ID, DoctorID: f.doctor.ID, Status: "completed"})
	requireKind(t, err, utils.KindNotFound)
	assert.Equal(t, before, f.statuses(t))

	updated, err := f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: mine.ID, DoctorID: f.doctor.ID, Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	after := f.statuses(t)
	assert.Equal(t, models.StatusCompleted, after[mine.ID])
	assert.Equal(t, models.StatusPending, after[theirs.ID])
}

func TestUpdateStatus_Transitions(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	appointment := testutil.CreateAppointment(t, f.db, f.patient.ID, f.doctor.ID, "2026-10-19", models.StatusPending)

	_, err := f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "rescheduled"})
	requireKind(t, err, utils.KindValidation)

	updated, err := f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "In Progress"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "Waiting"})
	requireKind(t, err, utils.KindConflict)

	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "Cancelled"})
	require.NoError(t, err)

	// Terminal statuses only accept themselves.
	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "completed"})
	requireKind(t, err, utils.KindConflict)
	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "cancelled"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, f.statuses(t)[appointment.ID])
}

func TestUpdateStatus_UpsertsBill(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	appointment := testutil.CreateAppointment(t, f.db, f.patient.ID, f.doctor.ID, "2026-10-19", models.StatusPending)

	_, err := f.svc.UpdateStatus(ctx, StatusUpdate{
		AppointmentID: appointment.ID, Status: "in_progress", Bill: &BillUpdate{Amount: 40},
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{
		AppointmentID: appointment.ID, Status: "completed", Bill: &BillUpdate{Amount: 55.5, Status: models.BillPaid},
	})
	require.NoError(t, err)

	var bills []models.Bill
	require.NoError(t, f.db.Where("appointment_id = ?", appointment.ID).Find(&bills).Error)
	require.Len(t, bills, 1)
	assert.Equal(t, 55.5, bills[0].Amount)
	assert.Equal(t, models.BillPaid, bills[0].Status)
	assert.Equal(t, f.patient.ID, bills[0].PatientID)
}

func TestUpdateStatus_RejectedTransitionKeepsBill(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	appointment := testutil.CreateAppointment(t, f.db, f.patient.ID, f.doctor.ID, "2026-10-19", models.StatusCompleted)

	_, err := f.svc.UpdateStatus(ctx, StatusUpdate{AppointmentID: appointment.ID, Status: "pending", Bill: &BillUpdate{Amount: 10}})
	requireKind(t, err, utils.KindConflict)
	assert.Zero(t, testutil.Count(t, f.db, &models.Bill{}, ""))
}

func TestUpdateStatus_BillAmountKeepsPaidStatus(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	appointment := testutil.CreateAppointment(t, f.db, f.patient.ID, f.doctor.ID, "2026-10-19", models.StatusPending)

	_, err := f.svc.UpdateStatus(ctx, StatusUpdate{
		AppointmentID: appointment.ID, Status: "in_progress", Bill: &BillUpdate{Amount: 50, Status: models.BillPaid},
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, StatusUpdate{
		AppointmentID: appointment.ID, Status: "completed", Bill: &BillUpdate{Amount: 65},
	})
	require.NoError(t, err)

	var bill models.Bill
	require.NoError(t, f.db.Where("appointment_id = ?", appointment.ID).First(&bill).Error)
	assert.Equal(t, models.BillPaid, bill.Status)
	assert.Equal(t, 65.0, bill.Amount)
}

func TestUpdateStatus_NewBillWithoutStatusIsUnpaid(t *testing.T) {
	f := newAppointmentFixture(t)
	appointment := testutil.CreateAppointment(t, f.db, f.patient.ID, f.doctor.ID, "2026-10-19", models.StatusPending)

	_, err := f.svc.UpdateStatus(context.Background(), StatusUpdate{
		AppointmentID: appointment.ID, Status: "completed", Bill: &BillUpdate{Amount: 30},
	})
	require.NoError(t, err)

	var bill models.Bill
	require.NoError(t, f.db.Where("appointment_id = ?", appointment.ID).First(&bill).Error)
	assert.Equal(t, models.BillUnpaid, bill.Status)
}
