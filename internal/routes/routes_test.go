package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hospital-management-server/internal/config"
	"hospital-management-server/internal/logger"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/session"
	"hospital-management-server/internal/testutil"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const cookieName = "hms.sid"

func init() {
	gin.SetMode(gin.TestMode)
	utils.UseJSONFieldNames()
}

type apiFixture struct {
	t         *testing.T
	db        *gorm.DB
	router    *gin.Engine
	uploadDir string
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newAPIFixture(t *testing.T) *apiFixture {
	db := testutil.NewDB(t)
	cfg := &config.Config{
		Environment:       "development",
		SessionCookieName: cookieName,
		UploadDir:         t.TempDir(),
		LowStockThreshold: 10,
	}
	log := logger.Discard()
	sessions := session.NewManager(session.NewMemoryStore(0), session.ManagerConfig{Secret: "test-secret", CookieName: cookieName})

	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.LoadSession(sessions))
	SetupRoutes(router, db, cfg, sessions, log)
	return &apiFixture{t: t, db: db, router: router, uploadDir: cfg.UploadDir}
}

func (f *apiFixture) do(method, path string, cookie *http.Cookie, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) login(email, password string) (*http.Cookie, envelope) {
	f.t.Helper()
	w := f.do(http.MethodPost, "/login", nil, gin.H{"email": email, "password": password})
	env := decode(f.t, w)
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c, env
		}
	}
	return nil, env
}

func (f *apiFixture) loginAs(role models.Role, email string) (models.User, *http.Cookie) {
	f.t.Helper()
	var user models.User
	if role == models.RoleDoctor {
		user = testutil.CreateDoctor(f.t, f.db, email, "General")
	} else {
		user = testutil.CreateUser(f.t, f.db, role, email)
	}
	cookie, env := f.login(email, testutil.Password)
	require.NotNil(f.t, cookie, env.Message)
	return user, cookie
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int) envelope {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decode(t, w)
	assert.Equal(t, status, env.Status)
	assert.NotEmpty(t, env.Message)
	return env
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAPIFixture(t)
	body := gin.H{"name": "Ada", "email": "ada@example.com", "password": "secret1", "phone": "555-0101", "role": "admin"}

	w := f.do(http.MethodPost, "/register", nil, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assertError(t, f.do(http.MethodPost, "/register", nil, body), http.StatusConflict)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.User{}, "email = ?", "ada@example.com"))

	env := assertError(t, f.do(http.MethodPost, "/register", nil, gin.H{"name": "Bob", "email": "not-an-email", "password": "x"}), http.StatusBadRequest)
	assert.NotEmpty(t, env.Errors)

	cookie, env := f.login("ada@example.com", "secret1")
	require.NotNil(t, cookie)
	var login struct {
		User     models.UserSanitized `json:"user"`
		Redirect string               `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, models.RolePatient, login.User.Role)
	assert.Equal(t, "/patient-dashboard.html", login.Redirect)

	w = f.do(http.MethodGet, "/api/me", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"patient"`)

	_, env = f.login("ada@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, env.Status)
	_, env = f.login("nobody@example.com", "secret1")
	assert.Equal(t, http.StatusUnauthorized, env.Status)
	assert.Equal(t, "Invalid credentials", env.Message)
}

func TestLogout(t *testing.T) {
	f := newAPIFixture(t)
	_, cookie := f.loginAs(models.RoleStaff, "staff@example.com")

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/session", cookie, nil).Code)

	w := f.do(http.MethodGet, "/logout", cookie, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login.html", w.Header().Get("Location"))

	assertError(t, f.do(http.MethodGet, "/session", cookie, nil), http.StatusUnauthorized)
}

func TestDoctorStatusUpdate_Guards(t *testing.T) {
	f := newAPIFixture(t)
	doctor, doctorCookie := f.loginAs(models.RoleDoctor, "doc@example.com")
	other := testutil.CreateDoctor(t, f.db, "other@example.com", "Surgery")
	patient, patientCookie := f.loginAs(models.RolePatient, "pat@example.com")
	_, adminCookie := f.loginAs(models.RoleAdmin, "admin@example.com")

	mine := testutil.CreateAppointment(t, f.db, patient.ID, doctor.ID, utils.Today(), models.StatusPending)
	theirs := testutil.CreateAppointment(t, f.db, patient.ID, other.ID, utils.Today(), models.StatusPending)
	body := gin.H{"appointment_id": mine.ID, "status": "completed"}

	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", nil, body), http.StatusUnauthorized)
	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", patientCookie, body), http.StatusForbidden)
	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", adminCookie, body), http.StatusForbidden)

	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", doctorCookie, gin.H{"appointment_id": "missing", "status": "completed"}), http.StatusNotFound)
	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", doctorCookie, gin.H{"appointment_id": theirs.ID, "status": "completed"}), http.StatusNotFound)
	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", doctorCookie, gin.H{"appointment_id": mine.ID, "status": "bogus"}), http.StatusBadRequest)

	w := f.do(http.MethodPost, "/doctor/appointments/update", doctorCookie, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rows []models.Appointment
	require.NoError(t, f.db.Order("id").Find(&rows).Error)
	for _, row := range rows {
		if row.ID == mine.ID {
			assert.Equal(t, models.StatusCompleted, row.Status)
		} else {
			assert.Equal(t, models.StatusPending, row.Status)
		}
	}

	assertError(t, f.do(http.MethodPost, "/doctor/appointments/update", doctorCookie, gin.H{"appointment_id": mine.ID, "status": "pending"}), http.StatusConflict)

	w = f.do(http.MethodGet, "/doctor/appointments/today", doctorCookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []models.AppointmentView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, mine.ID, views[0].ID)
	assert.Equal(t, patient.Name, views[0].PatientName)
}

func TestPatientRoutes_OnlyOwnRecords(t *testing.T) {
	f := newAPIFixture(t)
	patient, cookie := f.loginAs(models.RolePatient, "me@example.com")
	other := testutil.CreateUser(t, f.db, models.RolePatient, "you@example.com")

	w := f.do(http.MethodGet, "/api/patient/"+patient.ID, cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")

	assertError(t, f.do(http.MethodGet, "/api/patient/"+other.ID, cookie, nil), http.StatusForbidden)
	assertError(t, f.do(http.MethodGet, "/api/patient/"+other.ID+"/billing", cookie, nil), http.StatusForbidden)

	_, doctorCookie := f.loginAs(models.RoleDoctor, "doc@example.com")
	assertError(t, f.do(http.MethodGet, "/api/patient/"+patient.ID, doctorCookie, nil), http.StatusForbidden)
}

func TestPatientBookingAndBills(t *testing.T) {
	f := newAPIFixture(t)
	patient, cookie := f.loginAs(models.RolePatient, "pat@example.com")
	doctor := testutil.CreateDoctor(t, f.db, "doc@example.com", "Cardiology")
	base := "/api/patient/" + patient.ID

	w := f.do(http.MethodPost, base+"/appointments", cookie, gin.H{
		"doctor_id": doctor.ID, "appointment_date": "2030-01-15", "appointment_time": "10:30", "reason": "palpitations",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assertError(t, f.do(http.MethodPost, base+"/appointments", cookie, gin.H{
		"doctor_id": patient.ID, "appointment_date": "2030-01-15", "appointment_time": "10:30",
	}), http.StatusNotFound)

	w = f.do(http.MethodGet, base+"/overview", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview map[string]int64
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &overview))
	assert.EqualValues(t, 1, overview["upcomingAppointments"])

	bill := models.Bill{PatientID: patient.ID, Amount: 120, Status: models.BillUnpaid, BillDate: utils.Today()}
	require.NoError(t, f.db.Create(&bill).Error)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, base+"/billing/"+bill.ID+"/pay", cookie, nil).Code)
	assertError(t, f.do(http.MethodPost, base+"/billing/"+bill.ID+"/pay", cookie, nil), http.StatusConflict)
	assertError(t, f.do(http.MethodPost, base+"/billing/missing/pay", cookie, nil), http.StatusNotFound)
}

func TestAdminAccountsAndDashboard(t *testing.T) {
	f := newAPIFixture(t)
	_, admin := f.loginAs(models.RoleAdmin, "admin@example.com")
	testutil.CreateUser(t, f.db, models.RolePatient, "p1@example.com")
	testutil.CreateUser(t, f.db, models.RolePatient, "p2@example.com")
	testutil.CreateUser(t, f.db, models.RolePharmacist, "ph@example.com")

	doctorBody := gin.H{"name": "Dr Who", "email": "who@example.com", "password": "tardis1", "specialization": "Time"}
	w := f.do(http.MethodPost, "/api/admin/doctors", admin, doctorBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	assertError(t, f.do(http.MethodPost, "/api/admin/doctors", admin, doctorBody), http.StatusConflict)
	assertError(t, f.do(http.MethodPost, "/api/admin/doctors", admin, gin.H{"name": "No Spec", "email": "ns@example.com", "password": "secret1"}), http.StatusBadRequest)

	w = f.do(http.MethodPost, "/api/admin/staff", admin, gin.H{"name": "Sam", "email": "sam@example.com", "password": "secret1", "position": "Porter"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var counts map[string]int64
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &counts))
	assert.Equal(t, map[string]int64{
		"totalDoctors":      1,
		"totalPatients":     2,
		"totalAppointments": 0,
		"totalStaff":        2,
	}, counts)

	w = f.do(http.MethodGet, "/api/doctors", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr Who")

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/admin/doctors/"+created.ID, admin, nil).Code)
	assertError(t, f.do(http.MethodDelete, "/api/admin/doctors/"+created.ID, admin, nil), http.StatusNotFound)
	assert.Zero(t, testutil.Count(t, f.db, &models.Doctor{}, ""))
}

func TestReceptionIntake(t *testing.T) {
	f := newAPIFixture(t)
	_, reception := f.loginAs(models.RoleReceptionist, "desk@example.com")
	doctor := testutil.CreateDoctor(t, f.db, "doc@example.com", "General")

	w := f.do(http.MethodPost, "/api/reception/patients", reception, gin.H{"name": "Walk In", "email": "walkin@example.com", "phone": "555"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	// Patients registered at the desk have no password yet.
	cookie, env := f.login("walkin@example.com", "")
	assert.Nil(t, cookie)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	cookie, env = f.login("walkin@example.com", "anything")
	assert.Nil(t, cookie)
	assert.Equal(t, http.StatusUnauthorized, env.Status)

	w = f.do(http.MethodPost, "/api/reception/appointments", reception, gin.H{"patient_id": created.ID, "doctor_id": doctor.ID, "time": "11:00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var appointment models.Appointment
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &appointment))
	assert.Equal(t, utils.Today(), appointment.AppointmentDate)

	w = f.do(http.MethodPut, "/api/reception/appointments/"+appointment.ID+"/update", reception, gin.H{"status": "Completed", "bill_amount": 80})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.Bill{}, "appointment_id = ? AND amount = ?", appointment.ID, 80))

	w = f.do(http.MethodGet, "/api/reception/appointments/today/count", reception, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":1}`, string(decode(t, w).Data))

	assertError(t, f.do(http.MethodPut, "/api/reception/appointments/missing/update", reception, gin.H{"status": "completed"}), http.StatusNotFound)
	assertError(t, f.do(http.MethodGet, "/api/reception/counts", nil, nil), http.StatusUnauthorized)
}

func TestResetPassword_OwnAccountOnly(t *testing.T) {
	f := newAPIFixture(t)
	_, cookie := f.loginAs(models.RolePharmacist, "ph@example.com")
	testutil.CreateUser(t, f.db, models.RolePharmacist, "other@example.com")

	assertError(t, f.do(http.MethodPost, "/reset-password", nil, gin.H{"email": "ph@example.com", "newPassword": "brandnew"}), http.StatusUnauthorized)
	assertError(t, f.do(http.MethodPost, "/reset-password", cookie, gin.H{"email": "other@example.com", "newPassword": "brandnew"}), http.StatusForbidden)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/reset-password", cookie, gin.H{"email": "ph@example.com", "newPassword": "brandnew"}).Code)

	relogin, _ := f.login("ph@example.com", "brandnew")
	assert.NotNil(t, relogin)
	old, _ := f.login("other@example.com", "brandnew")
	assert.Nil(t, old)
}

func TestPharmacistRoutes(t *testing.T) {
	f := newAPIFixture(t)
	_, cookie := f.loginAs(models.RolePharmacist, "ph@example.com")
	_, staffCookie := f.loginAs(models.RoleStaff, "staff@example.com")

	assertError(t, f.do(http.MethodPost, "/api/pharmacist/medicines", staffCookie, gin.H{"name": "Aspirin", "quantity": 5}), http.StatusForbidden)

	w := f.do(http.MethodPost, "/api/pharmacist/medicines", cookie, gin.H{"name": "Aspirin", "quantity": 5, "expiry_date": "2020-01-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/pharmacist/dashboard", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var counts map[string]int64
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &counts))
	assert.EqualValues(t, 1, counts["totalMedicines"])
	assert.EqualValues(t, 1, counts["lowStock"])
	assert.EqualValues(t, 1, counts["expiredMeds"])
}

func TestStaffMessageToAdmin(t *testing.T) {
	f := newAPIFixture(t)
	staff, cookie := f.loginAs(models.RoleStaff, "staff@example.com")

	assertError(t, f.do(http.MethodPost, "/api/staff/message", cookie, gin.H{"message": "hello"}), http.StatusNotFound)

	admin := testutil.CreateUser(t, f.db, models.RoleAdmin, "admin@example.com")
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/staff/message", cookie, gin.H{"subject": "Shift", "message": "Can I swap?"}).Code)
	assert.EqualValues(t, 1, testutil.Count(t, f.db, &models.Message{}, "from_id = ? AND to_id = ?", staff.ID, admin.ID))

	w := f.do(http.MethodGet, "/api/staff/dashboard", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}
