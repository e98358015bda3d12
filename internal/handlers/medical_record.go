package handlers

import (
	"errors"
	"time"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MedicalRecordHandler handles prescriptions, lab tests and visit records.
type MedicalRecordHandler struct {
	DB *gorm.DB
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(db *gorm.DB) *MedicalRecordHandler {
	return &MedicalRecordHandler{DB: db}
}

func (h *MedicalRecordHandler) prescriptionQuery(c *gin.Context) *gorm.DB {
	return h.DB.WithContext(c.Request.Context()).Table("prescriptions p").
		Select("p.*, pu.name AS patient_name, du.name AS doctor_name").
		Joins("LEFT JOIN users pu ON pu.id = p.patient_id").
		Joins("LEFT JOIN users du ON du.id = p.doctor_id").
		Order("p.prescription_date desc")
}

func (h *MedicalRecordHandler) labTestQuery(c *gin.Context) *gorm.DB {
	return h.DB.WithContext(c.Request.Context()).Table("lab_tests l").
		Select("l.*, t.type_name AS test_type, pu.name AS patient_name, du.name AS doctor_name").
		Joins("JOIN lab_test_types t ON t.id = l.type_id").
		Joins("LEFT JOIN users pu ON pu.id = l.patient_id").
		Joins("LEFT JOIN users du ON du.id = l.doctor_id")
}

func (h *MedicalRecordHandler) listPrescriptions(c *gin.Context, query string, args ...interface{}) {
	views := []models.PrescriptionView{}
	q := h.prescriptionQuery(c)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Scan(&views).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch prescriptions", err))
		return
	}
	utils.Success(c, "Prescriptions fetched successfully", views)
}

// GetDoctorPrescriptions returns the prescriptions written by the logged-in doctor.
func (h *MedicalRecordHandler) GetDoctorPrescriptions(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	h.listPrescriptions(c, "p.doctor_id = ?", user.ID)
}

// GetPrescriptionsForPatient returns the prescriptions of the patient in the path.
func (h *MedicalRecordHandler) GetPrescriptionsForPatient(c *gin.Context) {
	h.listPrescriptions(c, "p.patient_id = ?", c.Param("id"))
}

// ListAllPrescriptions returns every prescription for the pharmacy.
func (h *MedicalRecordHandler) ListAllPrescriptions(c *gin.Context) {
	h.listPrescriptions(c, "")
}

// PrescriptionRequest represents a free-standing prescription written by a doctor.
type PrescriptionRequest struct {
	PatientID    string `json:"patient_id" binding:"required"`
	Diagnosis    string `json:"diagnosis" binding:"required"`
	Medicines    string `json:"medicines"`
	Instructions string `json:"instructions"`
	Notes        string `json:"notes"`
}

// CreateDoctorPrescription saves a prescription for a patient without an appointment.
func (h *MedicalRecordHandler) CreateDoctorPrescription(c *gin.Context) {
	var req PrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	if err := h.requireAccount(c, req.PatientID, models.RolePatient); err != nil {
		utils.RespondError(c, err)
		return
	}

	prescription := models.Prescription{
		DoctorID:         user.ID,
		PatientID:        req.PatientID,
		PrescriptionDate: utils.Now(),
		Diagnosis:        req.Diagnosis,
		Medicines:        req.Medicines,
		Instructions:     req.Instructions,
		Notes:            req.Notes,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&prescription).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to save prescription", err))
		return
	}
	utils.Created(c, "Prescription saved successfully", prescription)
}

// AppointmentPrescriptionRequest represents a prescription written during an appointment.
type AppointmentPrescriptionRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
	Diagnosis     string `json:"diagnosis" binding:"required"`
	Medicines     string `json:"medicines"`
	Instructions  string `json:"instructions"`
}

// CreateAppointmentPrescription prescribes against one of the doctor's open
// appointments. Completed or cancelled appointments are refused.
func (h *MedicalRecordHandler) CreateAppointmentPrescription(c *gin.Context) {
	var req AppointmentPrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	db := h.DB.WithContext(c.Request.Context())

	var appointment models.Appointment
	if err := db.Where("id = ? AND doctor_id = ?", req.AppointmentID, user.ID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Appointment not found")
			return
		}
		utils.RespondError(c, utils.NewInternalError("Failed to load appointment", err))
		return
	}
	if appointment.Status.Terminal() {
		utils.BadRequest(c, "Cannot prescribe for completed/cancelled appointment")
		return
	}

	prescription := models.Prescription{
		AppointmentID:    appointment.ID,
		DoctorID:         user.ID,
		PatientID:        appointment.PatientID,
		PrescriptionDate: utils.Now(),
		Diagnosis:        req.Diagnosis,
		Medicines:        req.Medicines,
		Instructions:     req.Instructions,
	}
	if err := db.Create(&prescription).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to save prescription", err))
		return
	}
	utils.Created(c, "Prescription created successfully", prescription)
}

// PharmacyPrescriptionRequest represents a prescription recorded at the pharmacy counter.
type PharmacyPrescriptionRequest struct {
	AppointmentID    string `json:"appointment_id"`
	DoctorID         string `json:"doctor_id" binding:"required"`
	PatientID        string `json:"patient_id" binding:"required"`
	PrescriptionDate string `json:"prescription_date" binding:"omitempty,datetime=2006-01-02"`
	Diagnosis        string `json:"diagnosis"`
	Medicines        string `json:"medicines" binding:"required"`
	Instructions     string `json:"instructions"`
}

// CreatePharmacyPrescription records a prescription brought to the pharmacy.
func (h *MedicalRecordHandler) CreatePharmacyPrescription(c *gin.Context) {
	var req PharmacyPrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := h.requireAccount(c, req.DoctorID, models.RoleDoctor); err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.requireAccount(c, req.PatientID, models.RolePatient); err != nil {
		utils.RespondError(c, err)
		return
	}

	date := utils.Now()
	if req.PrescriptionDate != "" {
		date, _ = time.Parse(utils.DateLayout, req.PrescriptionDate)
	}
	prescription := models.Prescription{
		AppointmentID:    req.AppointmentID,
		DoctorID:         req.DoctorID,
		PatientID:        req.PatientID,
		PrescriptionDate: date,
		Diagnosis:        req.Diagnosis,
		Medicines:        req.Medicines,
		Instructions:     req.Instructions,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&prescription).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to save prescription", err))
		return
	}
	utils.Created(c, "Prescription recorded successfully", prescription)
}

// GetDoctorLabTests returns the lab tests ordered by the logged-in doctor.
func (h *MedicalRecordHandler) GetDoctorLabTests(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	views := []models.LabTestView{}
	if err := h.labTestQuery(c).Where("l.doctor_id = ?", user.ID).Order("l.test_date desc").Scan(&views).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch lab tests", err))
		return
	}
	utils.Success(c, "Lab tests fetched successfully", views)
}

// GetPatientLabTests returns the lab tests of the patient in the path.
func (h *MedicalRecordHandler) GetPatientLabTests(c *gin.Context) {
	views := []models.LabTestView{}
	if err := h.labTestQuery(c).Where("l.patient_id = ?", c.Param("id")).Order("l.test_date desc").Scan(&views).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Error fetching lab tests", err))
		return
	}
	utils.Success(c, "Lab tests fetched successfully", views)
}

// LabTestRequest represents a doctor's lab test order.
type LabTestRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	TypeID    string `json:"test_type" binding:"required"`
	TestDate  string `json:"test_date" binding:"required,datetime=2006-01-02"`
}

// CreateLabTest orders a pending lab test for a patient.
func (h *MedicalRecordHandler) CreateLabTest(c *gin.Context) {
	var req LabTestRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	db := h.DB.WithContext(c.Request.Context())

	if err := h.requireAccount(c, req.PatientID, models.RolePatient); err != nil {
		utils.RespondError(c, err)
		return
	}
	var count int64
	if err := db.Model(&models.LabTestType{}).Where("id = ?", req.TypeID).Count(&count).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create lab test", err))
		return
	}
	if count == 0 {
		utils.NotFound(c, "Lab test type not found")
		return
	}

	test := models.LabTest{
		PatientID: req.PatientID,
		DoctorID:  user.ID,
		TypeID:    req.TypeID,
		TestDate:  req.TestDate,
		Status:    models.LabTestPending,
	}
	if err := db.Create(&test).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create lab test", err))
		return
	}
	utils.Created(c, "Lab test created successfully", test)
}

// ListLabTestTypes returns the lab test catalogue.
func (h *MedicalRecordHandler) ListLabTestTypes(c *gin.Context) {
	types := []models.LabTestType{}
	if err := h.DB.WithContext(c.Request.Context()).Order("type_name asc").Find(&types).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch lab test types", err))
		return
	}
	utils.Success(c, "Lab test types fetched successfully", types)
}

// LabTestTypeRequest represents a new catalogue entry.
type LabTestTypeRequest struct {
	TypeName string `json:"type_name" binding:"required"`
}

// CreateLabTestType adds a lab test type. Names are unique.
func (h *MedicalRecordHandler) CreateLabTestType(c *gin.Context) {
	var req LabTestTypeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	labType := models.LabTestType{TypeName: req.TypeName}
	if err := h.DB.WithContext(c.Request.Context()).Create(&labType).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.RespondError(c, utils.NewConflictError("Lab test type already exists", err))
			return
		}
		utils.RespondError(c, utils.NewInternalError("Failed to add lab test type", err))
		return
	}
	utils.Created(c, "Lab test type added successfully", labType)
}

// MedicalRecordRequest represents a visit record written by a doctor.
type MedicalRecordRequest struct {
	PatientID   string `json:"patient_id" binding:"required"`
	VisitDate   string `json:"visit_date" binding:"omitempty,datetime=2006-01-02"`
	Diagnosis   string `json:"diagnosis" binding:"required"`
	Treatment   string `json:"treatment"`
	Notes       string `json:"notes"`
	Attachments string `json:"attachments"`
}

// CreateMedicalRecord adds a visit to a patient's history. The visit date defaults to
// today.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req MedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)
	if err := h.requireAccount(c, req.PatientID, models.RolePatient); err != nil {
		utils.RespondError(c, err)
		return
	}

	visitDate := req.VisitDate
	if visitDate == "" {
		visitDate = utils.Today()
	}
	record := models.MedicalRecord{
		PatientID:   req.PatientID,
		DoctorID:    user.ID,
		VisitDate:   visitDate,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Notes:       req.Notes,
		Attachments: req.Attachments,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&record).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to create medical record", err))
		return
	}
	utils.Created(c, "Medical record created successfully", record)
}

// GetMedicalHistory returns the visit records of the patient in the path, newest first.
func (h *MedicalRecordHandler) GetMedicalHistory(c *gin.Context) {
	records := []models.MedicalRecord{}
	err := h.DB.WithContext(c.Request.Context()).
		Where("patient_id = ?", c.Param("id")).
		Order("visit_date desc").
		Find(&records).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch medical history", err))
		return
	}
	utils.Success(c, "Medical history fetched successfully", records)
}

func (h *MedicalRecordHandler) requireAccount(c *gin.Context, id string, role models.Role) error {
	return services.RequireAccount(h.DB.WithContext(c.Request.Context()), id, role)
}
