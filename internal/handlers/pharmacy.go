package handlers

import (
	"errors"

	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PharmacyHandler handles medicine stock and patient billing.
type PharmacyHandler struct {
	DB *gorm.DB
}

// NewPharmacyHandler creates a new PharmacyHandler.
func NewPharmacyHandler(db *gorm.DB) *PharmacyHandler {
	return &PharmacyHandler{DB: db}
}

// ListMedicines returns the whole stock.
func (h *PharmacyHandler) ListMedicines(c *gin.Context) {
	medicines := []models.Medicine{}
	if err := h.DB.WithContext(c.Request.Context()).Order("name asc").Find(&medicines).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch medicines", err))
		return
	}
	utils.Success(c, "Medicines fetched successfully", medicines)
}

// ListExpiredMedicines returns stock lines whose expiry date has passed.
func (h *PharmacyHandler) ListExpiredMedicines(c *gin.Context) {
	medicines := []models.Medicine{}
	err := h.DB.WithContext(c.Request.Context()).
		Where("expiry_date <> '' AND expiry_date < ?", utils.Today()).
		Order("expiry_date asc").
		Find(&medicines).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch expired medicines", err))
		return
	}
	utils.Success(c, "Expired medicines fetched successfully", medicines)
}

// MedicineRequest represents a new stock line.
type MedicineRequest struct {
	Name       string  `json:"name" binding:"required"`
	Quantity   int     `json:"quantity" binding:"gte=0"`
	Category   string  `json:"category"`
	Price      float64 `json:"price" binding:"gte=0"`
	ExpiryDate string  `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	Company    string  `json:"company"`
}

// CreateMedicine adds a stock line recorded against the logged-in pharmacist.
func (h *PharmacyHandler) CreateMedicine(c *gin.Context) {
	var req MedicineRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	user, _ := middleware.GetSessionUser(c)

	medicine := models.Medicine{
		Name:       req.Name,
		Quantity:   req.Quantity,
		Category:   req.Category,
		Price:      req.Price,
		ExpiryDate: req.ExpiryDate,
		Company:    req.Company,
		AddedBy:    user.ID,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&medicine).Error; err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to add medicine", err))
		return
	}
	utils.Created(c, "Medicine added successfully", medicine)
}

// GetPatientBills returns the bills of the patient in the path, newest first.
func (h *PharmacyHandler) GetPatientBills(c *gin.Context) {
	bills := []models.Bill{}
	err := h.DB.WithContext(c.Request.Context()).
		Where("patient_id = ?", c.Param("id")).
		Order("bill_date desc").
		Find(&bills).Error
	if err != nil {
		utils.RespondError(c, utils.NewInternalError("Failed to fetch bills", err))
		return
	}
	utils.Success(c, "Bills fetched successfully", bills)
}

// PayBill marks one of the patient's unpaid bills as paid.
func (h *PharmacyHandler) PayBill(c *gin.Context) {
	patientID, billID := c.Param("id"), c.Param("billId")

	err := h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var bill models.Bill
		if err := tx.Where("id = ? AND patient_id = ?", billID, patientID).First(&bill).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFoundError("Bill not found")
			}
			return utils.NewInternalError("Failed to pay bill", err)
		}
		if bill.Status == models.BillPaid {
			return utils.NewConflictError("Bill is already paid", nil)
		}
		res := tx.Model(&models.Bill{}).
			Where("id = ? AND status = ?", bill.ID, models.BillUnpaid).
			Update("status", models.BillPaid)
		if res.Error != nil {
			return utils.NewInternalError("Failed to pay bill", res.Error)
		}
		if res.RowsAffected == 0 {
			return utils.NewConflictError("Bill is already paid", nil)
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Bill paid successfully", nil)
}
