package handlers

import (
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregate views of each role's dashboard.
type DashboardHandler struct {
	Dashboard         *services.Dashboard
	Accounts          *services.AccountService
	LowStockThreshold int
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard *services.Dashboard, accounts *services.AccountService, lowStockThreshold int) *DashboardHandler {
	return &DashboardHandler{Dashboard: dashboard, Accounts: accounts, LowStockThreshold: lowStockThreshold}
}

func (h *DashboardHandler) counts(c *gin.Context, counters []services.Counter) {
	counts, err := h.Dashboard.Counts(c.Request.Context(), counters...)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Dashboard fetched successfully", counts)
}

// GetAdminDashboard returns the hospital-wide totals.
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	h.counts(c, services.AdminCounters())
}

// GetPharmacistDashboard returns the stock and prescription figures.
func (h *DashboardHandler) GetPharmacistDashboard(c *gin.Context) {
	h.counts(c, services.PharmacistCounters(utils.Now(), h.LowStockThreshold))
}

// GetReceptionCounts returns the reception desk's figures for today.
func (h *DashboardHandler) GetReceptionCounts(c *gin.Context) {
	h.counts(c, services.ReceptionCounters(utils.Now()))
}

// GetReceptionCount returns a single reception figure as {"total": n}.
func (h *DashboardHandler) GetReceptionCount(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, counter := range services.ReceptionCounters(utils.Now()) {
			if counter.Name != name {
				continue
			}
			counts, err := h.Dashboard.Counts(c.Request.Context(), counter)
			if err != nil {
				utils.RespondError(c, err)
				return
			}
			utils.Success(c, "Count fetched successfully", gin.H{"total": counts[name]})
			return
		}
		utils.NotFound(c, "Unknown count "+name)
	}
}

// GetPatientOverview returns the patient's counts and how complete their profile is.
func (h *DashboardHandler) GetPatientOverview(c *gin.Context) {
	ctx := c.Request.Context()
	patientID := c.Param("id")

	account, err := h.Accounts.FindAccount(ctx, patientID, models.RolePatient)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	counts, err := h.Dashboard.Counts(ctx, services.PatientCounters(patientID, utils.Now())...)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	overview := gin.H{"profileCompletion": account.ProfileCompletion()}
	for name, n := range counts {
		overview[name] = n
	}
	utils.Success(c, "Overview fetched successfully", overview)
}

// GetStaffDashboard returns the logged-in account's tasks, duties, announcements and the
// number of messages it has received from admins.
func (h *DashboardHandler) GetStaffDashboard(c *gin.Context) {
	user, _ := middleware.GetSessionUser(c)
	overview, err := h.Dashboard.StaffOverview(c.Request.Context(), user.ID, utils.Now())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Dashboard fetched successfully", overview)
}
