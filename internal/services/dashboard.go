package services

import (
	"context"
	"sync"
	"time"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Counter is one named, independent COUNT(*) over a filtered table.
type Counter struct {
	Name  string
	Count func(ctx context.Context, db *gorm.DB) (int64, error)
}

// CountWhere builds a Counter over model filtered by an optional where clause.
func CountWhere(name string, model interface{}, query interface{}, args ...interface{}) Counter {
	return Counter{
		Name: name,
		Count: func(ctx context.Context, db *gorm.DB) (int64, error) {
			var n int64
			q := db.WithContext(ctx).Model(model)
			if query != nil {
				q = q.Where(query, args...)
			}
			err := q.Count(&n).Error
			return n, err
		},
	}
}

// Dashboard computes aggregate views for the role dashboards.
type Dashboard struct {
	db *gorm.DB
}

// NewDashboard creates a new Dashboard.
func NewDashboard(db *gorm.DB) *Dashboard {
	return &Dashboard{db: db}
}

// Counts runs every counter concurrently and merges the results once all have finished.
// The first failure cancels the rest and fails the whole result; nothing partial is
// returned.
func (d *Dashboard) Counts(ctx context.Context, counters ...Counter) (map[string]int64, error) {
	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	results := make(map[string]int64, len(counters))

	for _, counter := range counters {
		counter := counter
		g.Go(func() error {
			n, err := counter.Count(gctx, d.db)
			if err != nil {
				return utils.NewInternalError("Error counting "+counter.Name, err)
			}
			mu.Lock()
			results[counter.Name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// AdminCounters are the totals on the admin dashboard.
func AdminCounters() []Counter {
	return []Counter{
		CountWhere("totalDoctors", &models.Doctor{}, nil),
		CountWhere("totalPatients", &models.User{}, "role = ?", models.RolePatient),
		CountWhere("totalAppointments", &models.Appointment{}, nil),
		CountWhere("totalStaff", &models.User{}, "role IN ?", models.StaffRoles),
	}
}

// PharmacistCounters are the stock and prescription figures on the pharmacist dashboard.
func PharmacistCounters(now time.Time, lowStockThreshold int) []Counter {
	today := now.Format(utils.DateLayout)
	start, end := utils.DayBounds(now)
	return []Counter{
		CountWhere("totalMedicines", &models.Medicine{}, nil),
		CountWhere("prescriptionsToday", &models.Prescription{}, "prescription_date >= ? AND prescription_date < ?", start, end),
		CountWhere("lowStock", &models.Medicine{}, "quantity < ?", lowStockThreshold),
		CountWhere("expiredMeds", &models.Medicine{}, "expiry_date <> '' AND expiry_date < ?", today),
	}
}

// ReceptionCounters are the day-at-a-glance figures on the reception dashboard.
func ReceptionCounters(now time.Time) []Counter {
	start, end := utils.DayBounds(now)
	return []Counter{
		CountWhere("todayAppointments", &models.Appointment{}, "appointment_date = ?", now.Format(utils.DateLayout)),
		CountWhere("newPatientsToday", &models.User{}, "role = ? AND created_at >= ? AND created_at < ?", models.RolePatient, start, end),
		CountWhere("totalDoctors", &models.Doctor{}, nil),
		CountWhere("totalSchedules", &models.DoctorSchedule{}, nil),
	}
}

// PatientCounters are the overview figures for one patient.
func PatientCounters(patientID string, now time.Time) []Counter {
	return []Counter{
		CountWhere("upcomingAppointments", &models.Appointment{}, "patient_id = ? AND appointment_date >= ?", patientID, now.Format(utils.DateLayout)),
		CountWhere("medicalHistoryCount", &models.MedicalRecord{}, "patient_id = ?", patientID),
		CountWhere("activePrescriptions", &models.Prescription{}, "patient_id = ?", patientID),
	}
}

// StaffOverview is everything the staff dashboard shows for one account.
type StaffOverview struct {
	Tasks         []models.StaffTask    `json:"tasks"`
	TodayDuty     []models.StaffDuty    `json:"todayDuty"`
	Duties        []models.StaffDuty    `json:"duties"`
	Announcements []models.Announcement `json:"announcements"`
	AdminMessages int64                 `json:"adminMessages"`
}

// StaffOverview loads the staff dashboard's lists and counts concurrently, failing as a
// whole if any of them fails.
func (d *Dashboard) StaffOverview(ctx context.Context, userID string, now time.Time) (*StaffOverview, error) {
	out := &StaffOverview{
		Tasks:         []models.StaffTask{},
		TodayDuty:     []models.StaffDuty{},
		Duties:        []models.StaffDuty{},
		Announcements: []models.Announcement{},
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wrapCount("tasks", d.db.WithContext(gctx).Where("user_id = ?", userID).Order("deadline asc").Find(&out.Tasks).Error)
	})
	g.Go(func() error {
		return wrapCount("today's duty", d.db.WithContext(gctx).Where("user_id = ? AND duty_date = ?", userID, now.Format(utils.DateLayout)).Find(&out.TodayDuty).Error)
	})
	g.Go(func() error {
		return wrapCount("duties", d.db.WithContext(gctx).Where("user_id = ?", userID).Order("duty_date asc").Find(&out.Duties).Error)
	})
	g.Go(func() error {
		return wrapCount("announcements", d.db.WithContext(gctx).Order("created_at desc").Limit(5).Find(&out.Announcements).Error)
	})
	g.Go(func() error {
		admins := d.db.WithContext(gctx).Model(&models.User{}).Select("id").Where("role = ?", models.RoleAdmin)
		err := d.db.WithContext(gctx).Model(&models.Message{}).
			Where("to_id = ? AND from_id IN (?)", userID, admins).
			Count(&out.AdminMessages).Error
		return wrapCount("admin messages", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapCount(what string, err error) error {
	if err != nil {
		return utils.NewInternalError("Error fetching "+what, err)
	}
	return nil
}
