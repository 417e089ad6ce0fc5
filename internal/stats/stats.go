// Package stats computes derived dashboard statistics. Every function is a
// read-only scan over the entity store: deterministic for a given store
// snapshot and "now", with no side effects. A foreign key that matches no
// student is treated as "no match" and skipped, never an error.
package stats

import (
	"time"

	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/store"
)

// DefaultCheckupWindow is how recent a checkup must be before a student
// counts as pending another one.
const DefaultCheckupWindow = 6 * 30 * 24 * time.Hour

// Engine computes aggregations over a store handle.
type Engine struct {
	store *store.Store
}

// New returns an Engine reading from st.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// BMIBucket is one bar of the BMI distribution.
type BMIBucket struct {
	Category model.BMICategory `json:"category"`
	Count    int               `json:"count"`
}

// BMIDistribution buckets every health record by BMI category. All four
// buckets are always present, in ascending order.
func (e *Engine) BMIDistribution() []BMIBucket {
	counts := make(map[model.BMICategory]int)
	for _, r := range e.store.HealthRecords.List() {
		counts[r.BMICategory]++
	}
	out := make([]BMIBucket, 0, 4)
	for _, c := range model.AllBMICategories() {
		out = append(out, BMIBucket{Category: c, Count: counts[c]})
	}
	return out
}

// Compliance summarizes vaccination progress.
type Compliance struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Pending   int     `json:"pending"`
	Overdue   int     `json:"overdue"`
	Rate      float64 `json:"rate"`
}

// VaccinationCompliance counts vaccinations by status. The rate is
// completed/total and is 0 for an empty collection.
func (e *Engine) VaccinationCompliance() Compliance {
	var c Compliance
	for _, v := range e.store.Vaccinations.List() {
		c.Total++
		switch v.Status {
		case model.VaccinationCompleted:
			c.Completed++
		case model.VaccinationPending:
			c.Pending++
		case model.VaccinationOverdue:
			c.Overdue++
		}
	}
	if c.Total > 0 {
		c.Rate = float64(c.Completed) / float64(c.Total)
	}
	return c
}

// BloodGroupBucket is one bar of the blood-group distribution.
type BloodGroupBucket struct {
	BloodGroup model.BloodGroup `json:"bloodGroup"`
	Count      int              `json:"count"`
}

// BloodGroupDistribution counts students per blood group across the fixed
// 8-value domain. Buckets with zero students are always included.
func (e *Engine) BloodGroupDistribution() []BloodGroupBucket {
	counts := make(map[model.BloodGroup]int)
	for _, s := range e.store.Students.List() {
		counts[s.BloodGroup]++
	}
	out := make([]BloodGroupBucket, 0, 8)
	for _, g := range model.AllBloodGroups() {
		out = append(out, BloodGroupBucket{BloodGroup: g, Count: counts[g]})
	}
	return out
}

// PendingStudent is one student due for a checkup.
type PendingStudent struct {
	StudentID   string      `json:"studentId"`
	Name        string      `json:"name"`
	Class       string      `json:"class"`
	Section     string      `json:"section"`
	LastCheckup *model.Date `json:"lastCheckup,omitempty"`
}

// CheckupStatus summarizes checkup recency across the student body.
type CheckupStatus struct {
	UpToDate int              `json:"upToDate"`
	Pending  int              `json:"pending"`
	Students []PendingStudent `json:"pendingStudents"`
}

// CheckupReport joins students against their most recent health record. A
// student with no record, or whose latest checkup is older than the window
// measured back from now, is pending. Health records whose studentId
// matches no student are skipped.
func (e *Engine) CheckupReport(now time.Time, window time.Duration) CheckupStatus {
	if window <= 0 {
		window = DefaultCheckupWindow
	}
	cutoff := now.Add(-window)

	// Most recent checkup per student.
	latest := make(map[string]model.Date)
	for _, r := range e.store.HealthRecords.List() {
		if cur, ok := latest[r.StudentID]; !ok || r.CheckupDate.After(cur.Time) {
			latest[r.StudentID] = r.CheckupDate
		}
	}

	var out CheckupStatus
	for _, s := range e.store.Students.List() {
		last, ok := latest[s.ID]
		if ok && !last.Before(cutoff) {
			out.UpToDate++
			continue
		}
		out.Pending++
		p := PendingStudent{
			StudentID: s.ID,
			Name:      s.FullName(),
			Class:     s.Class,
			Section:   s.Section,
		}
		if ok {
			d := last
			p.LastCheckup = &d
		}
		out.Students = append(out.Students, p)
	}
	return out
}
