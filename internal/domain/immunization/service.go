// Package immunization tracks vaccine doses per student.
package immunization

import (
	"context"
	"fmt"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/store"
)

type Service struct {
	store *store.Store
	ids   *idgen.Generator
}

func NewService(st *store.Store, ids *idgen.Generator) *Service {
	return &Service{store: st, ids: ids}
}

// Create records a vaccine dose. An administered date is only meaningful
// for completed doses: it is required for Completed and cleared otherwise.
func (s *Service) Create(ctx context.Context, v model.Vaccination) (model.Vaccination, error) {
	if v.StudentID == "" {
		return model.Vaccination{}, fmt.Errorf("studentId is required")
	}
	if _, ok := s.store.Students.Get(v.StudentID); !ok {
		return model.Vaccination{}, fmt.Errorf("student %s not found", v.StudentID)
	}
	if v.VaccineName == "" {
		return model.Vaccination{}, fmt.Errorf("vaccineName is required")
	}
	if v.DoseNumber < 1 {
		return model.Vaccination{}, fmt.Errorf("doseNumber must be at least 1")
	}
	if v.Status == "" {
		v.Status = model.VaccinationPending
	}
	if !v.Status.Valid() {
		return model.Vaccination{}, fmt.Errorf("invalid status %q", v.Status)
	}
	if v.Status == model.VaccinationCompleted {
		if v.AdministeredDate == nil {
			return model.Vaccination{}, fmt.Errorf("administeredDate is required for completed doses")
		}
	} else {
		v.AdministeredDate = nil
	}
	v.ID = s.ids.NewID()
	s.store.Vaccinations.Add(ctx, v)
	return v, nil
}

// MarkAdministered completes a pending or overdue dose.
func (s *Service) MarkAdministered(ctx context.Context, id string, date model.Date, administeredBy, batchNumber string) (model.Vaccination, error) {
	if date.IsZero() {
		return model.Vaccination{}, fmt.Errorf("administeredDate is required")
	}
	var updated model.Vaccination
	found := s.store.Vaccinations.Update(ctx, id, func(v model.Vaccination) model.Vaccination {
		v.Status = model.VaccinationCompleted
		v.AdministeredDate = &date
		if administeredBy != "" {
			v.AdministeredBy = administeredBy
		}
		if batchNumber != "" {
			v.BatchNumber = batchNumber
		}
		updated = v
		return v
	})
	if !found {
		return model.Vaccination{}, store.ErrNotFound
	}
	return updated, nil
}

// SetStatus moves a dose between Pending and Overdue. Completing a dose
// goes through MarkAdministered so the administered date is captured.
func (s *Service) SetStatus(ctx context.Context, id string, status model.VaccinationStatus) (model.Vaccination, error) {
	if !status.Valid() {
		return model.Vaccination{}, fmt.Errorf("invalid status %q", status)
	}
	if status == model.VaccinationCompleted {
		return model.Vaccination{}, fmt.Errorf("completed doses require an administered date")
	}
	var updated model.Vaccination
	found := s.store.Vaccinations.Update(ctx, id, func(v model.Vaccination) model.Vaccination {
		v.Status = status
		v.AdministeredDate = nil
		updated = v
		return v
	})
	if !found {
		return model.Vaccination{}, store.ErrNotFound
	}
	return updated, nil
}

// List returns vaccinations filtered by student and status; empty filters
// match everything.
func (s *Service) List(studentID string, status model.VaccinationStatus) []model.Vaccination {
	if studentID == "" && status == "" {
		return s.store.Vaccinations.List()
	}
	return s.store.Vaccinations.Query(func(v model.Vaccination) bool {
		if studentID != "" && v.StudentID != studentID {
			return false
		}
		if status != "" && v.Status != status {
			return false
		}
		return true
	})
}
