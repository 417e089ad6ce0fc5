// Package scheduling manages checkup appointments.
package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/store"
)

type Service struct {
	store *store.Store
	ids   *idgen.Generator
	now   func() time.Time
}

func NewService(st *store.Store, ids *idgen.Generator, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, ids: ids, now: now}
}

// Create books an appointment in Scheduled state.
func (s *Service) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	if a.StudentID == "" {
		return model.Appointment{}, fmt.Errorf("studentId is required")
	}
	if _, ok := s.store.Students.Get(a.StudentID); !ok {
		return model.Appointment{}, fmt.Errorf("student %s not found", a.StudentID)
	}
	if a.DoctorID == "" {
		return model.Appointment{}, fmt.Errorf("doctorId is required")
	}
	if a.AppointmentDate.IsZero() {
		return model.Appointment{}, fmt.Errorf("appointmentDate is required")
	}
	a.ID = s.ids.NewID()
	a.Status = model.AppointmentScheduled
	a.CreatedAt = s.now()
	s.store.Appointments.Add(ctx, a)
	return a, nil
}

// SetStatus moves an appointment out of Scheduled. Completed, Cancelled and
// No-show are terminal.
func (s *Service) SetStatus(ctx context.Context, id string, status model.AppointmentStatus) (model.Appointment, error) {
	if !status.Valid() {
		return model.Appointment{}, fmt.Errorf("invalid status %q", status)
	}
	var updated model.Appointment
	var terminal bool
	found := s.store.Appointments.Update(ctx, id, func(a model.Appointment) model.Appointment {
		if a.Status != model.AppointmentScheduled && status != a.Status {
			terminal = true
			updated = a
			return a
		}
		a.Status = status
		updated = a
		return a
	})
	if !found {
		return model.Appointment{}, store.ErrNotFound
	}
	if terminal {
		return model.Appointment{}, fmt.Errorf("appointment is already %s", updated.Status)
	}
	return updated, nil
}

// List returns appointments filtered by student, doctor and status; empty
// filters match everything.
func (s *Service) List(studentID, doctorID string, status model.AppointmentStatus) []model.Appointment {
	if studentID == "" && doctorID == "" && status == "" {
		return s.store.Appointments.List()
	}
	return s.store.Appointments.Query(func(a model.Appointment) bool {
		if studentID != "" && a.StudentID != studentID {
			return false
		}
		if doctorID != "" && a.DoctorID != doctorID {
			return false
		}
		if status != "" && a.Status != status {
			return false
		}
		return true
	})
}

// Upcoming returns scheduled appointments dated today or later.
func (s *Service) Upcoming() []model.Appointment {
	today := model.DateOf(s.now())
	return s.store.Appointments.Query(func(a model.Appointment) bool {
		return a.Status == model.AppointmentScheduled && !a.AppointmentDate.Before(today.Time)
	})
}
