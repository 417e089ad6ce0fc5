// Package students owns the Student roster: manual creation through the
// shared validation pipeline, partial updates, and cascade deletion.
package students

import (
	"context"
	"fmt"
	"time"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/store"
	"github.com/shrs/shrs/internal/validation"
)

type Service struct {
	store *store.Store
	ids   *idgen.Generator
	now   func() time.Time
}

// NewService wires the roster service. A nil clock uses time.Now.
func NewService(st *store.Store, ids *idgen.Generator, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, ids: ids, now: now}
}

// Create validates a raw row with the same pipeline the bulk importer uses
// and, when valid, stores the student plus an optional primary emergency
// contact built from the guardian fields.
func (s *Service) Create(ctx context.Context, row validation.StudentRow) (model.Student, error) {
	res := validation.ValidateStudentRow(row)
	if !res.Valid {
		return model.Student{}, &validation.Error{Fields: res.Errors}
	}

	now := s.now()
	v := res.Student
	student := model.Student{
		ID:            s.ids.NewID(),
		RollNumber:    s.ids.RollNumber(v.Class, v.Section),
		StudentCode:   s.ids.StudentCode(),
		FirstName:     v.FirstName,
		LastName:      v.LastName,
		DateOfBirth:   v.DateOfBirth,
		Gender:        v.Gender,
		BloodGroup:    v.BloodGroup,
		Class:         v.Class,
		Section:       v.Section,
		AdmissionDate: v.AdmissionDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.store.Students.Add(ctx, student)

	if p := v.Parent; p != nil {
		s.store.AddContact(ctx, model.EmergencyContact{
			ID:           s.ids.NewID(),
			StudentID:    student.ID,
			ContactName:  p.Name,
			Relationship: p.Relationship,
			PhonePrimary: p.Phone,
			Email:        p.Email,
			IsPrimary:    true,
		})
	}
	return student, nil
}

// Patch is a partial student update; nil fields are left untouched.
// Generated identifiers and timestamps cannot be patched.
type Patch struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
	BloodGroup  *string `json:"bloodGroup"`
	Class       *string `json:"class"`
	Section     *string `json:"section"`
}

// Update merges a patch onto the stored student and stamps UpdatedAt.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (model.Student, error) {
	var dob *model.Date
	if patch.DateOfBirth != nil {
		d, err := model.ParseDate(*patch.DateOfBirth)
		if err != nil {
			return model.Student{}, fmt.Errorf("dateOfBirth: %w", err)
		}
		dob = &d
	}
	if patch.Gender != nil && !model.Gender(*patch.Gender).Valid() {
		return model.Student{}, fmt.Errorf("invalid gender %q", *patch.Gender)
	}
	if patch.BloodGroup != nil && !model.BloodGroup(*patch.BloodGroup).Valid() {
		return model.Student{}, fmt.Errorf("invalid bloodGroup %q", *patch.BloodGroup)
	}
	if patch.Class != nil && !model.ValidClass(*patch.Class) {
		return model.Student{}, fmt.Errorf("invalid class %q", *patch.Class)
	}
	if patch.Section != nil && !model.ValidSection(*patch.Section) {
		return model.Student{}, fmt.Errorf("invalid section %q", *patch.Section)
	}

	var updated model.Student
	found := s.store.Students.Update(ctx, id, func(st model.Student) model.Student {
		if patch.FirstName != nil {
			st.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			st.LastName = *patch.LastName
		}
		if dob != nil {
			st.DateOfBirth = *dob
		}
		if patch.Gender != nil {
			st.Gender = model.Gender(*patch.Gender)
		}
		if patch.BloodGroup != nil {
			st.BloodGroup = model.BloodGroup(*patch.BloodGroup)
		}
		if patch.Class != nil {
			st.Class = *patch.Class
		}
		if patch.Section != nil {
			st.Section = *patch.Section
		}
		st.UpdatedAt = s.now()
		updated = st
		return st
	})
	if !found {
		return model.Student{}, store.ErrNotFound
	}
	return updated, nil
}

// Get returns one student.
func (s *Service) Get(id string) (model.Student, error) {
	st, ok := s.store.Students.Get(id)
	if !ok {
		return model.Student{}, store.ErrNotFound
	}
	return st, nil
}

// List returns students, optionally filtered by class and section.
func (s *Service) List(class, section string) []model.Student {
	if class == "" && section == "" {
		return s.store.Students.List()
	}
	return s.store.Students.Query(func(st model.Student) bool {
		if class != "" && st.Class != class {
			return false
		}
		if section != "" && st.Section != section {
			return false
		}
		return true
	})
}

// Delete removes a student and cascades to every dependent record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.store.RemoveStudent(ctx, id) {
		return store.ErrNotFound
	}
	return nil
}
