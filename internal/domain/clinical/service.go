// Package clinical owns per-student medical data: checkup health records
// (with derived BMI), diagnosed conditions, and allergies.
package clinical

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

func (s *Service) requireStudent(id string) error {
	if id == "" {
		return fmt.Errorf("studentId is required")
	}
	if _, ok := s.store.Students.Get(id); !ok {
		return fmt.Errorf("student %s not found", id)
	}
	return nil
}

// -- Health records --

// CreateHealthRecord stores a checkup. BMI and its category are derived
// from height and weight here; values supplied by the caller are ignored.
func (s *Service) CreateHealthRecord(ctx context.Context, hr model.HealthRecord) (model.HealthRecord, error) {
	if err := s.requireStudent(hr.StudentID); err != nil {
		return model.HealthRecord{}, err
	}
	if hr.CheckupDate.IsZero() {
		return model.HealthRecord{}, fmt.Errorf("checkupDate is required")
	}
	if hr.Height <= 0 {
		return model.HealthRecord{}, fmt.Errorf("height must be positive")
	}
	if hr.Weight <= 0 {
		return model.HealthRecord{}, fmt.Errorf("weight must be positive")
	}
	hr.ID = s.ids.NewID()
	hr.DeriveBMI()
	s.store.HealthRecords.Add(ctx, hr)
	return hr, nil
}

// HealthRecordPatch is a partial health record update.
type HealthRecordPatch struct {
	CheckupDate     *string  `json:"checkupDate"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	BloodPressure   *string  `json:"bloodPressure"`
	Temperature     *float64 `json:"temperature"`
	PulseRate       *int     `json:"pulseRate"`
	Notes           *string  `json:"notes"`
	NextCheckupDate *string  `json:"nextCheckupDate"`
}

// UpdateHealthRecord merges a patch and re-derives the BMI fields.
func (s *Service) UpdateHealthRecord(ctx context.Context, id string, patch HealthRecordPatch) (model.HealthRecord, error) {
	checkup, err := parseOptionalDate(patch.CheckupDate, "checkupDate")
	if err != nil {
		return model.HealthRecord{}, err
	}
	next, err := parseOptionalDate(patch.NextCheckupDate, "nextCheckupDate")
	if err != nil {
		return model.HealthRecord{}, err
	}
	if patch.Height != nil && *patch.Height <= 0 {
		return model.HealthRecord{}, fmt.Errorf("height must be positive")
	}
	if patch.Weight != nil && *patch.Weight <= 0 {
		return model.HealthRecord{}, fmt.Errorf("weight must be positive")
	}

	var updated model.HealthRecord
	found := s.store.HealthRecords.Update(ctx, id, func(hr model.HealthRecord) model.HealthRecord {
		if checkup != nil {
			hr.CheckupDate = *checkup
		}
		if patch.Height != nil {
			hr.Height = *patch.Height
		}
		if patch.Weight != nil {
			hr.Weight = *patch.Weight
		}
		if patch.BloodPressure != nil {
			hr.BloodPressure = *patch.BloodPressure
		}
		if patch.Temperature != nil {
			hr.Temperature = *patch.Temperature
		}
		if patch.PulseRate != nil {
			hr.PulseRate = patch.PulseRate
		}
		if patch.Notes != nil {
			hr.Notes = *patch.Notes
		}
		if next != nil {
			hr.NextCheckupDate = next
		}
		hr.DeriveBMI()
		updated = hr
		return hr
	})
	if !found {
		return model.HealthRecord{}, store.ErrNotFound
	}
	return updated, nil
}

// ListHealthRecords returns all records, or those of one student.
func (s *Service) ListHealthRecords(studentID string) []model.HealthRecord {
	if studentID == "" {
		return s.store.HealthRecords.List()
	}
	return s.store.HealthRecords.Query(func(hr model.HealthRecord) bool {
		return hr.StudentID == studentID
	})
}

// GetHealthRecord returns one record.
func (s *Service) GetHealthRecord(id string) (model.HealthRecord, error) {
	hr, ok := s.store.HealthRecords.Get(id)
	if !ok {
		return model.HealthRecord{}, store.ErrNotFound
	}
	return hr, nil
}

// -- Medical conditions --

// CreateCondition stores a diagnosed condition. New conditions start active.
func (s *Service) CreateCondition(ctx context.Context, c model.MedicalCondition) (model.MedicalCondition, error) {
	if err := s.requireStudent(c.StudentID); err != nil {
		return model.MedicalCondition{}, err
	}
	if c.ConditionName == "" {
		return model.MedicalCondition{}, fmt.Errorf("conditionName is required")
	}
	if c.DiagnosisDate.IsZero() {
		return model.MedicalCondition{}, fmt.Errorf("diagnosisDate is required")
	}
	if !c.Severity.Valid() {
		return model.MedicalCondition{}, fmt.Errorf("invalid severity %q", c.Severity)
	}
	c.ID = s.ids.NewID()
	c.IsActive = true
	s.store.Conditions.Add(ctx, c)
	return c, nil
}

// SetConditionActive flips the mutable active flag.
func (s *Service) SetConditionActive(ctx context.Context, id string, active bool) (model.MedicalCondition, error) {
	var updated model.MedicalCondition
	found := s.store.Conditions.Update(ctx, id, func(c model.MedicalCondition) model.MedicalCondition {
		c.IsActive = active
		updated = c
		return c
	})
	if !found {
		return model.MedicalCondition{}, store.ErrNotFound
	}
	return updated, nil
}

// ListConditions returns all conditions, or those of one student.
func (s *Service) ListConditions(studentID string) []model.MedicalCondition {
	if studentID == "" {
		return s.store.Conditions.List()
	}
	return s.store.Conditions.Query(func(c model.MedicalCondition) bool {
		return c.StudentID == studentID
	})
}

// -- Allergies --

// CreateAllergy stores an allergy record.
func (s *Service) CreateAllergy(ctx context.Context, a model.Allergy) (model.Allergy, error) {
	if err := s.requireStudent(a.StudentID); err != nil {
		return model.Allergy{}, err
	}
	if !a.AllergyType.Valid() {
		return model.Allergy{}, fmt.Errorf("invalid allergyType %q", a.AllergyType)
	}
	if a.Allergen == "" {
		return model.Allergy{}, fmt.Errorf("allergen is required")
	}
	if !a.Severity.Valid() {
		return model.Allergy{}, fmt.Errorf("invalid severity %q", a.Severity)
	}
	a.ID = s.ids.NewID()
	s.store.Allergies.Add(ctx, a)
	return a, nil
}

// ListAllergies returns all allergies, or those of one student.
func (s *Service) ListAllergies(studentID string) []model.Allergy {
	if studentID == "" {
		return s.store.Allergies.List()
	}
	return s.store.Allergies.Query(func(a model.Allergy) bool {
		return a.StudentID == studentID
	})
}

// RemoveAllergy deletes an allergy record.
func (s *Service) RemoveAllergy(ctx context.Context, id string) error {
	if !s.store.Allergies.Remove(ctx, id) {
		return store.ErrNotFound
	}
	return nil
}

func parseOptionalDate(s *string, field string) (*model.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &d, nil
}
