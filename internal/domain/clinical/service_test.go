package clinical

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/platform/snapshot"
	"github.com/shrs/shrs/internal/store"
)

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.New(context.Background(), snapshot.NewMemory(), store.Seeds{}, zerolog.Nop())
	st.Students.Add(context.Background(), model.Student{ID: "stu-1", FirstName: "Asha", LastName: "Rao"})
	return NewService(st, idgen.New(nil)), st
}

func TestCreateHealthRecord_DerivesBMI(t *testing.T) {
	svc, _ := newTestService(t)
	hr, err := svc.CreateHealthRecord(context.Background(), model.HealthRecord{
		StudentID:   "stu-1",
		CheckupDate: date(t, "2024-02-01"),
		Height:      165,
		Weight:      58.2,
		BMI:         99,        // caller-supplied, must be overwritten
		BMICategory: "Invalid", // likewise
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hr.BMI != 21.4 || hr.BMICategory != model.BMINormal {
		t.Errorf("derived = %v %q, want 21.4 Normal", hr.BMI, hr.BMICategory)
	}
}

func TestCreateHealthRecord_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	base := model.HealthRecord{StudentID: "stu-1", CheckupDate: date(t, "2024-02-01"), Height: 165, Weight: 58}

	missing := base
	missing.StudentID = "ghost"
	if _, err := svc.CreateHealthRecord(context.Background(), missing); err == nil {
		t.Error("expected error for unknown student")
	}

	noDate := base
	noDate.CheckupDate = model.Date{}
	if _, err := svc.CreateHealthRecord(context.Background(), noDate); err == nil {
		t.Error("expected error for missing checkupDate")
	}

	badHeight := base
	badHeight.Height = 0
	if _, err := svc.CreateHealthRecord(context.Background(), badHeight); err == nil {
		t.Error("expected error for zero height")
	}

	badWeight := base
	badWeight.Weight = -1
	if _, err := svc.CreateHealthRecord(context.Background(), badWeight); err == nil {
		t.Error("expected error for negative weight")
	}
}

func TestUpdateHealthRecord_RederivesBMI(t *testing.T) {
	svc, _ := newTestService(t)
	hr, _ := svc.CreateHealthRecord(context.Background(), model.HealthRecord{
		StudentID: "stu-1", CheckupDate: date(t, "2024-02-01"), Height: 165, Weight: 58.2,
	})

	weight := 90.0
	updated, err := svc.UpdateHealthRecord(context.Background(), hr.ID, HealthRecordPatch{Weight: &weight})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.BMI != 33.1 || updated.BMICategory != model.BMIObese {
		t.Errorf("re-derived = %v %q, want 33.1 Obese", updated.BMI, updated.BMICategory)
	}
	if updated.Height != 165 {
		t.Errorf("untouched height changed: %v", updated.Height)
	}
}

func TestUpdateHealthRecord_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.UpdateHealthRecord(context.Background(), "nope", HealthRecordPatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateCondition_StartsActive(t *testing.T) {
	svc, _ := newTestService(t)
	c, err := svc.CreateCondition(context.Background(), model.MedicalCondition{
		StudentID:     "stu-1",
		ConditionName: "Asthma",
		DiagnosisDate: date(t, "2023-01-15"),
		Severity:      model.SeverityModerate,
		IsActive:      false, // ignored on create
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsActive {
		t.Error("new conditions must start active")
	}
}

func TestSetConditionActive(t *testing.T) {
	svc, _ := newTestService(t)
	c, _ := svc.CreateCondition(context.Background(), model.MedicalCondition{
		StudentID: "stu-1", ConditionName: "Asthma",
		DiagnosisDate: date(t, "2023-01-15"), Severity: model.SeverityMild,
	})
	updated, err := svc.SetConditionActive(context.Background(), c.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.IsActive {
		t.Error("condition should be inactive after toggle")
	}
}

func TestCreateAllergy_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	good := model.Allergy{
		StudentID: "stu-1", AllergyType: model.AllergyFood,
		Allergen: "Peanuts", Severity: model.AllergySevere,
	}
	if _, err := svc.CreateAllergy(context.Background(), good); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := good
	bad.AllergyType = "Mystery"
	if _, err := svc.CreateAllergy(context.Background(), bad); err == nil {
		t.Error("expected error for unknown allergy type")
	}
	bad = good
	bad.Allergen = ""
	if _, err := svc.CreateAllergy(context.Background(), bad); err == nil {
		t.Error("expected error for missing allergen")
	}
}

func TestRemoveAllergy(t *testing.T) {
	svc, _ := newTestService(t)
	a, _ := svc.CreateAllergy(context.Background(), model.Allergy{
		StudentID: "stu-1", AllergyType: model.AllergyFood, Allergen: "Peanuts", Severity: model.AllergyMild,
	})
	if err := svc.RemoveAllergy(context.Background(), a.ID); err != nil {
		t.Fatalf("RemoveAllergy: %v", err)
	}
	if err := svc.RemoveAllergy(context.Background(), a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second remove = %v, want ErrNotFound", err)
	}
}
