package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/platform/snapshot"
	"github.com/shrs/shrs/internal/store"
)

func testClock() time.Time {
	return time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	st := store.New(context.Background(), snapshot.NewMemory(), store.Seeds{}, zerolog.Nop())
	st.Students.Add(context.Background(), model.Student{ID: "stu-1"})
	return NewService(st, idgen.New(testClock), testClock)
}

func booking(t *testing.T, day string) model.Appointment {
	t.Helper()
	d, err := model.ParseDate(day)
	if err != nil {
		t.Fatalf("bad test date %q: %v", day, err)
	}
	return model.Appointment{
		StudentID:       "stu-1",
		DoctorID:        "doc-1",
		AppointmentDate: d,
		AppointmentType: "Annual Checkup",
	}
}

func TestCreate_StartsScheduled(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.Create(context.Background(), booking(t, "2024-09-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != model.AppointmentScheduled {
		t.Errorf("status = %q, want Scheduled", a.Status)
	}
	if !a.CreatedAt.Equal(testClock()) {
		t.Errorf("CreatedAt = %v, want stamped", a.CreatedAt)
	}
}

func TestCreate_Rejections(t *testing.T) {
	svc := newTestService(t)

	a := booking(t, "2024-09-10")
	a.StudentID = "ghost"
	if _, err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for unknown student")
	}

	a = booking(t, "2024-09-10")
	a.DoctorID = ""
	if _, err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for missing doctor")
	}

	a = booking(t, "2024-09-10")
	a.AppointmentDate = model.Date{}
	if _, err := svc.Create(context.Background(), a); err == nil {
		t.Error("expected error for missing date")
	}
}

func TestSetStatus_TerminalStates(t *testing.T) {
	svc := newTestService(t)
	a, _ := svc.Create(context.Background(), booking(t, "2024-09-10"))

	done, err := svc.SetStatus(context.Background(), a.ID, model.AppointmentCompleted)
	if err != nil || done.Status != model.AppointmentCompleted {
		t.Fatalf("SetStatus = %+v, %v", done, err)
	}
	// Completed is terminal; it cannot be reopened or re-routed.
	if _, err := svc.SetStatus(context.Background(), a.ID, model.AppointmentCancelled); err == nil {
		t.Error("expected error moving out of a terminal status")
	}
	// Re-asserting the same terminal status is a no-op, not an error.
	if _, err := svc.SetStatus(context.Background(), a.ID, model.AppointmentCompleted); err != nil {
		t.Errorf("idempotent terminal set = %v", err)
	}
}

func TestUpcoming(t *testing.T) {
	svc := newTestService(t)
	past, _ := svc.Create(context.Background(), booking(t, "2024-08-01"))
	today, _ := svc.Create(context.Background(), booking(t, "2024-09-01"))
	future, _ := svc.Create(context.Background(), booking(t, "2024-10-01"))
	cancelled, _ := svc.Create(context.Background(), booking(t, "2024-10-02"))
	svc.SetStatus(context.Background(), cancelled.ID, model.AppointmentCancelled)

	got := svc.Upcoming()
	ids := make(map[string]bool)
	for _, a := range got {
		ids[a.ID] = true
	}
	if ids[past.ID] {
		t.Error("past appointment should not be upcoming")
	}
	if !ids[today.ID] || !ids[future.ID] {
		t.Errorf("today and future should be upcoming: %v", ids)
	}
	if ids[cancelled.ID] {
		t.Error("cancelled appointment should not be upcoming")
	}
}

func TestList_Filters(t *testing.T) {
	svc := newTestService(t)
	svc.Create(context.Background(), booking(t, "2024-09-10"))
	other := booking(t, "2024-09-11")
	other.DoctorID = "doc-2"
	svc.Create(context.Background(), other)

	if got := svc.List("", "doc-2", ""); len(got) != 1 {
		t.Errorf("doctor filter = %d, want 1", len(got))
	}
	if got := svc.List("stu-1", "", model.AppointmentScheduled); len(got) != 2 {
		t.Errorf("student+status filter = %d, want 2", len(got))
	}
}
