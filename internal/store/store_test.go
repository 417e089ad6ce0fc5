package store

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/platform/snapshot"
)

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func testStudent(t *testing.T, id string) model.Student {
	return model.Student{
		ID:            id,
		RollNumber:    "5A-01",
		StudentCode:   "SCH2024-001",
		FirstName:     "Asha",
		LastName:      "Rao",
		DateOfBirth:   date(t, "2012-03-10"),
		Gender:        model.GenderFemale,
		BloodGroup:    model.BloodOPos,
		Class:         "5",
		Section:       "A",
		AdmissionDate: date(t, "2018-06-01"),
	}
}

func newTestStore(t *testing.T, snap snapshot.Store, seeds Seeds) *Store {
	t.Helper()
	return New(context.Background(), snap, seeds, zerolog.Nop())
}

func TestStore_HydratesFromSeedWhenEmpty(t *testing.T) {
	seeds := Seeds{Students: []model.Student{testStudent(t, "stu-1")}}
	st := newTestStore(t, snapshot.NewMemory(), seeds)
	if st.Students.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Students.Len())
	}
	if _, ok := st.Students.Get("stu-1"); !ok {
		t.Error("seeded student missing")
	}
}

func TestStore_RoundTripThroughSnapshot(t *testing.T) {
	ctx := context.Background()
	snap := snapshot.NewMemory()

	st1 := newTestStore(t, snap, Seeds{})
	st1.Students.Add(ctx, testStudent(t, "stu-1"))
	st1.HealthRecords.Add(ctx, model.HealthRecord{
		ID: "hr-1", StudentID: "stu-1", CheckupDate: date(t, "2024-02-01"),
		Height: 165, Weight: 58.2, BMI: 21.4, BMICategory: model.BMINormal,
	})

	// A second store over the same snapshot sees the same records, even
	// with seeds supplied: hydration prefers the snapshot.
	st2 := newTestStore(t, snap, Seeds{Students: []model.Student{testStudent(t, "seed-only")}})
	if _, ok := st2.Students.Get("stu-1"); !ok {
		t.Error("student did not survive the snapshot round trip")
	}
	if _, ok := st2.Students.Get("seed-only"); ok {
		t.Error("seed must not apply when a snapshot slot exists")
	}
	if _, ok := st2.HealthRecords.Get("hr-1"); !ok {
		t.Error("health record did not survive the snapshot round trip")
	}
}

func TestStore_CorruptSlotFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	snap := snapshot.NewMemory()
	if err := snap.Set(ctx, "shrs_students", []byte("{not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	seeds := Seeds{Students: []model.Student{testStudent(t, "seed-1")}}
	st := newTestStore(t, snap, seeds)
	if _, ok := st.Students.Get("seed-1"); !ok {
		t.Error("corrupt slot should fall back to seed")
	}
	if st.Students.Len() != 1 {
		t.Errorf("Len = %d, want 1", st.Students.Len())
	}
}

func TestStore_CorruptSlotDoesNotAffectOthers(t *testing.T) {
	ctx := context.Background()
	snap := snapshot.NewMemory()
	snap.Set(ctx, "shrs_students", []byte("{not json"))
	snap.Set(ctx, "shrs_alerts", []byte(`[{"id":"al-1","studentId":"all","alertType":"flu","severity":"High","message":"m","isRead":false,"createdBy":"doc","createdAt":"2024-01-01T00:00:00Z"}]`))

	st := newTestStore(t, snap, Seeds{})
	if st.Students.Len() != 0 {
		t.Errorf("students Len = %d, want 0", st.Students.Len())
	}
	if _, ok := st.Alerts.Get("al-1"); !ok {
		t.Error("healthy slot should hydrate despite a corrupt sibling")
	}
}

func TestStore_AddIsIdempotentOnDuplicateID(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, snapshot.NewMemory(), Seeds{})
	st.Students.Add(ctx, testStudent(t, "stu-1"))
	st.Students.Add(ctx, testStudent(t, "stu-1"))
	if st.Students.Len() != 1 {
		t.Errorf("Len = %d, want 1 after duplicate add", st.Students.Len())
	}
}

func TestStore_FeedsPrependNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, snapshot.NewMemory(), Seeds{})
	st.Alerts.Add(ctx, model.Alert{ID: "al-1", Target: model.TargetAllStudents()})
	st.Alerts.Add(ctx, model.Alert{ID: "al-2", Target: model.TargetAllStudents()})

	list := st.Alerts.List()
	if len(list) != 2 || list[0].ID != "al-2" || list[1].ID != "al-1" {
		t.Errorf("alert order = %v, want newest first", []string{list[0].ID, list[1].ID})
	}

	st.Messages.Add(ctx, model.Message{ID: "m-1", SenderID: "a", RecipientID: "b"})
	st.Messages.Add(ctx, model.Message{ID: "m-2", SenderID: "a", RecipientID: "b"})
	msgs := st.Messages.List()
	if msgs[0].ID != "m-2" {
		t.Errorf("message order = %s first, want m-2", msgs[0].ID)
	}
}

func TestRemoveStudent_Cascades(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, snapshot.NewMemory(), Seeds{})
	st.Students.Add(ctx, testStudent(t, "stu-1"))
	st.Students.Add(ctx, testStudent(t, "stu-2"))

	st.HealthRecords.Add(ctx, model.HealthRecord{ID: "hr-1", StudentID: "stu-1"})
	st.Conditions.Add(ctx, model.MedicalCondition{ID: "mc-1", StudentID: "stu-1"})
	st.Allergies.Add(ctx, model.Allergy{ID: "ag-1", StudentID: "stu-1"})
	st.Contacts.Add(ctx, model.EmergencyContact{ID: "ec-1", StudentID: "stu-1"})
	st.Vaccinations.Add(ctx, model.Vaccination{ID: "vc-1", StudentID: "stu-1"})
	st.VisionTests.Add(ctx, model.VisionTest{ID: "vt-1", StudentID: "stu-1"})
	st.Appointments.Add(ctx, model.Appointment{ID: "ap-1", StudentID: "stu-1"})
	st.Alerts.Add(ctx, model.Alert{ID: "al-1", Target: model.TargetStudent("stu-1")})
	st.Alerts.Add(ctx, model.Alert{ID: "al-2", Target: model.TargetAllStudents()})
	st.HealthRecords.Add(ctx, model.HealthRecord{ID: "hr-2", StudentID: "stu-2"})

	if !st.RemoveStudent(ctx, "stu-1") {
		t.Fatal("RemoveStudent returned false")
	}

	for name, gone := range map[string]bool{
		"health record": func() bool { _, ok := st.HealthRecords.Get("hr-1"); return !ok }(),
		"condition":     func() bool { _, ok := st.Conditions.Get("mc-1"); return !ok }(),
		"allergy":       func() bool { _, ok := st.Allergies.Get("ag-1"); return !ok }(),
		"contact":       func() bool { _, ok := st.Contacts.Get("ec-1"); return !ok }(),
		"vaccination":   func() bool { _, ok := st.Vaccinations.Get("vc-1"); return !ok }(),
		"vision test":   func() bool { _, ok := st.VisionTests.Get("vt-1"); return !ok }(),
		"appointment":   func() bool { _, ok := st.Appointments.Get("ap-1"); return !ok }(),
		"single alert":  func() bool { _, ok := st.Alerts.Get("al-1"); return !ok }(),
	} {
		if !gone {
			t.Errorf("%s was not cascaded", name)
		}
	}

	if _, ok := st.Alerts.Get("al-2"); !ok {
		t.Error("broadcast alert must survive the cascade")
	}
	if _, ok := st.HealthRecords.Get("hr-2"); !ok {
		t.Error("other student's record must survive the cascade")
	}
}

func TestRemoveStudent_Missing(t *testing.T) {
	st := newTestStore(t, snapshot.NewMemory(), Seeds{})
	if st.RemoveStudent(context.Background(), "nope") {
		t.Error("RemoveStudent on missing id should return false")
	}
}

func TestAddContact_DemotesExistingPrimary(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, snapshot.NewMemory(), Seeds{})
	st.AddContact(ctx, model.EmergencyContact{ID: "ec-1", StudentID: "stu-1", ContactName: "A", IsPrimary: true})
	st.AddContact(ctx, model.EmergencyContact{ID: "ec-2", StudentID: "stu-1", ContactName: "B", IsPrimary: true})
	// A different student's primary is untouched.
	st.AddContact(ctx, model.EmergencyContact{ID: "ec-3", StudentID: "stu-2", ContactName: "C", IsPrimary: true})

	first, _ := st.Contacts.Get("ec-1")
	if first.IsPrimary {
		t.Error("previous primary should be demoted")
	}
	second, _ := st.Contacts.Get("ec-2")
	if !second.IsPrimary {
		t.Error("new contact should be primary")
	}
	other, _ := st.Contacts.Get("ec-3")
	if !other.IsPrimary {
		t.Error("other student's primary should be untouched")
	}
}

func TestUpdateContact_PromotionDemotesOthers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, snapshot.NewMemory(), Seeds{})
	st.AddContact(ctx, model.EmergencyContact{ID: "ec-1", StudentID: "stu-1", IsPrimary: true})
	st.AddContact(ctx, model.EmergencyContact{ID: "ec-2", StudentID: "stu-1", IsPrimary: false})

	found := st.UpdateContact(ctx, "ec-2", func(c model.EmergencyContact) model.EmergencyContact {
		c.IsPrimary = true
		return c
	})
	if !found {
		t.Fatal("UpdateContact returned false")
	}

	first, _ := st.Contacts.Get("ec-1")
	second, _ := st.Contacts.Get("ec-2")
	if first.IsPrimary || !second.IsPrimary {
		t.Errorf("primary flags = %v,%v, want false,true", first.IsPrimary, second.IsPrimary)
	}
}
