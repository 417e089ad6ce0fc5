// Package store holds the eleven record collections that back every page of
// the dashboard. It is the single source of truth for a session: constructed
// once at startup, hydrated from the snapshot layer, and passed by handle to
// every consumer. The store is safe for concurrent readers and writers, but
// the system remains logically single-writer — there is no cross-record
// transaction and no optimistic versioning.
package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/platform/snapshot"
)

// snapshotKeyPrefix namespaces the snapshot slots so they cannot collide
// with unrelated keys in a shared backing store.
const snapshotKeyPrefix = "shrs_"

// ErrNotFound is returned by services when an id matches no record.
var ErrNotFound = errors.New("record not found")

// Seeds are the per-collection fallback values used when a snapshot slot is
// absent or unreadable. The zero value seeds every collection empty.
type Seeds struct {
	Students      []model.Student
	HealthRecords []model.HealthRecord
	Conditions    []model.MedicalCondition
	Allergies     []model.Allergy
	Contacts      []model.EmergencyContact
	Vaccinations  []model.Vaccination
	VisionTests   []model.VisionTest
	Alerts        []model.Alert
	Messages      []model.Message
	BloodRequests []model.BloodRequest
	Appointments  []model.Appointment
}

// Store is the entity store. Collections are exported for read access and
// plain mutations; mutations that span collections (cascade delete, primary
// contact demotion) go through Store methods so the invariants cannot be
// bypassed.
type Store struct {
	Students      *Collection[model.Student]
	HealthRecords *Collection[model.HealthRecord]
	Conditions    *Collection[model.MedicalCondition]
	Allergies     *Collection[model.Allergy]
	Contacts      *Collection[model.EmergencyContact]
	Vaccinations  *Collection[model.Vaccination]
	VisionTests   *Collection[model.VisionTest]
	Alerts        *Collection[model.Alert]
	Messages      *Collection[model.Message]
	BloodRequests *Collection[model.BloodRequest]
	Appointments  *Collection[model.Appointment]

	log zerolog.Logger
}

// New hydrates every collection from snap. Each slot is loaded
// independently: one corrupt slot falls back to its seed without affecting
// the others or failing startup.
func New(ctx context.Context, snap snapshot.Store, seeds Seeds, log zerolog.Logger) *Store {
	return &Store{
		Students:      newCollection(ctx, "students", false, snap, seeds.Students, log),
		HealthRecords: newCollection(ctx, "health_records", false, snap, seeds.HealthRecords, log),
		Conditions:    newCollection(ctx, "medical_conditions", false, snap, seeds.Conditions, log),
		Allergies:     newCollection(ctx, "allergies", false, snap, seeds.Allergies, log),
		Contacts:      newCollection(ctx, "emergency_contacts", false, snap, seeds.Contacts, log),
		Vaccinations:  newCollection(ctx, "vaccinations", false, snap, seeds.Vaccinations, log),
		VisionTests:   newCollection(ctx, "vision_tests", false, snap, seeds.VisionTests, log),
		Alerts:        newCollection(ctx, "alerts", true, snap, seeds.Alerts, log),
		Messages:      newCollection(ctx, "messages", true, snap, seeds.Messages, log),
		BloodRequests: newCollection(ctx, "blood_requests", false, snap, seeds.BloodRequests, log),
		Appointments:  newCollection(ctx, "appointments", false, snap, seeds.Appointments, log),
		log:           log,
	}
}

// RemoveStudent deletes a student and cascades to every dependent record:
// health records, conditions, allergies, contacts, vaccinations, vision
// tests, appointments, and alerts targeting that student alone. Broadcast
// alerts and messages are kept.
func (s *Store) RemoveStudent(ctx context.Context, id string) bool {
	if !s.Students.Remove(ctx, id) {
		return false
	}
	s.HealthRecords.RemoveWhere(ctx, func(r model.HealthRecord) bool { return r.StudentID == id })
	s.Conditions.RemoveWhere(ctx, func(r model.MedicalCondition) bool { return r.StudentID == id })
	s.Allergies.RemoveWhere(ctx, func(r model.Allergy) bool { return r.StudentID == id })
	s.Contacts.RemoveWhere(ctx, func(r model.EmergencyContact) bool { return r.StudentID == id })
	s.Vaccinations.RemoveWhere(ctx, func(r model.Vaccination) bool { return r.StudentID == id })
	s.VisionTests.RemoveWhere(ctx, func(r model.VisionTest) bool { return r.StudentID == id })
	s.Appointments.RemoveWhere(ctx, func(r model.Appointment) bool { return r.StudentID == id })
	s.Alerts.RemoveWhere(ctx, func(r model.Alert) bool {
		sid, ok := r.Target.Student()
		return ok && sid == id
	})
	return true
}

// AddContact inserts an emergency contact. If the new contact is primary,
// any existing primary contact for the same student is demoted first so at
// most one primary exists per student.
func (s *Store) AddContact(ctx context.Context, c model.EmergencyContact) {
	if c.IsPrimary {
		s.demoteOtherPrimaries(ctx, c.StudentID, c.ID)
	}
	s.Contacts.Add(ctx, c)
}

// UpdateContact applies an update to a contact and re-establishes the
// single-primary invariant when the update promotes it.
func (s *Store) UpdateContact(ctx context.Context, id string, apply func(model.EmergencyContact) model.EmergencyContact) bool {
	var updated model.EmergencyContact
	found := s.Contacts.Update(ctx, id, func(c model.EmergencyContact) model.EmergencyContact {
		updated = apply(c)
		return updated
	})
	if found && updated.IsPrimary {
		s.demoteOtherPrimaries(ctx, updated.StudentID, id)
	}
	return found
}

func (s *Store) demoteOtherPrimaries(ctx context.Context, studentID, keepID string) {
	for _, existing := range s.Contacts.Query(func(c model.EmergencyContact) bool {
		return c.StudentID == studentID && c.IsPrimary && c.ID != keepID
	}) {
		s.Contacts.Update(ctx, existing.ID, func(c model.EmergencyContact) model.EmergencyContact {
			c.IsPrimary = false
			return c
		})
	}
}
