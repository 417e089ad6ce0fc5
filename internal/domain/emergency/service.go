// Package emergency manages per-student emergency contacts. The primary
// flag is exclusive per student; the store demotes competing primaries.
package emergency

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

// Create stores a contact, demoting any existing primary when the new
// contact is marked primary.
func (s *Service) Create(ctx context.Context, contact model.EmergencyContact) (model.EmergencyContact, error) {
	if contact.StudentID == "" {
		return model.EmergencyContact{}, fmt.Errorf("studentId is required")
	}
	if _, ok := s.store.Students.Get(contact.StudentID); !ok {
		return model.EmergencyContact{}, fmt.Errorf("student %s not found", contact.StudentID)
	}
	if contact.ContactName == "" {
		return model.EmergencyContact{}, fmt.Errorf("contactName is required")
	}
	if contact.PhonePrimary == "" {
		return model.EmergencyContact{}, fmt.Errorf("phonePrimary is required")
	}
	if contact.Relationship == "" {
		contact.Relationship = "Guardian"
	}
	contact.ID = s.ids.NewID()
	s.store.AddContact(ctx, contact)
	return contact, nil
}

// Patch is a partial contact update; nil fields are left untouched.
type Patch struct {
	ContactName    *string `json:"contactName"`
	Relationship   *string `json:"relationship"`
	PhonePrimary   *string `json:"phonePrimary"`
	PhoneSecondary *string `json:"phoneSecondary"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	IsPrimary      *bool   `json:"isPrimary"`
}

// Update merges a patch onto a stored contact. Promoting a contact to
// primary demotes the student's previous primary.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (model.EmergencyContact, error) {
	var updated model.EmergencyContact
	found := s.store.UpdateContact(ctx, id, func(c model.EmergencyContact) model.EmergencyContact {
		if patch.ContactName != nil {
			c.ContactName = *patch.ContactName
		}
		if patch.Relationship != nil {
			c.Relationship = *patch.Relationship
		}
		if patch.PhonePrimary != nil {
			c.PhonePrimary = *patch.PhonePrimary
		}
		if patch.PhoneSecondary != nil {
			c.PhoneSecondary = *patch.PhoneSecondary
		}
		if patch.Email != nil {
			c.Email = *patch.Email
		}
		if patch.Address != nil {
			c.Address = *patch.Address
		}
		if patch.IsPrimary != nil {
			c.IsPrimary = *patch.IsPrimary
		}
		updated = c
		return c
	})
	if !found {
		return model.EmergencyContact{}, store.ErrNotFound
	}
	return updated, nil
}

// List returns all contacts, or those of one student.
func (s *Service) List(studentID string) []model.EmergencyContact {
	if studentID == "" {
		return s.store.Contacts.List()
	}
	return s.store.Contacts.Query(func(c model.EmergencyContact) bool {
		return c.StudentID == studentID
	})
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.store.Contacts.Remove(ctx, id) {
		return store.ErrNotFound
	}
	return nil
}
