// Package inbox is direct messaging between dashboard users.
package inbox

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

// Send stores a message; it lands at the top of the recipient's inbox.
func (s *Service) Send(ctx context.Context, m model.Message) (model.Message, error) {
	if m.SenderID == "" {
		return model.Message{}, fmt.Errorf("senderId is required")
	}
	if m.RecipientID == "" {
		return model.Message{}, fmt.Errorf("recipientId is required")
	}
	if m.Body == "" {
		return model.Message{}, fmt.Errorf("message is required")
	}
	m.ID = s.ids.NewID()
	m.IsRead = false
	m.CreatedAt = s.now()
	s.store.Messages.Add(ctx, m)
	return m, nil
}

// Inbox returns messages addressed to a user, newest-first.
func (s *Service) Inbox(userID string, unreadOnly bool) []model.Message {
	return s.store.Messages.Query(func(m model.Message) bool {
		if m.RecipientID != userID {
			return false
		}
		if unreadOnly && m.IsRead {
			return false
		}
		return true
	})
}

// Sent returns messages a user has sent, newest-first.
func (s *Service) Sent(userID string) []model.Message {
	return s.store.Messages.Query(func(m model.Message) bool {
		return m.SenderID == userID
	})
}

// MarkRead flags a message as read.
func (s *Service) MarkRead(ctx context.Context, id string) (model.Message, error) {
	var updated model.Message
	found := s.store.Messages.Update(ctx, id, func(m model.Message) model.Message {
		m.IsRead = true
		updated = m
		return m
	})
	if !found {
		return model.Message{}, store.ErrNotFound
	}
	return updated, nil
}
