// Package alerts is the health alert feed: notices for one student or the
// whole school, consumed newest-first.
package alerts

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

// CreateInput is the inbound alert shape. StudentID is either a student id
// or the literal "all" for a broadcast.
type CreateInput struct {
	StudentID string              `json:"studentId"`
	AlertType string              `json:"alertType"`
	Severity  model.AlertSeverity `json:"severity"`
	Message   string              `json:"message"`
	CreatedBy string              `json:"createdBy"`
}

// Create publishes an alert. Single-student targets must reference an
// existing student; broadcasts are always accepted.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Alert, error) {
	var target model.AlertTarget
	switch in.StudentID {
	case "":
		return model.Alert{}, fmt.Errorf("studentId is required")
	case "all":
		target = model.TargetAllStudents()
	default:
		if _, ok := s.store.Students.Get(in.StudentID); !ok {
			return model.Alert{}, fmt.Errorf("student %s not found", in.StudentID)
		}
		target = model.TargetStudent(in.StudentID)
	}
	if in.AlertType == "" {
		return model.Alert{}, fmt.Errorf("alertType is required")
	}
	if !in.Severity.Valid() {
		return model.Alert{}, fmt.Errorf("invalid severity %q", in.Severity)
	}
	if in.Message == "" {
		return model.Alert{}, fmt.Errorf("message is required")
	}

	alert := model.Alert{
		ID:        s.ids.NewID(),
		Target:    target,
		AlertType: in.AlertType,
		Severity:  in.Severity,
		Message:   in.Message,
		CreatedBy: in.CreatedBy,
		CreatedAt: s.now(),
	}
	s.store.Alerts.Add(ctx, alert)
	return alert, nil
}

// List returns the feed newest-first. A studentID filter keeps alerts
// addressed to that student plus broadcasts; unreadOnly drops read ones.
func (s *Service) List(studentID string, unreadOnly bool) []model.Alert {
	return s.store.Alerts.Query(func(a model.Alert) bool {
		if studentID != "" && !a.Target.Matches(studentID) {
			return false
		}
		if unreadOnly && a.IsRead {
			return false
		}
		return true
	})
}

// MarkRead flags an alert as read.
func (s *Service) MarkRead(ctx context.Context, id string) (model.Alert, error) {
	var updated model.Alert
	found := s.store.Alerts.Update(ctx, id, func(a model.Alert) model.Alert {
		a.IsRead = true
		updated = a
		return a
	})
	if !found {
		return model.Alert{}, store.ErrNotFound
	}
	return updated, nil
}

// Resolve stamps the alert resolved. Resolving twice keeps the first stamp.
func (s *Service) Resolve(ctx context.Context, id string) (model.Alert, error) {
	var updated model.Alert
	found := s.store.Alerts.Update(ctx, id, func(a model.Alert) model.Alert {
		if a.ResolvedAt == nil {
			ts := s.now()
			a.ResolvedAt = &ts
		}
		updated = a
		return a
	})
	if !found {
		return model.Alert{}, store.ErrNotFound
	}
	return updated, nil
}
