// Package bloodbank handles blood requests and donor lookup against the
// student roster.
package bloodbank

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

// Create opens a blood request in Pending state.
func (s *Service) Create(ctx context.Context, r model.BloodRequest) (model.BloodRequest, error) {
	if !r.BloodGroup.Valid() {
		return model.BloodRequest{}, fmt.Errorf("invalid bloodGroup %q", r.BloodGroup)
	}
	if r.UnitsRequired < 1 {
		return model.BloodRequest{}, fmt.Errorf("unitsRequired must be at least 1")
	}
	if !r.Urgency.Valid() {
		return model.BloodRequest{}, fmt.Errorf("invalid urgency %q", r.Urgency)
	}
	if r.RequestedBy == "" {
		return model.BloodRequest{}, fmt.Errorf("requestedBy is required")
	}
	r.ID = s.ids.NewID()
	r.Status = model.RequestPending
	r.RequestedAt = s.now()
	s.store.BloodRequests.Add(ctx, r)
	return r, nil
}

// SetStatus moves a request to Fulfilled or Cancelled. Closed requests
// cannot be reopened.
func (s *Service) SetStatus(ctx context.Context, id string, status model.BloodRequestStatus) (model.BloodRequest, error) {
	if !status.Valid() {
		return model.BloodRequest{}, fmt.Errorf("invalid status %q", status)
	}
	var updated model.BloodRequest
	var closed bool
	found := s.store.BloodRequests.Update(ctx, id, func(r model.BloodRequest) model.BloodRequest {
		if r.Status != model.RequestPending && status != r.Status {
			closed = true
			updated = r
			return r
		}
		r.Status = status
		updated = r
		return r
	})
	if !found {
		return model.BloodRequest{}, store.ErrNotFound
	}
	if closed {
		return model.BloodRequest{}, fmt.Errorf("request is already %s", updated.Status)
	}
	return updated, nil
}

// List returns requests, optionally filtered by status.
func (s *Service) List(status model.BloodRequestStatus) []model.BloodRequest {
	if status == "" {
		return s.store.BloodRequests.List()
	}
	return s.store.BloodRequests.Query(func(r model.BloodRequest) bool {
		return r.Status == status
	})
}

// Donors returns students whose blood group matches the requested one.
func (s *Service) Donors(group model.BloodGroup) ([]model.Student, error) {
	if !group.Valid() {
		return nil, fmt.Errorf("invalid bloodGroup %q", group)
	}
	return s.store.Students.Query(func(st model.Student) bool {
		return st.BloodGroup == group
	}), nil
}
