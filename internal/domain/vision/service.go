// Package vision records vision screening results per student.
package vision

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

// Create records a vision screening.
func (s *Service) Create(ctx context.Context, v model.VisionTest) (model.VisionTest, error) {
	if v.StudentID == "" {
		return model.VisionTest{}, fmt.Errorf("studentId is required")
	}
	if _, ok := s.store.Students.Get(v.StudentID); !ok {
		return model.VisionTest{}, fmt.Errorf("student %s not found", v.StudentID)
	}
	if v.TestDate.IsZero() {
		return model.VisionTest{}, fmt.Errorf("testDate is required")
	}
	if !v.Result.Valid() {
		return model.VisionTest{}, fmt.Errorf("invalid result %q", v.Result)
	}
	v.ID = s.ids.NewID()
	s.store.VisionTests.Add(ctx, v)
	return v, nil
}

// List returns all screenings, or those of one student.
func (s *Service) List(studentID string) []model.VisionTest {
	if studentID == "" {
		return s.store.VisionTests.List()
	}
	return s.store.VisionTests.Query(func(v model.VisionTest) bool {
		return v.StudentID == studentID
	})
}

// Get returns one screening.
func (s *Service) Get(id string) (model.VisionTest, error) {
	v, ok := s.store.VisionTests.Get(id)
	if !ok {
		return model.VisionTest{}, store.ErrNotFound
	}
	return v, nil
}
