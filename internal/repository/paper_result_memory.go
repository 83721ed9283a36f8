package repository

import (
	"context"
	"sync"

	"github.com/edupulse/school-portal-api/internal/grading"
)

// MemoryPaperResultStore keeps result lists in process memory. It backs tests
// and deployments that do not need durable class records.
type MemoryPaperResultStore struct {
	mu    sync.RWMutex
	lists map[uint][]grading.PaperResult
}

// NewMemoryPaperResultStore constructs an empty in-memory store.
func NewMemoryPaperResultStore() *MemoryPaperResultStore {
	return &MemoryPaperResultStore{lists: make(map[uint][]grading.PaperResult)}
}

func (s *MemoryPaperResultStore) List(_ context.Context, teacherID uint) ([]grading.PaperResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.lists[teacherID]
	out := make([]grading.PaperResult, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryPaperResultStore) Create(_ context.Context, teacherID uint, result grading.PaperResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[teacherID] = append(s.lists[teacherID], result)
	return nil
}

func (s *MemoryPaperResultStore) Delete(_ context.Context, teacherID uint, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[teacherID]
	for i, result := range list {
		if result.ID == id {
			s.lists[teacherID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}
