// Package sessiontest provides an in-memory session.Repository for tests.
package sessiontest

import (
	"context"
	"sync"
	"time"

	"customer-dashboard-svc/src/internal/models"
)

type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]models.Session

	// Err, when set, is returned by every operation.
	Err error
	// GetErr, when set, is returned by GetByID only.
	GetErr error
	// DeleteErr, when set, is returned by Delete only.
	DeleteErr error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: map[string]models.Session{}}
}

func (r *MemoryRepository) GetByID(_ context.Context, sessionID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) Save(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sessions[s.SessionID] = *s
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *MemoryRepository) UpdateActivity(_ context.Context, sessionID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if s, ok := r.sessions[sessionID]; ok {
		s.LastActiveAt = at
		r.sessions[sessionID] = s
	}
	return nil
}

func (r *MemoryRepository) EnsureIndexes(context.Context) error {
	return nil
}

// Put stores s directly, bypassing Err.
func (r *MemoryRepository) Put(s models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = s
}

func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
