package db

import (
	"context"
	"slices"
	"sync"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
)

// SessionStore wraps a repository and keeps postings added during the
// session in memory. Added postings never reach the underlying source.
type SessionStore struct {
	base Repository

	mu    sync.RWMutex
	added []model.Posting
}

// NewSessionStore creates a session store over base
func NewSessionStore(base Repository) *SessionStore {
	return &SessionStore{base: base}
}

func (s *SessionStore) GetStudents(ctx context.Context) ([]model.Student, error) {
	return s.base.GetStudents(ctx)
}

// GetPostings returns the base postings followed by the session postings in insertion order
func (s *SessionStore) GetPostings(ctx context.Context) ([]model.Posting, error) {
	postings, err := s.base.GetPostings(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Concat(postings, s.added), nil
}

func (s *SessionStore) InsertPosting(ctx context.Context, posting *model.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, *posting)
	return nil
}

// SessionPostings returns a copy of the postings added during this session
func (s *SessionStore) SessionPostings() []model.Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.added)
}
