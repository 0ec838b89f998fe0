// Package inmem is the in-memory session Storage used by tests.
package inmem

import (
	"sync"

	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

type Store struct {
	mu   sync.Mutex
	sess *session.Session
}

var _ session.Storage = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Load() (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, nil
	}
	c := *s.sess
	return &c, nil
}

func (s *Store) Save(sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sess
	s.sess = &c
	return nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

// Empty reports whether anything is stored; test helper.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess == nil
}
