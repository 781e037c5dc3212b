package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// ErrShareNotFound is returned for an unknown share id.
var ErrShareNotFound = errors.New("share not found")

// Share is a published email preview.
type Share struct {
	ID        string             `json:"id"`
	Sessions  []core.SessionData `json:"sessions"`
	EmailHTML string             `json:"emailHtml"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ShareStore keeps shares in memory for the life of the process.
type ShareStore struct {
	mu     sync.RWMutex
	shares map[string]Share
}

// NewShareStore creates an empty store.
func NewShareStore() *ShareStore {
	return &ShareStore{shares: make(map[string]Share)}
}

// Create stores a share under a new id and returns it.
func (s *ShareStore) Create(sessions []core.SessionData, emailHTML string, metadata map[string]any) Share {
	sh := Share{
		ID:        uuid.NewString(),
		Sessions:  sessions,
		EmailHTML: emailHTML,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.shares[sh.ID] = sh
	s.mu.Unlock()
	return sh
}

// Get returns the share stored under id.
func (s *ShareStore) Get(id string) (Share, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shares[id]
	if !ok {
		return Share{}, ErrShareNotFound
	}
	return sh, nil
}
