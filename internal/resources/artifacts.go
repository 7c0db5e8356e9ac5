package resources

import (
	"sort"
	"sync"
)

// ArtifactStore maps artifact names to binary payloads (PNG screenshots).
// Names are unique at any instant; storing an existing name replaces the
// payload (last-write-wins).
type ArtifactStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

// NewArtifactStore creates an empty artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		artifacts: make(map[string][]byte),
	}
}

// Put stores a payload under name, replacing any existing payload.
// Returns true if the name was not present before.
func (s *ArtifactStore) Put(name string, payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.artifacts[name]
	s.artifacts[name] = payload
	return !existed
}

// Get returns the stored payload for name.
func (s *ArtifactStore) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.artifacts[name]
	return payload, ok
}

// Names returns all stored artifact names, sorted for stable listings.
func (s *ArtifactStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.artifacts))
	for name := range s.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored artifacts.
func (s *ArtifactStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}
