package bundle

import (
	"slices"
	"strings"
)

// CopiedSet records library base names already placed in the bundle.
// Names compare case-insensitively because Windows file names do.
// It is not safe for concurrent use.
type CopiedSet struct {
	names map[string]string
}

// NewCopiedSet returns an empty set.
func NewCopiedSet() *CopiedSet {
	return &CopiedSet{names: make(map[string]string)}
}

// Contains reports whether name was already recorded.
func (s *CopiedSet) Contains(name string) bool {
	_, ok := s.names[strings.ToLower(name)]
	return ok
}

// Add records name and reports whether it was new. First writer wins.
func (s *CopiedSet) Add(name string) bool {
	key := strings.ToLower(name)
	if _, ok := s.names[key]; ok {
		return false
	}

	s.names[key] = name

	return true
}

// Len returns the number of recorded names.
func (s *CopiedSet) Len() int {
	return len(s.names)
}

// Names returns the recorded names, as first added, in sorted order.
func (s *CopiedSet) Names() []string {
	result := make([]string, 0, len(s.names))
	for _, name := range s.names {
		result = append(result, name)
	}

	slices.Sort(result)

	return result
}
