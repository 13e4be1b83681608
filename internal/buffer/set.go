package buffer

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"
)

// Set is the ordered collection of open buffers with one active buffer.
type Set struct {
	mu      sync.RWMutex
	fs      afero.Fs
	buffers []*FileBuffer
	active  int
}

// NewSet creates an empty buffer set reading files from fs.
func NewSet(fs afero.Fs) *Set {
	return &Set{fs: fs}
}

// Open opens path, or returns the already open buffer for it, and makes it active.
func (s *Set) Open(path string) (*FileBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.buffers {
		if b.Path() == path {
			s.active = i
			return b, nil
		}
	}

	b, err := Open(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buffer: %w", err)
	}
	s.buffers = append(s.buffers, b)
	s.active = len(s.buffers) - 1
	return b, nil
}

// Close removes the buffer with the given id.
func (s *Set) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.buffers {
		if b.ID() == id {
			s.buffers = append(s.buffers[:i], s.buffers[i+1:]...)
			if s.active >= len(s.buffers) && s.active > 0 {
				s.active = len(s.buffers) - 1
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrBufferNotFound, id)
}

// Get returns the buffer with the given id.
func (s *Set) Get(id string) (*FileBuffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.buffers {
		if b.ID() == id {
			return b, true
		}
	}
	return nil, false
}

// Active returns the active buffer.
func (s *Set) Active() (*FileBuffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.buffers) == 0 {
		return nil, false
	}
	return s.buffers[s.active], true
}

// Activate makes the buffer with the given id active.
func (s *Set) Activate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.buffers {
		if b.ID() == id {
			s.active = i
			return true
		}
	}
	return false
}

// ActiveIndex returns the position of the active buffer in opening order.
func (s *Set) ActiveIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Next activates the following buffer, wrapping around.
func (s *Set) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffers) > 0 {
		s.active = (s.active + 1) % len(s.buffers)
	}
}

// Prev activates the preceding buffer, wrapping around.
func (s *Set) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffers) > 0 {
		s.active = (s.active - 1 + len(s.buffers)) % len(s.buffers)
	}
}

// Files returns the open file buffers in opening order.
func (s *Set) Files() []*FileBuffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*FileBuffer(nil), s.buffers...)
}

// Buffers returns the open buffers as engine buffers.
func (s *Set) Buffers() []Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]Buffer, len(s.buffers))
	for i, b := range s.buffers {
		all[i] = b
	}
	return all
}

// Len returns the number of open buffers.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}
