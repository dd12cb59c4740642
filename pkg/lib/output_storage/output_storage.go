package output_storage

import (
	"fmt"
	"strings"
	"sync"
)

// OutputStorage keeps everything a command wrote to one of its streams.
// Appends and reads are safe for concurrent use.
type OutputStorage struct {
	mu     sync.RWMutex
	chunks [][]byte
	size   int
}

// NewOutputStorage creates a new, empty OutputStorage.
func NewOutputStorage() *OutputStorage {
	return &OutputStorage{}
}

// Append stores data as-is. Callers that reuse the slice must pass a copy.
func (s *OutputStorage) Append(data []byte) {
	if s == nil || len(data) == 0 {
		return
	}
	s.mu.Lock()
	s.chunks = append(s.chunks, data)
	s.size += len(data)
	s.mu.Unlock()
}

// Len returns the number of bytes stored so far.
func (s *OutputStorage) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// ForEach iterates over stored chunks in insertion order until iter returns false.
func (s *OutputStorage) ForEach(iter func([]byte) bool) {
	if s == nil || iter == nil {
		return
	}
	s.mu.RLock()
	chunks := s.chunks[:len(s.chunks):len(s.chunks)]
	s.mu.RUnlock()
	for _, c := range chunks {
		if !iter(c) {
			return
		}
	}
}

// Bytes concatenates all stored chunks.
func (s *OutputStorage) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	s.ForEach(func(b []byte) bool {
		out = append(out, b...)
		return true
	})
	return out
}

func (s *OutputStorage) String() string {
	return string(s.Bytes())
}

// TailLines returns the last n lines of text, without the trailing newline.
// When lines are cut, the result starts with a marker line saying how many
// were omitted. n <= 0 returns everything.
func TailLines(text string, n int) string {
	text = strings.TrimRight(text, "\n")
	if text == "" || n <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	omitted := len(lines) - n
	return fmt.Sprintf("... (%d earlier lines omitted)\n%s", omitted, strings.Join(lines[omitted:], "\n"))
}
