package session

import (
	"encoding/json"
	"os"
	"sync"
)

// LocalState holds this client's own persisted session markers: the last
// known session id and the terminated flag the login screen reads to show
// a conflict notice.
type LocalState interface {
	SessionID() string
	SetSessionID(id string)
	ClearSessionID()
	Terminated() bool
	SetTerminated(v bool)
}

// MemoryState is a LocalState for tests and throwaway sessions.
type MemoryState struct {
	mu         sync.Mutex
	sessionID  string
	terminated bool
}

func NewMemoryState() *MemoryState {
	return &MemoryState{}
}

func (s *MemoryState) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *MemoryState) SetSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = id
}

func (s *MemoryState) ClearSessionID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = ""
}

func (s *MemoryState) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

func (s *MemoryState) SetTerminated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminated = v
}

type fileStateData struct {
	SessionID  string `json:"user-session-id"`
	Terminated bool   `json:"session-terminated"`
}

// FileState persists LocalState as a small JSON file so a restarted client
// can detect its own prior session. Reads and writes are best effort; a
// broken state file behaves like an empty one.
type FileState struct {
	mu   sync.Mutex
	path string
	data fileStateData
}

func NewFileState(path string) *FileState {
	s := &FileState{path: path}
	if raw, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(raw, &s.data)
	}
	return s
}

func (s *FileState) save() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, raw, 0o600)
}

func (s *FileState) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.SessionID
}

func (s *FileState) SetSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.SessionID = id
	s.save()
}

func (s *FileState) ClearSessionID() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.SessionID = ""
	s.save()
}

func (s *FileState) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Terminated
}

func (s *FileState) SetTerminated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Terminated = v
	s.save()
}
