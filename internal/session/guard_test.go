package session

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// countingState wraps MemoryState and counts SetTerminated(true) calls.
type countingState struct {
	MemoryState
	terminations int32
}

func (s *countingState) SetTerminated(v bool) {
	if v {
		atomic.AddInt32(&s.terminations, 1)
	}
	s.MemoryState.SetTerminated(v)
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, userID string) (string, error) {
	return "", errors.New("store unreachable")
}
func (failingStore) Put(ctx context.Context, userID, sessionID string) error {
	return errors.New("store unreachable")
}
func (failingStore) Delete(ctx context.Context, userID, sessionID string) error {
	return errors.New("store unreachable")
}

func newTestGuard(store Store, local LocalState, onConflict func()) *Guard {
	return NewGuard(store, local, time.Hour, onConflict, zap.NewNop())
}

func TestStartSessionRegistersAndHeartbeats(t *testing.T) {
	store := NewMemoryStore()
	g := newTestGuard(store, NewMemoryState(), nil)
	ctx := context.Background()

	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	defer g.EndSession(ctx, "user-1")

	if !g.Active() {
		t.Error("expected an active heartbeat after start")
	}
	if !strings.HasPrefix(g.SessionID(), "session_") {
		t.Errorf("unexpected session id format %q", g.SessionID())
	}

	registered, _ := store.Get(ctx, "user-1")
	if registered != g.SessionID() {
		t.Errorf("expected store registration %q, got %q", g.SessionID(), registered)
	}
	if !g.Heartbeat(ctx) {
		t.Error("expected a started session to be heartbeat-verifiable")
	}
}

func TestSecondInstanceFailsClosed(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := newTestGuard(store, NewMemoryState(), nil)
	if err := first.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("first StartSession: %v", err)
	}
	defer first.EndSession(ctx, "user-1")

	second := newTestGuard(store, NewMemoryState(), nil)
	err := second.StartSession(ctx, "user-1")
	if !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("expected ErrSessionConflict, got %v", err)
	}
	if second.Active() {
		t.Error("expected the losing instance to stay inactive")
	}

	// Exactly one winner: the first registration must survive untouched.
	registered, _ := store.Get(ctx, "user-1")
	if registered != first.SessionID() {
		t.Errorf("expected first session %q to keep the registration, got %q", first.SessionID(), registered)
	}
	if !first.Heartbeat(ctx) {
		t.Error("expected the winner to remain heartbeat-verifiable")
	}
}

func TestRestartOfSameClientWins(t *testing.T) {
	store := NewMemoryStore()
	local := NewMemoryState()
	ctx := context.Background()

	g := newTestGuard(store, local, nil)
	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	// Simulate a reload: a fresh guard on the same device, carrying the
	// persisted local session id.
	g.stopHeartbeat()
	reloaded := newTestGuard(store, local, nil)
	if err := reloaded.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("expected restart with persisted local id to win, got %v", err)
	}
	defer reloaded.EndSession(ctx, "user-1")

	registered, _ := store.Get(ctx, "user-1")
	if registered != reloaded.SessionID() {
		t.Errorf("expected the reloaded session to own the registration")
	}
}

func TestHeartbeatDetectsTakeover(t *testing.T) {
	store := NewMemoryStore()
	local := &countingState{}
	var redirects int32
	g := newTestGuard(store, local, func() { atomic.AddInt32(&redirects, 1) })
	ctx := context.Background()

	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if local.SessionID() == "" {
		t.Fatal("expected local session id persisted")
	}

	// Another device takes over the registration.
	store.Put(ctx, "user-1", "session_0_intruder")

	if g.Heartbeat(ctx) {
		t.Fatal("expected heartbeat to report lost ownership")
	}
	if g.Active() {
		t.Error("expected guard inactive after conflict")
	}
	if local.SessionID() != "" {
		t.Error("expected local session id cleared")
	}
	if !local.Terminated() {
		t.Error("expected terminated flag set")
	}
	if got := atomic.LoadInt32(&redirects); got != 1 {
		t.Errorf("expected exactly one forced redirect, got %d", got)
	}

	// Repeated ticks after the first detection are no-ops.
	g.Heartbeat(ctx)
	g.Heartbeat(ctx)
	if got := atomic.LoadInt32(&local.terminations); got != 1 {
		t.Errorf("expected terminated flag set exactly once, got %d", got)
	}
	if got := atomic.LoadInt32(&redirects); got != 1 {
		t.Errorf("expected no further redirects, got %d", got)
	}
}

func TestHeartbeatLoopDetectsTakeover(t *testing.T) {
	store := NewMemoryStore()
	local := NewMemoryState()
	conflict := make(chan struct{})
	g := NewGuard(store, local, 5*time.Millisecond, func() { close(conflict) }, zap.NewNop())
	ctx := context.Background()

	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	store.Put(ctx, "user-1", "session_0_intruder")

	select {
	case <-conflict:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the heartbeat loop to detect the takeover")
	}
	if g.Active() {
		t.Error("expected guard inactive after loop-detected conflict")
	}
}

func TestHeartbeatTransportErrorFailsClosed(t *testing.T) {
	local := &countingState{}
	g := newTestGuard(NewMemoryStore(), local, nil)
	ctx := context.Background()

	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Swap in an unreachable store: inability to confirm ownership must
	// force logout rather than silently keeping the session alive.
	g.store = failingStore{}
	if g.Heartbeat(ctx) {
		t.Fatal("expected heartbeat to fail closed on store error")
	}
	if g.Active() {
		t.Error("expected guard inactive")
	}
	if !local.Terminated() {
		t.Error("expected terminated flag set")
	}
}

func TestEndSessionIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	g := newTestGuard(store, NewMemoryState(), nil)
	ctx := context.Background()

	// No active session: must be a safe no-op.
	g.EndSession(ctx, "user-1")

	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	g.EndSession(ctx, "user-1")

	if g.Active() {
		t.Error("expected guard inactive after end")
	}
	if registered, _ := store.Get(ctx, "user-1"); registered != "" {
		t.Errorf("expected registration removed, got %q", registered)
	}

	g.EndSession(ctx, "user-1")
}

func TestEndSessionLeavesForeignRegistration(t *testing.T) {
	store := NewMemoryStore()
	g := newTestGuard(store, NewMemoryState(), nil)
	ctx := context.Background()

	if err := g.StartSession(ctx, "user-1"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	// The registration was already taken over; ending our session must not
	// evict the new owner.
	store.Put(ctx, "user-1", "session_0_newowner")
	g.EndSession(ctx, "user-1")

	if registered, _ := store.Get(ctx, "user-1"); registered != "session_0_newowner" {
		t.Errorf("expected foreign registration preserved, got %q", registered)
	}
}

func TestTerminateSessionDoesNotTouchOwnHeartbeat(t *testing.T) {
	store := NewMemoryStore()
	admin := newTestGuard(store, NewMemoryState(), nil)
	victim := newTestGuard(store, NewMemoryState(), nil)
	ctx := context.Background()

	if err := victim.StartSession(ctx, "user-2"); err != nil {
		t.Fatalf("victim StartSession: %v", err)
	}
	if err := admin.StartSession(ctx, "admin-1"); err != nil {
		t.Fatalf("admin StartSession: %v", err)
	}
	defer admin.EndSession(ctx, "admin-1")

	if err := admin.TerminateSession(ctx, "user-2", victim.SessionID()); err != nil {
		t.Fatalf("TerminateSession: %v", err)
	}

	if registered, _ := store.Get(ctx, "user-2"); registered != "" {
		t.Errorf("expected victim registration removed, got %q", registered)
	}
	if !admin.Active() {
		t.Error("expected the admin's own heartbeat to keep running")
	}
	// The victim finds out on its next heartbeat.
	if victim.Heartbeat(ctx) {
		t.Error("expected the terminated session to fail its next heartbeat")
	}
}
