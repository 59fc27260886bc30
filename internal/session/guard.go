package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionConflict means the user already holds an active session on
// another client instance.
var ErrSessionConflict = errors.New("user is already logged in on another device")

// Guard enforces at most one logical session per user identity. It
// registers a locally generated session id in the shared Store, then
// verifies ownership on a fixed heartbeat interval. Losing ownership (or
// being unable to confirm it) fails closed: the heartbeat stops, local
// state is cleared, the terminated flag is set, and onConflict fires so
// the surrounding UI can redirect to sign-in.
//
// Guards are plain constructed values, one per client instance; tests can
// run several against a shared store without global state.
type Guard struct {
	store      Store
	local      LocalState
	interval   time.Duration
	onConflict func()
	logger     *zap.Logger

	mu        sync.Mutex
	userID    string
	sessionID string
	stop      chan struct{}
	done      chan struct{}
}

func NewGuard(store Store, local LocalState, interval time.Duration, onConflict func(), logger *zap.Logger) *Guard {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if local == nil {
		local = NewMemoryState()
	}
	return &Guard{
		store:      store,
		local:      local,
		interval:   interval,
		onConflict: onConflict,
		logger:     logger,
	}
}

// newSessionID builds an id unique per client instance: wall-clock millis
// plus a random component.
func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// StartSession generates a fresh session id, registers it for the user and
// starts the heartbeat. It returns ErrSessionConflict without registering
// when another instance already holds a session for this user.
//
// Registration policy: first wins at this pre-check, last wins at the
// store. Two racing starts can both pass the check; the store's last
// writer then owns the session and the loser is evicted by its next
// heartbeat.
func (g *Guard) StartSession(ctx context.Context, userID string) error {
	// A restart of the same guard replaces its own session cleanly.
	g.stopHeartbeat()

	sessionID := newSessionID()

	existing, err := g.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check existing session: %w", err)
	}
	// A registration left by this client's own prior session (matched via
	// the persisted local id) is ours to replace; anything else is a
	// conflict.
	if existing != "" && existing != sessionID && existing != g.local.SessionID() {
		return ErrSessionConflict
	}

	if err := g.store.Put(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}

	g.local.SetSessionID(sessionID)
	g.local.SetTerminated(false)

	g.mu.Lock()
	g.userID = userID
	g.sessionID = sessionID
	stop := make(chan struct{})
	done := make(chan struct{})
	g.stop = stop
	g.done = done
	g.mu.Unlock()

	go g.heartbeatLoop(stop, done)

	g.logger.Info("session started",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
	)
	return nil
}

// EndSession stops the heartbeat, removes this session's registration if
// it is still ours, and clears local state. Safe to call with no active
// session.
func (g *Guard) EndSession(ctx context.Context, userID string) {
	g.mu.Lock()
	sessionID := g.sessionID
	g.mu.Unlock()

	g.stopHeartbeat()

	if sessionID == "" {
		return
	}
	if err := g.store.Delete(ctx, userID, sessionID); err != nil {
		g.logger.Warn("failed to unregister session", zap.Error(err))
	}
	g.local.ClearSessionID()

	g.mu.Lock()
	g.userID = ""
	g.sessionID = ""
	g.mu.Unlock()
}

// TerminateSession removes a specified (possibly foreign) session's
// registration without touching this guard's heartbeat. Used when an
// operator forcibly ends another device's session.
func (g *Guard) TerminateSession(ctx context.Context, userID, sessionID string) error {
	if err := g.store.Delete(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("failed to terminate session: %w", err)
	}
	return nil
}

// Heartbeat performs one ownership check: it re-reads the registration and
// reports whether this instance still owns the session. A mismatch or an
// unreadable store both count as a conflict (fail closed). Calls after the
// guard has gone inactive return false with no further side effects.
func (g *Guard) Heartbeat(ctx context.Context) bool {
	g.mu.Lock()
	if g.stop == nil {
		g.mu.Unlock()
		return false
	}
	userID := g.userID
	sessionID := g.sessionID
	g.mu.Unlock()

	current, err := g.store.Get(ctx, userID)
	if err != nil {
		g.handleConflict(fmt.Errorf("heartbeat check failed: %w", err))
		return false
	}
	if current != sessionID {
		g.handleConflict(errors.New("session registration no longer matches this instance"))
		return false
	}
	return true
}

func (g *Guard) heartbeatLoop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), g.interval)
		ok := g.Heartbeat(ctx)
		cancel()
		if !ok {
			return
		}
	}
}

// handleConflict transitions active -> inactive with the conflict side
// effects. It is idempotent: only the first detection clears state and
// fires the redirect.
func (g *Guard) handleConflict(cause error) {
	g.mu.Lock()
	if g.stop == nil {
		g.mu.Unlock()
		return
	}
	g.stop = nil
	userID := g.userID
	g.userID = ""
	g.sessionID = ""
	g.mu.Unlock()

	g.logger.Warn("session conflict detected, forcing logout",
		zap.String("user_id", userID),
		zap.Error(cause),
	)

	g.local.ClearSessionID()
	g.local.SetTerminated(true)
	if g.onConflict != nil {
		g.onConflict()
	}
}

// stopHeartbeat cancels the loop and waits for it to exit, so no heartbeat
// fires after the caller returns.
func (g *Guard) stopHeartbeat() {
	g.mu.Lock()
	stop := g.stop
	done := g.done
	g.stop = nil
	g.done = nil
	g.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if done != nil {
		<-done
	}
}

// Active reports whether a heartbeat is currently running.
func (g *Guard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stop != nil
}

// SessionID returns the current session id, or "" when inactive.
func (g *Guard) SessionID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionID
}
