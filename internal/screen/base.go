package screen

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"classpick/internal/event"
	"classpick/pkg/apierror"
)

// base carries what every screen shares: the state machine, the mounted flag and the outbound
// events. Screen fields are guarded by mu too, so apply callbacks may touch them freely.
type base struct {
	name    Route
	bus     event.Bus
	session Session

	mu      sync.Mutex
	state   State
	busy    bool
	mounted bool
}

func newBase(name Route, bus event.Bus, session Session, initial State) *base {
	return &base{
		name:    name,
		bus:     bus,
		session: session,
		state:   initial,
		mounted: true,
	}
}

func (b *base) Name() Route {
	return b.name
}

func (b *base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Unmount detaches the screen. Results of calls still in flight are dropped when they arrive and no
// further actions are accepted.
func (b *base) Unmount() {
	b.mu.Lock()
	b.mounted = false
	b.mu.Unlock()
}

func (b *base) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.mounted
}

// run drives one action through the state machine. action does its network work outside the lock
// and returns an apply callback, which runs under the lock only if the screen is still mounted.
// A second action while one is in flight returns nil immediately without calling action.
func (b *base) run(ctx context.Context, start Trigger, action func(ctx context.Context) (func(), error)) error {
	if !b.begin(start) {
		slog.Debug("action ignored", "screen", b.name, "trigger", start, "state", b.State())
		return nil
	}

	apply, err := b.guard(ctx, action)
	if err != nil {
		apply = nil
	}

	if !b.finish(completion(start, err), apply) {
		slog.Debug("late result discarded", "screen", b.name, "trigger", start)
		return err
	}

	if err != nil {
		b.fail(err)
	}

	return err
}

func (b *base) begin(start Trigger) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.mounted || b.busy {
		return false
	}

	next, ok := Next(b.state, start)
	if !ok {
		return false
	}

	b.busy = true
	b.setStateLocked(next)
	return true
}

func (b *base) finish(done Trigger, apply func()) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.busy = false
	if !b.mounted {
		return false
	}

	if next, ok := Next(b.state, done); ok {
		b.setStateLocked(next)
	}
	if apply != nil {
		apply()
	}

	return true
}

// guard converts a panic inside action into an error so it surfaces as a notification.
func (b *base) guard(ctx context.Context, action func(ctx context.Context) (func(), error)) (apply func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("screen action panicked", "screen", b.name, "panic", r, "stack", string(debug.Stack()))
			apply = nil
			err = apierror.New(apierror.KindUnknown, fmt.Sprintf("%s action failed", b.name), fmt.Sprint(r), 0)
		}
	}()

	return action(ctx)
}

func (b *base) setStateLocked(next State) {
	if next == b.state {
		return
	}

	prev := b.state
	b.state = next
	slog.Debug("screen state", "screen", b.name, "from", prev, "to", next)
	b.publish(event.TypeStateChanged, StateChange{From: prev, To: next})
}

// fail reports err to the user. An expired session signs the user out and sends them to Login; a
// missing session only sends them to Login.
func (b *base) fail(err error) {
	switch apierror.KindOf(err) {
	case apierror.KindSessionExpired:
		if signOutErr := b.session.SignOut(); signOutErr != nil {
			slog.Error("failed to clear expired session", "screen", b.name, "error", signOutErr)
		}
		b.publish(event.TypeSignedOut, nil)
		b.navigate(RouteLogin)
	case apierror.KindUnauthenticated:
		b.navigate(RouteLogin)
	default:
		slog.Warn("screen action failed", "screen", b.name, "error", err)
	}

	b.notify(LevelError, apierror.Display(err))
}

// currentToken returns the bearer token for an authenticated call.
func (b *base) currentToken() (string, error) {
	token, _, err := b.session.Current()
	return token, err
}

func (b *base) notify(level Level, message string) {
	b.publish(event.TypeNotification, Notification{Level: level, Message: message})
}

func (b *base) navigate(to Route) {
	b.publish(event.TypeNavigation, Navigation{To: to})
}

func (b *base) publish(t event.Type, payload interface{}) {
	if b.bus == nil {
		return
	}

	b.bus.Publish(event.New(t, string(b.name), payload))
}
