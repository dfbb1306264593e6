// Package session owns the signed-in identity of the app instance and
// drives navigation on sign-in and sign-out.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/localcache"
	"github.com/MrSnakeDoc/vianime/internal/logger"
	"github.com/MrSnakeDoc/vianime/internal/nav"
)

// AuthProvider is the remote authentication service.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (domain.Grant, error)
	SignUp(ctx context.Context, email, password string) (domain.Grant, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (string, error)
	Watch(ctx context.Context) (<-chan domain.AuthEvent, error)
}

// Manager holds the single Session of the app instance.
// Every transition bumps an epoch so callers can tell whether a result
// obtained under an older session is still relevant.
type Manager struct {
	auth   AuthProvider
	cache  localcache.Store
	nav    nav.Navigator
	logger logger.Logger

	mu      sync.Mutex
	current domain.Session
	token   string
	epoch   uint64
	subs    map[*Subscription]struct{}

	signingOut atomic.Bool

	// localMu orders guarded list writes against the cache clear of a reset.
	localMu sync.Mutex
}

// NewManager creates a manager in the Anonymous state.
func NewManager(auth AuthProvider, cache localcache.Store, navigator nav.Navigator, log logger.Logger) *Manager {
	return &Manager{
		auth:   auth,
		cache:  cache,
		nav:    navigator,
		logger: log,
		subs:   make(map[*Subscription]struct{}),
	}
}

// Current returns the session and its epoch.
func (m *Manager) Current() (domain.Session, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.epoch
}

// IsCurrent reports whether no transition happened since epoch was read.
func (m *Manager) IsCurrent(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch == epoch
}

// WhileCurrent runs fn only if no transition happened since epoch was read
// and no sign-out is in flight, and reports whether it ran. Session resets
// wait for fn to return, so a local write made by fn is either cleared by the
// reset or never made.
func (m *Manager) WhileCurrent(epoch uint64, fn func() error) (bool, error) {
	m.localMu.Lock()
	defer m.localMu.Unlock()
	if m.signingOut.Load() || !m.IsCurrent(epoch) {
		return false, nil
	}
	return true, fn()
}

// reset clears the local session data and moves to Anonymous as one step
// with respect to WhileCurrent.
func (m *Manager) reset(ctx context.Context) error {
	m.localMu.Lock()
	defer m.localMu.Unlock()
	err := m.cache.Remove(ctx, localcache.KeyMyList, localcache.KeyUserToken)
	m.transition(domain.Anonymous, "")
	return err
}

// SigningOut reports whether a sign-out is in flight.
func (m *Manager) SigningOut() bool {
	return m.signingOut.Load()
}

// Observe subscribes to session transitions. The current value is delivered
// first. The subscription ends when ctx is done or Cancel is called.
func (m *Manager) Observe(ctx context.Context) *Subscription {
	sub := newSubscription(m.unsubscribe)

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	sub.deliver(m.current)
	m.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
		case <-sub.Done():
		}
	}()
	return sub
}

func (m *Manager) unsubscribe(sub *Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, sub)
}

// transition replaces the session and notifies subscribers when it changed.
func (m *Manager) transition(s domain.Session, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	if s == m.current {
		return
	}
	m.current = s
	m.epoch++
	for sub := range m.subs {
		sub.deliver(s)
	}
	m.logger.Debug("session transition",
		logger.String("session", s.String()),
		logger.Uint64("epoch", m.epoch))
}

// SignIn authenticates against the remote service.
func (m *Manager) SignIn(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	grant, err := m.auth.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		m.logAuthFailure("sign-in failed", err)
		return domain.Anonymous, err
	}
	return m.establish(ctx, grant), nil
}

// SignUp creates an account and signs it in. Mismatching passwords are
// rejected before the remote service is contacted.
func (m *Manager) SignUp(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if creds.Password != creds.Confirm {
		return domain.Anonymous, domain.ErrPasswordMismatch
	}

	grant, err := m.auth.SignUp(ctx, creds.Email, creds.Password)
	if err != nil {
		m.logAuthFailure("sign-up failed", err)
		return domain.Anonymous, err
	}
	return m.establish(ctx, grant), nil
}

func (m *Manager) logAuthFailure(msg string, err error) {
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		m.logger.Error(msg, logger.Error(err))
		return
	}
	m.logger.Info(msg, logger.Error(err))
}

func (m *Manager) establish(ctx context.Context, grant domain.Grant) domain.Session {
	if err := m.cache.Set(ctx, localcache.KeyUserToken, grant.Token); err != nil {
		m.logger.Warn("failed to persist session token", logger.Error(err))
	}

	s := domain.Authenticated(grant.Identity, grant.Email)
	m.transition(s, grant.Token)
	m.nav.NavigateTo(nav.RouteHome)

	m.logger.Info("signed in", logger.String("identity", grant.Identity))
	return s
}

// SignOut invalidates the remote session, clears the local cache, resets the
// session and navigates to the landing view. The reset and navigation happen
// even when a step fails; every failure is returned. A call made while
// another sign-out is in flight does nothing.
func (m *Manager) SignOut(ctx context.Context) error {
	if !m.signingOut.CompareAndSwap(false, true) {
		m.logger.Debug("sign-out already in progress, ignoring")
		return nil
	}
	defer m.signingOut.Store(false)

	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	var errs error
	if token != "" {
		if err := m.auth.SignOut(ctx, token); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if err := m.reset(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	m.nav.NavigateTo(nav.RouteLanding)

	if errs != nil {
		m.logger.Error("sign-out completed with errors", logger.Error(errs))
		return errs
	}
	m.logger.Info("signed out")
	return nil
}

// Restore makes the initial routing decision: home when a session token is
// cached, landing otherwise. A token the provider reports as expired is
// cleared and sends the user to the login view. When the provider cannot be
// reached the token is kept and the user stays home, still anonymous until
// the next successful restore or sign-in.
func (m *Manager) Restore(ctx context.Context) nav.Route {
	token, ok, err := m.cache.Get(ctx, localcache.KeyUserToken)
	if err != nil {
		m.logger.Warn("failed to read session token", logger.Error(err))
	}
	if !ok || token == "" {
		m.nav.NavigateTo(nav.RouteLanding)
		return nav.RouteLanding
	}

	m.nav.NavigateTo(nav.RouteHome)

	identity, err := m.auth.Verify(ctx, token)
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		if rmErr := m.cache.Remove(ctx, localcache.KeyUserToken); rmErr != nil {
			m.logger.Warn("failed to clear stale token", logger.Error(rmErr))
		}
		m.logger.Warn("cached session expired", logger.Error(err))
		m.nav.NavigateTo(nav.RouteLogin)
		return nav.RouteLogin
	case err != nil:
		m.logger.Warn("could not verify cached session, keeping token", logger.Error(err))
		return nav.RouteHome
	}

	m.transition(domain.Authenticated(identity, ""), token)
	m.logger.Info("session restored", logger.String("identity", identity))
	return nav.RouteHome
}

// Watch starts consuming provider-pushed auth events until ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	events, err := m.auth.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			m.handleEvent(ctx, ev)
		}
	}()
	return nil
}

func (m *Manager) handleEvent(ctx context.Context, ev domain.AuthEvent) {
	if m.signingOut.Load() {
		return
	}

	m.mu.Lock()
	current, token := m.current, m.token
	m.mu.Unlock()

	if !current.IsAuthenticated() || current.Identity != ev.Identity {
		return
	}
	if ev.Token != "" && ev.Token != token {
		return
	}

	m.logger.Warn("session invalidated by provider",
		logger.String("identity", ev.Identity),
		logger.String("kind", string(ev.Kind)))

	if err := m.reset(ctx); err != nil {
		m.logger.Warn("failed to clear local cache", logger.Error(err))
	}
	if m.nav.Current().RequiresSession() {
		m.nav.NavigateTo(nav.RouteLogin)
	}
}
