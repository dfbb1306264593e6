// Package nav tracks which view the interface is showing.
package nav

import (
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// Route names a view of the interface.
type Route string

const (
	RouteLanding  Route = "landing"
	RouteLogin    Route = "login"
	RouteSignup   Route = "signup"
	RouteHome     Route = "home"
	RouteMyList   Route = "mylist"
	RouteFeedback Route = "feedback"
)

var authenticatedOnly = map[Route]bool{
	RouteHome:     true,
	RouteMyList:   true,
	RouteFeedback: true,
}

var known = map[Route]bool{
	RouteLanding: true, RouteLogin: true, RouteSignup: true,
	RouteHome: true, RouteMyList: true, RouteFeedback: true,
}

// ParseRoute validates a route name.
func ParseRoute(s string) (Route, error) {
	r := Route(s)
	if !known[r] {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownRoute, s)
	}
	return r, nil
}

// RequiresSession reports whether the route is only reachable when signed in.
func (r Route) RequiresSession() bool {
	return authenticatedOnly[r]
}

// Navigator is the navigation capability consumed by the session manager
// and the catalog browser.
type Navigator interface {
	NavigateTo(route Route)
	Current() Route
}

// Router is the in-process Navigator. It starts on the landing view.
type Router struct {
	mu      sync.RWMutex
	current Route
	history []Route
}

func NewRouter() *Router {
	return &Router{current: RouteLanding}
}

// NavigateTo replaces the current view.
func (r *Router) NavigateTo(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.history = append(r.history, route)
}

func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns every route navigated to, oldest first.
func (r *Router) History() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, len(r.history))
	copy(out, r.history)
	return out
}
