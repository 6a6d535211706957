// Package routeguard decides which top-level views are reachable given
// the session state. It is a pure decision layer: it holds no session
// data itself and performs no I/O beyond the bootstrap read.
package routeguard

import (
	"context"
	"sync"

	"sitewatch/internal/domain"
)

type State int

const (
	// StateResolving is the transient bootstrap state before the
	// stored session has been read.
	StateResolving State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Paths the guard knows about. Everything else is routed by state.
const (
	PathHome  = "/"
	PathAuth  = "/login"
	PathBoard = "/dashboard"
)

// SessionReader is the slice of the session manager the guard consults.
type SessionReader interface {
	CurrentUser(ctx context.Context) *domain.User
	IsAuthenticated(ctx context.Context) bool
}

type Guard struct {
	mu      sync.RWMutex
	state   State
	session SessionReader
}

func New(session SessionReader) *Guard {
	return &Guard{state: StateResolving, session: session}
}

// Resolve commits the bootstrap read. An absent or unparseable stored
// session resolves to unauthenticated; the guard never stays in the
// resolving state past this call.
func (g *Guard) Resolve(ctx context.Context) State {
	u := g.session.CurrentUser(ctx)
	authed := u != nil && g.session.IsAuthenticated(ctx)

	g.mu.Lock()
	if authed {
		g.state = StateAuthenticated
	} else {
		g.state = StateUnauthenticated
	}
	s := g.state
	g.mu.Unlock()
	return s
}

func (g *Guard) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// OnLogin transitions to authenticated after a successful login.
func (g *Guard) OnLogin() {
	g.mu.Lock()
	g.state = StateAuthenticated
	g.mu.Unlock()
}

// OnLogout transitions to unauthenticated. Also used when an invalid
// session is detected mid-flight.
func (g *Guard) OnLogout() {
	g.mu.Lock()
	g.state = StateUnauthenticated
	g.mu.Unlock()
}

// Decision is the outcome of routing one requested path.
type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision             { return Decision{Allow: true} }
func redirect(to string) Decision { return Decision{Redirect: to} }

// Route decides whether the requested path is reachable in the current
// state. Unauthenticated sessions only reach the auth surface; an
// authenticated session is bounced off it. Unknown paths redirect by
// state.
func (g *Guard) Route(path string) Decision {
	known := path == PathHome || path == PathAuth || path == PathBoard

	switch g.State() {
	case StateAuthenticated:
		if path == PathAuth {
			return redirect(PathHome)
		}
		if !known {
			return redirect(PathHome)
		}
		return allow()
	case StateUnauthenticated:
		if path == PathAuth {
			return allow()
		}
		return redirect(PathAuth)
	default:
		// still resolving: hold the caller at the auth surface
		if path == PathAuth {
			return allow()
		}
		return redirect(PathAuth)
	}
}
