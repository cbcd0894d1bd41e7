package authz

import (
	"strings"

	"hrms-gateway/internal/session"
)

// Decision is the closed set of outcomes for a navigation request.
// Handlers never re-derive permissions; they receive one of these.
type Decision int

const (
	// DecisionRedirectLogin: no valid session, or the session carries a
	// role the gateway does not recognize.
	DecisionRedirectLogin Decision = iota
	// DecisionRedirectHome: authenticated, but the path is outside the
	// role's grant. Fail closed to the role's own dashboard.
	DecisionRedirectHome
	// DecisionRender: the path is inside the role's grant.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectHome:
		return "redirect_home"
	case DecisionRender:
		return "render"
	default:
		return "unknown"
	}
}

// RouteGrant maps each role to its permitted route prefixes. Static
// configuration; never mutated at runtime. A role absent from the map
// has an empty grant (deny-all).
type RouteGrant map[session.Role][]string

// DefaultGrant mirrors the dashboard route trees of the HRMS web app,
// one subtree per role. Every prefix listed here has a corresponding
// dashboard entry point registered in cmd/api.
func DefaultGrant() RouteGrant {
	return RouteGrant{
		session.RoleAdmin: {
			"/admin/dashboard",
		},
		session.RoleHR: {
			"/hr/dashboard",
		},
		session.RoleTemporaryAdmin: {
			"/temporary/admin/dashboard",
		},
		session.RoleEmployee: {
			"/employee/dashboard",
		},
	}
}

// HomeRoute is the fixed role → dashboard-root mapping. ok is false for
// unrecognized roles; callers must treat that as an invalid session.
func HomeRoute(role session.Role) (string, bool) {
	switch role {
	case session.RoleAdmin:
		return "/admin/dashboard", true
	case session.RoleHR:
		return "/hr/dashboard", true
	case session.RoleTemporaryAdmin:
		return "/temporary/admin/dashboard", true
	case session.RoleEmployee:
		return "/employee/dashboard", true
	default:
		return "", false
	}
}

// Resolve decides what a navigation to path yields for the given
// session. sess is ignored when authenticated is false.
//
// Pure function over its inputs: it is evaluated on every navigation
// and holds no state of its own.
func (g RouteGrant) Resolve(path string, sess session.Session, authenticated bool) Decision {
	if !authenticated {
		return DecisionRedirectLogin
	}
	if _, ok := HomeRoute(sess.Role); !ok {
		// Unrecognized role: the session is not trustworthy.
		return DecisionRedirectLogin
	}
	for _, prefix := range g[sess.Role] {
		if matchesPrefix(path, prefix) {
			return DecisionRender
		}
	}
	return DecisionRedirectHome
}

// matchesPrefix reports whether path is prefix itself or a descendant.
// "/hr/dashboards" must not match the "/hr/dashboard" grant.
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || strings.HasPrefix(rest, "/")
}
