package session

import (
	"context"
	"errors"
	"time"
)

// Role names. Keep these stable; they are part of the auth contract with
// the upstream user-management service, which reports them verbatim in
// the login response.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleHR             Role = "HR"
	RoleEmployee       Role = "EMPLOYEE"
	RoleTemporaryAdmin Role = "TEMPORARY_ADMIN"
)

// ParseRole maps an upstream role string to a known Role.
// Unknown strings (e.g. "GUEST") are rejected: an unrecognized role must
// never be granted a session.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleHR, RoleEmployee, RoleTemporaryAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Session is the authenticated identity held for one logged-in tab.
//
// UpstreamToken is the opaque access token issued by the upstream auth
// service; the gateway never inspects it, only forwards it on outbound
// calls. Exactly one session exists per session id; absence means
// unauthenticated.
type Session struct {
	Role          Role      `json:"role"`
	EmployeeID    string    `json:"employee_id"`
	UpstreamToken string    `json:"upstream_token"`
	CreatedAt     time.Time `json:"created_at"`
}

var ErrInvalidSession = errors.New("session: invalid session record")

// Store is the persistence contract for gateway sessions and their
// derived per-session data (the attendance check-in instant and small
// response caches such as the employee directory).
//
// Delete must clear all derived data along with the session itself and
// must be idempotent. All operations are total over local state: a
// missing record is reported via the bool, not an error.
type Store interface {
	Put(ctx context.Context, sid string, s Session) error
	Get(ctx context.Context, sid string) (Session, bool, error)
	Delete(ctx context.Context, sid string) error

	// Check-in instant persistence. Only the instant is stored; elapsed
	// time is always recomputed from it.
	SetCheckIn(ctx context.Context, sid string, at time.Time) error
	CheckIn(ctx context.Context, sid string) (time.Time, bool, error)
	ClearCheckIn(ctx context.Context, sid string) error

	// Session-scoped response cache (best-effort, cleared on Delete).
	SetCache(ctx context.Context, sid, key, value string) error
	Cache(ctx context.Context, sid, key string) (string, bool, error)
}
