package audit

import "time"

// Event is an immutable, append-only audit log record for the gateway's
// authentication and authorization surface.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; do not block login or
//   navigation flows on audit failures.
//
// Storage (Postgres):
// - Table auth_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorEmployeeID is the authenticated employee causing the event
	// (empty for failed logins where no identity was established).
	ActorEmployeeID string `json:"actor_employee_id,omitempty" db:"actor_employee_id"`
	ActorRole       string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Path is the route involved, for navigation denials.
	Path string `json:"path,omitempty" db:"path"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLoginSuccess  EventType = "login_success"
	EventTypeLoginFailure  EventType = "login_failure"
	EventTypeUnknownRole   EventType = "unknown_role"
	EventTypeLogout        EventType = "logout"
	EventTypeRouteDenied   EventType = "route_denied"
	EventTypeEarlyCheckout EventType = "early_checkout_confirmed"
)
