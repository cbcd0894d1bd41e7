package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs auth and authorization audit information.
//
// IMPORTANT:
// - Audit is internal-only; records are never exposed through the
//   dashboard routes.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogLogin records a login attempt. employeeID and role are empty when
// the attempt failed before an identity was established.
func (s *Service) LogLogin(ctx context.Context, success bool, employeeID, role, ip, message string) error {
	typ := EventTypeLoginSuccess
	if !success {
		typ = EventTypeLoginFailure
	}
	return s.Append(ctx, Event{
		Type:            typ,
		ActorEmployeeID: employeeID,
		ActorRole:       role,
		IPAddress:       ip,
		Message:         message,
	})
}

// LogUnknownRole records a login that authenticated upstream but carried
// a role the gateway does not recognize.
func (s *Service) LogUnknownRole(ctx context.Context, role, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventTypeUnknownRole,
		ActorRole: role,
		IPAddress: ip,
		Message:   "login rejected: unknown role",
	})
}

// LogLogout records an explicit logout.
func (s *Service) LogLogout(ctx context.Context, employeeID, role, ip string) error {
	return s.Append(ctx, Event{
		Type:            EventTypeLogout,
		ActorEmployeeID: employeeID,
		ActorRole:       role,
		IPAddress:       ip,
	})
}

// LogRouteDenied records a navigation outside the caller's route grant.
func (s *Service) LogRouteDenied(ctx context.Context, employeeID, role, ip, path string) error {
	return s.Append(ctx, Event{
		Type:            EventTypeRouteDenied,
		ActorEmployeeID: employeeID,
		ActorRole:       role,
		IPAddress:       ip,
		Path:            path,
	})
}

// LogEarlyCheckout records a confirmed early checkout.
func (s *Service) LogEarlyCheckout(ctx context.Context, employeeID, ip string) error {
	return s.Append(ctx, Event{
		Type:            EventTypeEarlyCheckout,
		ActorEmployeeID: employeeID,
		ActorRole:       "EMPLOYEE",
		IPAddress:       ip,
		Message:         "early checkout confirmed",
	})
}
