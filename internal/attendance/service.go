package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"hrms-gateway/internal/gateway"
	"hrms-gateway/internal/session"
	"hrms-gateway/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// checkInLockTTL bounds how long a check-in submission lock can leak if
// the process dies mid-call.
const checkInLockTTL = 30 * time.Second

// Service orchestrates the attendance state machine against the
// upstream attendance service and the session store.
//
// Persistence rules:
// - Only the check-in instant is stored (per session); elapsed time is
//   always recomputed from it.
// - The machine transitions commit only after the upstream call
//   succeeds; a failed call leaves the prior state intact and the error
//   is surfaced for inline display. No automatic retry.
type Service struct {
	upstream *gateway.Client
	store    session.Store

	// locks guards check-in against double-submit across concurrent
	// requests. Optional: nil skips locking (tests, single replica).
	locks *redis.Client

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(upstream *gateway.Client, store session.Store, locks *redis.Client) *Service {
	return &Service{
		upstream: upstream,
		store:    store,
		locks:    locks,
		clock:    time.Now,
	}
}

// Status is the attendance view for the employee dashboard.
type Status struct {
	State            string   `json:"state"`
	CheckInTimestamp int64    `json:"checkInTimestamp,omitempty"`
	ElapsedSeconds   int64    `json:"elapsedSeconds"`
	DayComplete      bool     `json:"dayComplete"`
	Records          []Record `json:"records"`
}

type CheckoutOutcome string

const (
	OutcomeCheckedOut           CheckoutOutcome = "checked_out"
	OutcomeConfirmationRequired CheckoutOutcome = "confirmation_required"
)

// CheckoutResult reports what a checkout request did. The confirmation
// itself is transient: it is never persisted, the client answers by
// repeating the request with earlyConfirmed set.
type CheckoutResult struct {
	Outcome        CheckoutOutcome `json:"outcome"`
	ElapsedSeconds int64           `json:"elapsedSeconds"`

	// Early marks a checkout that went through before the full-day
	// threshold, i.e. one the employee explicitly confirmed.
	Early bool `json:"early,omitempty"`
}

// Status restores the machine for the session and returns the current
// view together with the employee's attendance records.
func (s *Service) Status(ctx context.Context, sid, employeeID string) (Status, error) {
	m, records, err := s.restore(ctx, sid, employeeID)
	if err != nil {
		return Status{}, err
	}
	if records == nil {
		// restore skipped the upstream fetch (persisted instant).
		// Records are display data: a failed fetch never masks the
		// timer state.
		if fetched, err := s.fetchRecords(ctx, employeeID); err == nil {
			records = fetched
		}
	}
	return s.statusView(m, records), nil
}

// CheckIn records a check-in for today. The persisted instant lets a
// reload restore the running timer without a second upstream call.
func (s *Service) CheckIn(ctx context.Context, sid, employeeID string) (Status, error) {
	now := s.clock().UTC()

	if s.locks != nil {
		key := fmt.Sprintf("attendance:checkin:%s:%s", employeeID, now.Format("2006-01-02"))
		acquired, err := utils.AcquireSubmitLock(ctx, s.locks, key, checkInLockTTL)
		if err == nil && !acquired {
			return Status{}, ErrAlreadyCheckedIn
		}
		if err == nil {
			defer func() { _ = utils.ReleaseSubmitLock(ctx, s.locks, key) }()
		}
		// Lock errors are non-fatal: the same-day open-session check
		// below still catches duplicates.
	}

	m, _, err := s.restore(ctx, sid, employeeID)
	if err != nil {
		return Status{}, err
	}
	if m.State() != StateCheckedOut {
		return Status{}, ErrAlreadyCheckedIn
	}
	if m.dayComplete {
		return Status{}, ErrDayComplete
	}

	path := "/api/employee/attendance/check-in?employeeId=" + url.QueryEscape(employeeID)
	if err := s.upstream.Post(ctx, path, nil, nil); err != nil {
		// No optimistic transition: the machine stays checked out.
		return Status{}, err
	}

	if err := m.CompleteCheckIn(now); err != nil {
		return Status{}, err
	}
	if err := s.store.SetCheckIn(ctx, sid, now); err != nil {
		return Status{}, err
	}

	// Read back so the dashboard shows the authoritative record.
	records, err := s.fetchRecords(ctx, employeeID)
	if err != nil {
		records = nil // best-effort; the timer state is already committed
	}
	return s.statusView(m, records), nil
}

// RequestCheckout evaluates (and, when permitted, performs) a checkout.
// Before the nine-hour threshold the first request yields
// OutcomeConfirmationRequired; the client repeats the request with
// earlyConfirmed=true after the employee answers yes.
func (s *Service) RequestCheckout(ctx context.Context, sid, employeeID, workDescription string, earlyConfirmed bool) (CheckoutResult, error) {
	now := s.clock().UTC()

	m, _, err := s.restore(ctx, sid, employeeID)
	if err != nil {
		return CheckoutResult{}, err
	}

	decision, err := m.RequestCheckout(now)
	if err != nil {
		return CheckoutResult{}, err
	}
	early := decision == CheckoutNeedsConfirm
	if decision == CheckoutNeedsConfirm {
		if !earlyConfirmed {
			return CheckoutResult{
				Outcome:        OutcomeConfirmationRequired,
				ElapsedSeconds: int64(m.Elapsed(now) / time.Second),
			}, nil
		}
		// The employee already answered yes; arm the machine and retry.
		if err := m.Confirm(true); err != nil {
			return CheckoutResult{}, err
		}
		if decision, err = m.RequestCheckout(now); err != nil {
			return CheckoutResult{}, err
		}
	}
	_ = decision // CheckoutProceed from here on

	elapsed := m.Elapsed(now)

	q := url.Values{}
	q.Set("employeeId", employeeID)
	q.Set("workDescription", workDescription)
	path := "/api/employee/attendance/check-out?" + q.Encode()
	if err := s.upstream.Post(ctx, path, nil, nil); err != nil {
		// Prior state preserved; the timer keeps running.
		return CheckoutResult{}, err
	}

	if err := m.CompleteCheckout(); err != nil {
		return CheckoutResult{}, err
	}
	if err := s.store.ClearCheckIn(ctx, sid); err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		Outcome:        OutcomeCheckedOut,
		ElapsedSeconds: int64(elapsed / time.Second),
		Early:          early,
	}, nil
}

// Records fetches the employee's attendance history.
func (s *Service) Records(ctx context.Context, employeeID string) ([]Record, error) {
	return s.fetchRecords(ctx, employeeID)
}

// DailyReport fetches all employees' records for one date (HR view).
// date defaults to today when empty.
func (s *Service) DailyReport(ctx context.Context, date string) ([]Record, error) {
	if date == "" {
		date = s.clock().UTC().Format("2006-01-02")
	}
	var records []Record
	path := "/api/hr/attendance?date=" + url.QueryEscape(date)
	if err := s.upstream.Get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RangeReport fetches all employees' records between two dates (HR view).
func (s *Service) RangeReport(ctx context.Context, startDate, endDate string) ([]Record, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	var records []Record
	if err := s.upstream.Get(ctx, "/api/hr/attendance/range?"+q.Encode(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// restore reconstructs today's machine for the session.
//
// Order matters: the persisted check-in instant wins (reload without
// network); otherwise today's open upstream record rehydrates it, and a
// closed record for today marks the day complete.
func (s *Service) restore(ctx context.Context, sid, employeeID string) (*Machine, []Record, error) {
	if at, ok, err := s.store.CheckIn(ctx, sid); err == nil && ok {
		return Restore(at), nil, nil
	}

	records, err := s.fetchRecords(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}

	today := s.clock().UTC().Format("2006-01-02")
	for _, rec := range records {
		if rec.Day() != today {
			continue
		}
		if rec.Open() {
			at, ok := ParseInstant(rec.CheckInTime)
			if !ok {
				continue
			}
			// Re-persist so the next reload skips the upstream fetch.
			if err := s.store.SetCheckIn(ctx, sid, at); err != nil {
				return nil, nil, err
			}
			return Restore(at), records, nil
		}
		if rec.CheckOutTime != "" {
			return RestoreCompleted(), records, nil
		}
	}
	return NewMachine(), records, nil
}

func (s *Service) fetchRecords(ctx context.Context, employeeID string) ([]Record, error) {
	path := "/api/employee/attendance/" + url.PathEscape(employeeID)

	// The upstream returns either a single record or a list.
	var raw json.RawMessage
	if err := s.upstream.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var one Record
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, &gateway.DecodeError{Err: err}
	}
	return []Record{one}, nil
}

func (s *Service) statusView(m *Machine, records []Record) Status {
	now := s.clock().UTC()
	st := Status{
		State:          m.State().String(),
		ElapsedSeconds: int64(m.Elapsed(now) / time.Second),
		DayComplete:    m.state == StateCheckedOut && m.dayComplete,
		Records:        records,
	}
	if at, ok := m.CheckInAt(); ok {
		st.CheckInTimestamp = at.UnixMilli()
	}
	return st
}
