package attendance

import (
	"errors"
	"time"
)

// FullDayThreshold is the minimum elapsed time after which a checkout
// proceeds without confirmation. Below it, the checkout is "early" and
// needs an explicit yes from the employee.
const FullDayThreshold = 9 * time.Hour

type State int

const (
	// StateCheckedOut is the initial state and, once a checkout for the
	// day has succeeded, the terminal one. Re-check-in on a completed
	// day is rejected.
	StateCheckedOut State = iota
	StateCheckedIn
	StatePendingEarlyConfirm
)

func (s State) String() string {
	switch s {
	case StateCheckedOut:
		return "checked_out"
	case StateCheckedIn:
		return "checked_in"
	case StatePendingEarlyConfirm:
		return "pending_early_confirm"
	default:
		return "unknown"
	}
}

// CheckoutDecision is the outcome of a checkout request.
type CheckoutDecision int

const (
	// CheckoutProceed: elapsed time reached the threshold, or an early
	// checkout was already confirmed. The caller may issue the upstream
	// check-out call and then commit with CompleteCheckout.
	CheckoutProceed CheckoutDecision = iota
	// CheckoutNeedsConfirm: the request arrived before the threshold
	// and no confirmation was given; the machine is now waiting for one.
	CheckoutNeedsConfirm
)

var (
	ErrAlreadyCheckedIn = errors.New("attendance: already checked in")
	ErrNotCheckedIn     = errors.New("attendance: not checked in")
	ErrDayComplete      = errors.New("attendance: checkout for today already recorded")
	ErrNoConfirmPending = errors.New("attendance: no confirmation pending")
)

// Machine tracks one employee's check-in/check-out state for one day.
//
// It is a pure value driven by instants passed in from outside: no
// clocks, no I/O, no timers. Upstream calls happen around it — the
// caller asks for a decision, performs the call, and commits the
// transition only on success, so a failed call leaves the machine in
// its prior state.
type Machine struct {
	state        State
	checkInAt    time.Time
	earlyAllowed bool
	dayComplete  bool
}

// NewMachine starts in StateCheckedOut with the day open.
func NewMachine() *Machine {
	return &Machine{state: StateCheckedOut}
}

// Restore reconstructs a checked-in machine from a persisted check-in
// instant, e.g. after a page reload. No new check-in call is implied.
func Restore(checkInAt time.Time) *Machine {
	return &Machine{state: StateCheckedIn, checkInAt: checkInAt}
}

// RestoreCompleted reconstructs the terminal state of a day whose
// checkout has already been recorded.
func RestoreCompleted() *Machine {
	return &Machine{state: StateCheckedOut, dayComplete: true}
}

func (m *Machine) State() State { return m.state }

// CheckInAt returns the active check-in instant; ok is false when the
// machine is checked out.
func (m *Machine) CheckInAt() (time.Time, bool) {
	if m.state == StateCheckedOut {
		return time.Time{}, false
	}
	return m.checkInAt, true
}

// Elapsed is the derived on-the-clock duration at now. It is never
// persisted; reconstructing the machine from the check-in instant
// yields the same value.
func (m *Machine) Elapsed(now time.Time) time.Duration {
	if m.state == StateCheckedOut {
		return 0
	}
	return now.Sub(m.checkInAt)
}

// CompleteCheckIn commits a successful upstream check-in at now.
func (m *Machine) CompleteCheckIn(now time.Time) error {
	switch {
	case m.state != StateCheckedOut:
		return ErrAlreadyCheckedIn
	case m.dayComplete:
		return ErrDayComplete
	}
	m.state = StateCheckedIn
	m.checkInAt = now
	m.earlyAllowed = false
	return nil
}

// RequestCheckout evaluates a checkout request at now. A pre-threshold
// request without prior confirmation moves the machine to
// StatePendingEarlyConfirm and does not check out.
func (m *Machine) RequestCheckout(now time.Time) (CheckoutDecision, error) {
	switch m.state {
	case StateCheckedOut:
		if m.dayComplete {
			return 0, ErrDayComplete
		}
		return 0, ErrNotCheckedIn
	case StatePendingEarlyConfirm:
		// Still waiting on the earlier confirmation.
		return CheckoutNeedsConfirm, nil
	}

	if m.earlyAllowed || m.Elapsed(now) >= FullDayThreshold {
		return CheckoutProceed, nil
	}
	m.state = StatePendingEarlyConfirm
	return CheckoutNeedsConfirm, nil
}

// Confirm answers a pending early-checkout confirmation. Either answer
// returns the machine to StateCheckedIn with the timer still running;
// yes additionally arms the next RequestCheckout to proceed regardless
// of elapsed time.
func (m *Machine) Confirm(yes bool) error {
	if m.state != StatePendingEarlyConfirm {
		return ErrNoConfirmPending
	}
	m.state = StateCheckedIn
	m.earlyAllowed = yes
	return nil
}

// CompleteCheckout commits a successful upstream check-out. The day is
// closed: further check-ins are rejected with ErrDayComplete.
func (m *Machine) CompleteCheckout() error {
	if m.state == StateCheckedOut {
		if m.dayComplete {
			return ErrDayComplete
		}
		return ErrNotCheckedIn
	}
	m.state = StateCheckedOut
	m.checkInAt = time.Time{}
	m.earlyAllowed = false
	m.dayComplete = true
	return nil
}
