package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"hrms-gateway/internal/gateway"
	"hrms-gateway/internal/session"
)

type fakeUpstream struct {
	srv *httptest.Server

	checkIns  atomic.Int64
	checkOuts atomic.Int64

	records      []Record
	failCheckIn  bool
	failCheckOut bool
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/employee/attendance/check-in", func(w http.ResponseWriter, r *http.Request) {
		f.checkIns.Add(1)
		if f.failCheckIn {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("POST /api/employee/attendance/check-out", func(w http.ResponseWriter, r *http.Request) {
		f.checkOuts.Add(1)
		if f.failCheckOut {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /api/employee/attendance/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.records)
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestService(t *testing.T, up *fakeUpstream, at time.Time) (*Service, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	client := gateway.NewClient(up.srv.URL, time.Second, func(ctx context.Context) (string, bool) {
		return "tok", true
	})
	svc := NewService(client, store, nil)
	svc.clock = func() time.Time { return at }
	return svc, store
}

func TestCheckIn_PersistsInstantAndCallsUpstreamOnce(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	up := newFakeUpstream(t)
	svc, store := newTestService(t, up, now)
	ctx := context.Background()

	st, err := svc.CheckIn(ctx, "sid", "emp-1")
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if st.State != "checked_in" {
		t.Fatalf("expected checked_in, got %s", st.State)
	}
	if st.CheckInTimestamp != now.UnixMilli() {
		t.Fatalf("expected check-in millis %d, got %d", now.UnixMilli(), st.CheckInTimestamp)
	}
	if got := up.checkIns.Load(); got != 1 {
		t.Fatalf("expected 1 upstream check-in, got %d", got)
	}

	at, ok, _ := store.CheckIn(ctx, "sid")
	if !ok || !at.Equal(now) {
		t.Fatalf("expected persisted instant %v, got %v ok=%v", now, at, ok)
	}
}

func TestCheckIn_RejectsOpenSameDaySession(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	up := newFakeUpstream(t)
	up.records = []Record{{
		EmployeeID:  "emp-1",
		Date:        "2026-03-02T00:00:00",
		CheckInTime: "2026-03-02T09:00:00",
	}}
	svc, _ := newTestService(t, up, now)

	_, err := svc.CheckIn(context.Background(), "sid", "emp-1")
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if got := up.checkIns.Load(); got != 0 {
		t.Fatalf("expected no upstream check-in call, got %d", got)
	}
}

func TestCheckIn_UpstreamFailureLeavesPriorState(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	up := newFakeUpstream(t)
	up.failCheckIn = true
	svc, store := newTestService(t, up, now)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, "sid", "emp-1")
	var se *gateway.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if _, ok, _ := store.CheckIn(ctx, "sid"); ok {
		t.Fatalf("expected no persisted instant after failed check-in")
	}

	st, err := svc.Status(ctx, "sid", "emp-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.State != "checked_out" {
		t.Fatalf("expected checked_out after failure, got %s", st.State)
	}
}

func TestRequestCheckout_EarlyNeedsConfirmation(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := checkIn.Add(5 * time.Second)

	up := newFakeUpstream(t)
	svc, store := newTestService(t, up, now)
	ctx := context.Background()
	_ = store.SetCheckIn(ctx, "sid", checkIn)

	res, err := svc.RequestCheckout(ctx, "sid", "emp-1", "wip", false)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.Outcome != OutcomeConfirmationRequired {
		t.Fatalf("expected confirmation_required, got %s", res.Outcome)
	}
	if res.ElapsedSeconds != 5 {
		t.Fatalf("expected 5s elapsed, got %d", res.ElapsedSeconds)
	}
	if got := up.checkOuts.Load(); got != 0 {
		t.Fatalf("expected no upstream check-out, got %d", got)
	}
	// Timer still running.
	if _, ok, _ := store.CheckIn(ctx, "sid"); !ok {
		t.Fatalf("expected check-in instant still persisted")
	}
}

func TestRequestCheckout_ConfirmedEarlyProceeds(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := checkIn.Add(10 * time.Second)

	up := newFakeUpstream(t)
	svc, store := newTestService(t, up, now)
	ctx := context.Background()
	_ = store.SetCheckIn(ctx, "sid", checkIn)

	res, err := svc.RequestCheckout(ctx, "sid", "emp-1", "left early", true)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.Outcome != OutcomeCheckedOut {
		t.Fatalf("expected checked_out, got %s", res.Outcome)
	}
	if !res.Early {
		t.Fatalf("confirmed pre-threshold checkout must report early")
	}
	if got := up.checkOuts.Load(); got != 1 {
		t.Fatalf("expected 1 upstream check-out, got %d", got)
	}
	if _, ok, _ := store.CheckIn(ctx, "sid"); ok {
		t.Fatalf("expected persisted instant cleared after checkout")
	}
}

func TestRequestCheckout_FullDayNotMarkedEarly(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := checkIn.Add(9*time.Hour + 30*time.Minute)

	up := newFakeUpstream(t)
	svc, store := newTestService(t, up, now)
	ctx := context.Background()
	_ = store.SetCheckIn(ctx, "sid", checkIn)

	// A stale earlyConfirmed flag from the client must not matter
	// after a full day.
	res, err := svc.RequestCheckout(ctx, "sid", "emp-1", "done", true)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.Outcome != OutcomeCheckedOut {
		t.Fatalf("expected checked_out, got %s", res.Outcome)
	}
	if res.Early {
		t.Fatalf("full-day checkout must not report early")
	}
}

func TestRequestCheckout_FullDayThresholdBoundary(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	up := newFakeUpstream(t)
	ctx := context.Background()

	// 32399s: still early.
	svc, store := newTestService(t, up, checkIn.Add(32399*time.Second))
	_ = store.SetCheckIn(ctx, "sid", checkIn)
	res, err := svc.RequestCheckout(ctx, "sid", "emp-1", "", false)
	if err != nil || res.Outcome != OutcomeConfirmationRequired {
		t.Fatalf("expected confirmation at 32399s, got %s err=%v", res.Outcome, err)
	}

	// 32400s: checkout proceeds without confirmation.
	svc, store = newTestService(t, up, checkIn.Add(32400*time.Second))
	_ = store.SetCheckIn(ctx, "sid", checkIn)
	res, err = svc.RequestCheckout(ctx, "sid", "emp-1", "full day", false)
	if err != nil || res.Outcome != OutcomeCheckedOut {
		t.Fatalf("expected checkout at 32400s, got %s err=%v", res.Outcome, err)
	}
	if res.ElapsedSeconds != 32400 {
		t.Fatalf("expected 32400s elapsed, got %d", res.ElapsedSeconds)
	}
}

func TestRequestCheckout_UpstreamFailureKeepsTimerRunning(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := checkIn.Add(10 * time.Hour)

	up := newFakeUpstream(t)
	up.failCheckOut = true
	svc, store := newTestService(t, up, now)
	ctx := context.Background()
	_ = store.SetCheckIn(ctx, "sid", checkIn)

	_, err := svc.RequestCheckout(ctx, "sid", "emp-1", "x", false)
	var se *gateway.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if _, ok, _ := store.CheckIn(ctx, "sid"); !ok {
		t.Fatalf("expected instant still persisted after failed checkout")
	}
}

func TestStatus_ReloadRestoresFromPersistedInstant(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := checkIn.Add(90 * time.Minute)

	up := newFakeUpstream(t)
	svc, store := newTestService(t, up, now)
	ctx := context.Background()
	_ = store.SetCheckIn(ctx, "sid", checkIn)

	st, err := svc.Status(ctx, "sid", "emp-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.State != "checked_in" {
		t.Fatalf("expected checked_in after reload, got %s", st.State)
	}
	if st.ElapsedSeconds != 90*60 {
		t.Fatalf("expected %d elapsed, got %d", 90*60, st.ElapsedSeconds)
	}
	if got := up.checkIns.Load(); got != 0 {
		t.Fatalf("reload must not re-call check-in, got %d calls", got)
	}
}

func TestStatus_CheckedInStillListsRecords(t *testing.T) {
	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := checkIn.Add(time.Hour)

	up := newFakeUpstream(t)
	up.records = []Record{
		{EmployeeID: "emp-1", Date: "2026-03-01", CheckInTime: "2026-03-01T09:00:00", CheckOutTime: "2026-03-01T18:00:00"},
		{EmployeeID: "emp-1", Date: "2026-03-02", CheckInTime: "2026-03-02T09:00:00"},
	}
	svc, store := newTestService(t, up, now)
	ctx := context.Background()
	_ = store.SetCheckIn(ctx, "sid", checkIn)

	st, err := svc.Status(ctx, "sid", "emp-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.State != "checked_in" {
		t.Fatalf("expected checked_in, got %s", st.State)
	}
	if len(st.Records) != 2 {
		t.Fatalf("expected 2 records alongside the running timer, got %d", len(st.Records))
	}
}

func TestStatus_RehydratesFromUpstreamOpenRecord(t *testing.T) {
	now := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	up := newFakeUpstream(t)
	up.records = []Record{{
		EmployeeID:  "emp-1",
		Date:        "2026-03-02T00:00:00",
		CheckInTime: "2026-03-02T09:00:00",
	}}
	svc, store := newTestService(t, up, now)
	ctx := context.Background()

	st, err := svc.Status(ctx, "sid", "emp-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.State != "checked_in" {
		t.Fatalf("expected checked_in, got %s", st.State)
	}
	if st.ElapsedSeconds != 2*60*60 {
		t.Fatalf("expected 2h elapsed, got %ds", st.ElapsedSeconds)
	}
	// The instant was re-persisted for the next reload.
	if _, ok, _ := store.CheckIn(ctx, "sid"); !ok {
		t.Fatalf("expected instant persisted after rehydration")
	}
}

func TestStatus_CompletedDayIsTerminal(t *testing.T) {
	now := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	up := newFakeUpstream(t)
	up.records = []Record{{
		EmployeeID:   "emp-1",
		Date:         "2026-03-02T00:00:00",
		CheckInTime:  "2026-03-02T09:00:00",
		CheckOutTime: "2026-03-02T18:00:00",
	}}
	svc, _ := newTestService(t, up, now)
	ctx := context.Background()

	st, err := svc.Status(ctx, "sid", "emp-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.State != "checked_out" || !st.DayComplete {
		t.Fatalf("expected terminal checked_out, got %s complete=%v", st.State, st.DayComplete)
	}

	if _, err := svc.CheckIn(ctx, "sid", "emp-1"); !errors.Is(err, ErrDayComplete) {
		t.Fatalf("expected ErrDayComplete on re-check-in, got %v", err)
	}
}

func TestTicker_StopsCleanly(t *testing.T) {
	var ticks atomic.Int64
	tk := StartTicker(time.Millisecond, time.Now, func(now time.Time) {
		ticks.Add(1)
	})

	deadline := time.Now().Add(time.Second)
	for ticks.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ticks.Load() == 0 {
		t.Fatalf("expected at least one tick")
	}

	tk.Stop()
	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if ticks.Load() != after {
		t.Fatalf("expected no ticks after Stop")
	}
	// Stop is idempotent.
	tk.Stop()
}

func TestParseInstant(t *testing.T) {
	cases := []string{
		"2026-03-02T09:00:00Z",
		"2026-03-02T09:00:00",
		"2026-03-02T09:00:00.123",
	}
	for _, c := range cases {
		if _, ok := ParseInstant(c); !ok {
			t.Fatalf("expected %q to parse", c)
		}
	}
	if _, ok := ParseInstant("yesterday"); ok {
		t.Fatalf("expected garbage to be rejected")
	}
}
