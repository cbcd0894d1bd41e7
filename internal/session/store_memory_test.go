package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if _, ok, _ := st.Get(ctx, "sid-1"); ok {
		t.Fatalf("expected no session before Put")
	}

	sess := Session{Role: RoleEmployee, EmployeeID: "emp-1", UpstreamToken: "tok"}
	if err := st.Put(ctx, "sid-1", sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := st.Get(ctx, "sid-1")
	if err != nil || !ok {
		t.Fatalf("expected session, ok=%v err=%v", ok, err)
	}
	if got.Role != RoleEmployee || got.EmployeeID != "emp-1" {
		t.Fatalf("unexpected session: %+v", got)
	}

	if err := st.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "sid-1"); ok {
		t.Fatalf("expected session gone after Delete")
	}
	// Delete is idempotent.
	if err := st.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStore_DeleteClearsDerivedData(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.Put(ctx, "sid-1", Session{Role: RoleEmployee, EmployeeID: "e"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	at := time.UnixMilli(1700000000000)
	if err := st.SetCheckIn(ctx, "sid-1", at); err != nil {
		t.Fatalf("set checkin: %v", err)
	}
	if err := st.SetCache(ctx, "sid-1", "employees", `[{"id":"e"}]`); err != nil {
		t.Fatalf("set cache: %v", err)
	}

	if err := st.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := st.CheckIn(ctx, "sid-1"); ok {
		t.Fatalf("expected check-in cleared with session")
	}
	if _, ok, _ := st.Cache(ctx, "sid-1", "employees"); ok {
		t.Fatalf("expected cache cleared with session")
	}
}

func TestMemoryStore_CheckInRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	at := time.UnixMilli(1700000000000)
	if err := st.SetCheckIn(ctx, "sid-1", at); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := st.CheckIn(ctx, "sid-1")
	if err != nil || !ok {
		t.Fatalf("expected check-in, ok=%v err=%v", ok, err)
	}
	if !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}

	if err := st.ClearCheckIn(ctx, "sid-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := st.CheckIn(ctx, "sid-1"); ok {
		t.Fatalf("expected check-in cleared")
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"ADMIN", "HR", "EMPLOYEE", "TEMPORARY_ADMIN"} {
		if _, ok := ParseRole(s); !ok {
			t.Fatalf("expected %q to parse", s)
		}
	}
	if _, ok := ParseRole("GUEST"); ok {
		t.Fatalf("expected GUEST to be rejected")
	}
	if _, ok := ParseRole(""); ok {
		t.Fatalf("expected empty role to be rejected")
	}
}
