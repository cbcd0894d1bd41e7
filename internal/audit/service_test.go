package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresType(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_AppendsImmutableEvents(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogLogin(context.Background(), true, "emp-1", "HR", "1.2.3.4", ""); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event")
	}
	if evs[0].IPAddress != "1.2.3.4" {
		t.Fatalf("expected ip captured")
	}
	if evs[0].Type != EventTypeLoginSuccess {
		t.Fatalf("expected login_success")
	}
	if evs[0].ID == "" || evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled in")
	}
}

func TestService_LogRouteDenied(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogRouteDenied(context.Background(), "emp-1", "EMPLOYEE", "1.2.3.4", "/admin/dashboard"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 || evs[0].Type != EventTypeRouteDenied {
		t.Fatalf("expected route_denied event")
	}
	if evs[0].Path != "/admin/dashboard" {
		t.Fatalf("expected denied path captured, got %q", evs[0].Path)
	}
}
