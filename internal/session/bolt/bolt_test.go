package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"sitewatch/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	// empty store reads as no session
	if u, err := s.LoadUser(ctx); err != nil || u != nil {
		t.Fatalf("empty load: %v %+v", err, u)
	}
	if ok, _ := s.Authenticated(ctx); ok {
		t.Fatal("fresh store must be unauthenticated")
	}

	want := &domain.User{ID: 9, Name: "Sam", Email: "sam@x.com"}
	if err := s.SaveUser(ctx, want); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if err := s.SetAuthenticated(ctx, true); err != nil {
		t.Fatalf("SetAuthenticated: %v", err)
	}

	got, err := s.LoadUser(ctx)
	if err != nil {
		t.Fatalf("LoadUser: %v", err)
	}
	if got == nil || got.ID != 9 || got.Email != "sam@x.com" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if ok, _ := s.Authenticated(ctx); !ok {
		t.Fatal("expected authenticated")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if u, _ := s.LoadUser(ctx); u != nil {
		t.Fatal("expected empty after clear")
	}
	if ok, _ := s.Authenticated(ctx); ok {
		t.Fatal("expected unauthenticated after clear")
	}
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveUser(ctx, &domain.User{ID: 2, Email: "p@x.com"}); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.LoadUser(ctx)
	if err != nil || got == nil || got.ID != 2 {
		t.Fatalf("session lost across reopen: %v %+v", err, got)
	}
}
