package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	return s
}

func TestInsertAndFindUser(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertUser(ctx, "Alice1", "a@x.com", "digest-1"); err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}

	u, err := s.FindUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail error: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected a store-assigned ID")
	}
	if u.Name != "Alice1" || u.Email != "a@x.com" || u.PasswordHash != "digest-1" {
		t.Fatalf("record mismatch: %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestInsertUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertUser(ctx, "Alice1", "a@x.com", "digest-1"); err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}
	err := s.InsertUser(ctx, "Bob2", "a@x.com", "digest-2")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// the first record is untouched
	u, err := s.FindUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail error: %v", err)
	}
	if u.Name != "Alice1" || u.PasswordHash != "digest-1" {
		t.Fatalf("original record was overwritten: %+v", u)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.FindUserByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertUser(ctx, "Alice1", "a@x.com", "digest-1"); err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}
	if err := s.UpdatePasswordHash(ctx, "a@x.com", "digest-2"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}

	u, err := s.FindUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail error: %v", err)
	}
	if u.PasswordHash != "digest-2" {
		t.Fatalf("hash not updated: got %q", u.PasswordHash)
	}

	if err := s.UpdatePasswordHash(ctx, "ghost@x.com", "digest-3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown email, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertUser(ctx, "Alice1", "a@x.com", "digest-1"); err != nil {
		t.Fatalf("InsertUser error: %v", err)
	}
	if err := s.DeleteUser(ctx, "a@x.com"); err != nil {
		t.Fatalf("DeleteUser error: %v", err)
	}
	if _, err := s.FindUserByEmail(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteUser(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty list, got %d records", len(users))
	}

	for _, u := range []struct{ name, email string }{
		{"Alice1", "a@x.com"},
		{"Bob2", "b@x.com"},
	} {
		if err := s.InsertUser(ctx, u.name, u.email, "digest"); err != nil {
			t.Fatalf("InsertUser(%s) error: %v", u.email, err)
		}
	}

	users, err = s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 records, got %d", len(users))
	}
	if users[0].Email != "a@x.com" || users[1].Email != "b@x.com" {
		t.Fatalf("unexpected order: %+v", users)
	}
}
