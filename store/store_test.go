// ABOUTME: Tests for the session key-value stores
// ABOUTME: Covers memory scoping, file persistence, and corrupt-file recovery

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
)

func TestMemoryStore_ScopedByPrefix(t *testing.T) {
	c := cache.New(time.Minute)
	a := NewMemoryStore(c, "session:a:", time.Minute)
	b := NewMemoryStore(c, "session:b:", time.Minute)

	a.Set(KeyAccessToken, "token-a")
	b.Set(KeyAccessToken, "token-b")

	if val, _ := a.Get(KeyAccessToken); val != "token-a" {
		t.Errorf("store a returned %q, want token-a", val)
	}
	if val, _ := b.Get(KeyAccessToken); val != "token-b" {
		t.Errorf("store b returned %q, want token-b", val)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	c := cache.New(time.Minute)
	s := NewMemoryStore(c, "session:a:", time.Minute)
	other := NewMemoryStore(c, "session:b:", time.Minute)

	s.Set(KeyAccessToken, "token")
	s.Set(KeyUser, `{"id":1}`)
	other.Set(KeyAccessToken, "other-token")

	s.Clear()

	if _, ok := s.Get(KeyAccessToken); ok {
		t.Error("Clear should remove the access token")
	}
	if _, ok := s.Get(KeyUser); ok {
		t.Error("Clear should remove the user")
	}
	if _, ok := other.Get(KeyAccessToken); !ok {
		t.Error("Clear should not touch other sessions")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	c := cache.New(time.Minute)
	s := NewMemoryStore(c, "s:", time.Minute)

	s.Set(KeyAccessToken, "t")
	s.Set(KeyRefreshToken, "r")
	s.Set(KeyUser, "u")

	s.Delete(KeyAccessToken, KeyRefreshToken)

	if _, ok := s.Get(KeyAccessToken); ok {
		t.Error("access token should be deleted")
	}
	if _, ok := s.Get(KeyRefreshToken); ok {
		t.Error("refresh token should be deleted")
	}
	if _, ok := s.Get(KeyUser); !ok {
		t.Error("user should survive a partial delete")
	}
}

func TestFileStore_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewFileStore(path)
	s.Set(KeyAccessToken, "token-123")
	s.Set(KeyUser, `{"id":7,"username":"eco"}`)

	// A fresh store over the same file sees the persisted state
	reloaded := NewFileStore(path)
	if val, _ := reloaded.Get(KeyAccessToken); val != "token-123" {
		t.Errorf("reloaded token = %q, want token-123", val)
	}
	if val, _ := reloaded.Get(KeyUser); val != `{"id":7,"username":"eco"}` {
		t.Errorf("reloaded user = %q", val)
	}
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if _, ok := s.Get(KeyAccessToken); ok {
		t.Error("corrupt file should behave like a logged-out state")
	}
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewFileStore(path)
	s.Set(KeyAccessToken, "t")
	s.Set(KeyRefreshToken, "r")
	s.Clear()

	reloaded := NewFileStore(path)
	if _, ok := reloaded.Get(KeyAccessToken); ok {
		t.Error("Clear should persist the empty state")
	}
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewFileStore(path)
	s.Set(KeyAccessToken, "secret")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}
}
