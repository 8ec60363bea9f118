package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{store: store, keyer: store, ttl: 8 * time.Hour}
}

func TestManagerOpenAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()
	userID := uuid.New()
	accessID := NewAccessID()

	if err := manager.Open(ctx, accessID, userID); err != nil {
		t.Fatalf("open: %v", err)
	}
	if ttl := store.ttls[store.AccessSessionKey(accessID)]; ttl != 8*time.Hour {
		t.Fatalf("expected session ttl 8h, got %v", ttl)
	}

	owner, err := manager.Owner(ctx, accessID)
	if err != nil || owner != userID {
		t.Fatalf("expected owner %s, got %s (%v)", userID, owner, err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := manager.Owner(ctx, accessID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("second revoke should be harmless: %v", err)
	}
}

func TestManagerValidatesInput(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()

	if err := manager.Open(ctx, "", uuid.New()); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if err := manager.Open(ctx, "abc", uuid.Nil); err == nil {
		t.Fatal("expected error for nil user")
	}
	if err := manager.Revoke(ctx, " "); err == nil {
		t.Fatal("expected error for blank revoke")
	}
	if _, err := manager.Owner(ctx, ""); !errors.Is(err, ErrNoSession) {
		t.Fatalf("blank access id has no session, got %v", err)
	}
}

func TestManagerCorruptEntry(t *testing.T) {
	store := newMockStore()
	store.data[store.AccessSessionKey("bad")] = "not-a-uuid"
	manager := newTestManager(store)
	if _, err := manager.Owner(context.Background(), "bad"); err == nil || errors.Is(err, ErrNoSession) {
		t.Fatal("expected corrupt entry to surface an error")
	}
}
