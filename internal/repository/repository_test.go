package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"blog_system/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	domain.PasswordCost = bcrypt.MinCost
	m.Run()
}

// recordingCache is an in-memory Cache with tombstones that never expire.
// It remembers which keys were invalidated. beforeFill, when set, runs once
// ahead of the next Fill so tests can slip a write in between a store read
// and the cache fill that follows it.
type recordingCache struct {
	mu          sync.Mutex
	values      map[string][]byte
	tombstones  map[string]bool
	invalidated []string
	beforeFill  func()
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: make(map[string][]byte), tombstones: make(map[string]bool)}
}

func (c *recordingCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *recordingCache) Fill(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	hook := c.beforeFill
	c.beforeFill = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.values[key]; taken || c.tombstones[key] {
		return nil
	}
	c.values[key] = b
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, _ time.Duration, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.tombstones[k] = true
	}
	c.invalidated = append(c.invalidated, keys...)
	return nil
}

func (c *recordingCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

func (c *recordingCache) interleave(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beforeFill = fn
}

func ptr(s string) *string { return &s }
