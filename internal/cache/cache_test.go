package cache

import (
	"testing"
	"time"
)

func TestGetSetDelete(t *testing.T) {
	c := New[int](time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache should miss")
	}
	c.Set("k", 42)
	if v, ok := c.Get("k"); !ok || v != 42 {
		t.Fatalf("got %d, %v", v, ok)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("deleted key should miss")
	}
}

func TestExpiry(t *testing.T) {
	c := New[string](10 * time.Millisecond)
	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry should hit")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestCleanExpired(t *testing.T) {
	c := New[int](10 * time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("removed %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("size %d, want 1", c.Size())
	}
}

func TestStartStopCleanup(t *testing.T) {
	c := New[int](5 * time.Millisecond)
	c.Set("a", 1)
	c.StartCleanup(10 * time.Millisecond)
	defer c.Stop()

	deadline := time.After(500 * time.Millisecond)
	for c.Size() > 0 {
		select {
		case <-deadline:
			t.Fatal("cleanup goroutine never removed the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
	c.Stop() // Stop is idempotent; the deferred call must not panic
}
