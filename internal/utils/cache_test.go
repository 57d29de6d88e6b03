package utils

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string](4, time.Minute)

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get() = %q/%v, want v/true", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("不存在的键返回了命中")
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("删除后仍然命中")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[int](4, time.Millisecond)

	c.Set("k", 1)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("过期条目仍然命中")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
}

func TestTTLCacheEviction(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatal("超出容量后最旧条目没有被淘汰")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("最新条目被淘汰了")
	}
}
