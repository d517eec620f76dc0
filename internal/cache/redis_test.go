package cache

import (
	"context"
	"testing"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	UseClient(nil, "")
	var dest map[string]string
	hit, err := GetJSON(context.Background(), "catalog:services", &dest)
	if err != nil || hit {
		t.Fatalf("disabled cache should miss without error, got hit=%v err=%v", hit, err)
	}
	if err := SetJSON(context.Background(), "catalog:services", map[string]string{"a": "b"}, 0); err != nil {
		t.Fatalf("disabled set should be noop: %v", err)
	}
	if err := Del(context.Background(), "catalog:services"); err != nil {
		t.Fatalf("disabled del should be noop: %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	UseClient(nil, "site")
	if got := BuildKey(" catalog:services "); got != "site:catalog:services" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := BuildKey(""); got != "site" {
		t.Fatalf("empty key should be prefix, got %s", got)
	}
	UseClient(nil, "")
}

func TestDisabledDelByPrefix(t *testing.T) {
	UseClient(nil, "")
	deleted, err := DelByPrefix(context.Background(), "catalog:")
	if err != nil || deleted != 0 {
		t.Fatalf("disabled prefix delete should be noop, got deleted=%d err=%v", deleted, err)
	}
	if Client() != nil || Enabled() {
		t.Fatalf("nil client must disable cache")
	}
}
