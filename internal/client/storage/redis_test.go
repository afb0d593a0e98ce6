package storage

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// setupRedisKV connects to $REDIS_ADDR and skips when it is unset.
func setupRedisKV(t *testing.T, quota int) *RedisKV {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	kv, err := NewRedisKV(addr, "fashionhub-test:"+uuid.NewString()+":", quota)
	if err != nil {
		t.Fatalf("NewRedisKV() error = %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestRedisKV_GetSetDelete(t *testing.T) {
	kv := setupRedisKV(t, 0)

	if _, ok, err := kv.Get("cart_guest"); ok || err != nil {
		t.Fatalf("Get() on missing key = ok %v, err %v", ok, err)
	}
	if err := kv.Set("cart_guest", `[{"id":"p1"}]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := kv.Get("cart_guest")
	if err != nil || !ok || v != `[{"id":"p1"}]` {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	if err := kv.Delete("cart_guest"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := kv.Get("cart_guest"); ok {
		t.Error("key still present after Delete")
	}
}

func TestRedisKV_Quota(t *testing.T) {
	kv := setupRedisKV(t, 32)
	if err := kv.Set("cart_1", strings.Repeat("x", 64)); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Set() error = %v, want ErrQuotaExceeded", err)
	}
}

func TestNewRedisKV_Unreachable(t *testing.T) {
	if _, err := NewRedisKV("127.0.0.1:1", "x:", 0); err == nil {
		t.Error("NewRedisKV() should fail when the server is unreachable")
	}
}
