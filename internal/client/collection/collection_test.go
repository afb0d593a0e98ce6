package collection

import (
	"errors"
	"testing"
	"time"

	"fashionhub/internal/client/events"
	"fashionhub/internal/client/storage"
)

type entry struct {
	ID   string `json:"id"`
	Size string `json:"size"`
}

type brokenKV struct{ err error }

func (b brokenKV) Get(string) (string, bool, error) { return "", false, b.err }
func (b brokenKV) Set(string, string) error         { return b.err }
func (b brokenKV) Delete(string) error              { return b.err }

func nextEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
		return events.Event{}
	}
}

func TestLoad_Absent(t *testing.T) {
	s := New[entry](storage.NewMemoryKV(0), nil)
	got := s.Load("cart_guest")
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %#v, want empty non-nil slice", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	kv := storage.NewMemoryKV(0)
	s := New[entry](kv, nil)

	s.Save("cart_42", []entry{{ID: "p1", Size: "M"}, {ID: "p2", Size: "L"}})

	raw, _, _ := kv.Get("cart_42")
	if raw != `[{"id":"p1","size":"M"},{"id":"p2","size":"L"}]` {
		t.Errorf("stored JSON = %s", raw)
	}
	got := s.Load("cart_42")
	if len(got) != 2 || got[1].ID != "p2" {
		t.Errorf("Load() = %+v", got)
	}
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	kv := storage.NewMemoryKV(0)
	New[entry](kv, nil).Save("favorites_guest", nil)
	if raw, _, _ := kv.Get("favorites_guest"); raw != "[]" {
		t.Errorf("stored = %q, want []", raw)
	}
}

func TestLoad_UnparseableYieldsEmpty(t *testing.T) {
	kv := storage.NewMemoryKV(0)
	bus := events.NewBus()
	ch := bus.Subscribe()
	s := New[entry](kv, bus)

	for _, raw := range []string{"{not json", `{"id":"p1"}`, "null"} {
		kv.Set("cart_7", raw)
		if got := s.Load("cart_7"); len(got) != 0 {
			t.Errorf("Load(%q) = %+v, want empty", raw, got)
		}
	}

	// "null" is valid JSON for an empty collection, so only two failures.
	for i := 0; i < 2; i++ {
		ev := nextEvent(t, ch)
		if ev.Type != events.EventStorageLoadFailed {
			t.Fatalf("event = %v, want storage_load_failed", ev.Type)
		}
		if data := ev.Data.(events.StorageErrorData); data.Key != "cart_7" {
			t.Errorf("event key = %q", data.Key)
		}
	}
}

func TestLoad_ReadErrorYieldsEmpty(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe()
	s := New[entry](brokenKV{err: errors.New("disk gone")}, bus)

	if got := s.Load("cart_guest"); len(got) != 0 {
		t.Errorf("Load() = %+v, want empty", got)
	}
	if ev := nextEvent(t, ch); ev.Type != events.EventStorageLoadFailed {
		t.Errorf("event = %v", ev.Type)
	}
}

func TestSave_QuotaExceededIsSwallowed(t *testing.T) {
	kv := storage.NewMemoryKV(16)
	bus := events.NewBus()
	ch := bus.Subscribe()
	s := New[entry](kv, bus)

	s.Save("cart_guest", []entry{{ID: "a-long-product-id", Size: "XL"}})

	ev := nextEvent(t, ch)
	if ev.Type != events.EventStorageSaveFailed {
		t.Fatalf("event = %v, want storage_save_failed", ev.Type)
	}
	if data := ev.Data.(events.StorageErrorData); !errors.Is(data.Error, storage.ErrQuotaExceeded) {
		t.Errorf("event error = %v, want ErrQuotaExceeded", data.Error)
	}
	if _, ok, _ := kv.Get("cart_guest"); ok {
		t.Error("failed save must leave storage untouched")
	}
}
