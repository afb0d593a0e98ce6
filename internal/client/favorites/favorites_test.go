package favorites

import (
	"testing"

	"github.com/shopspring/decimal"

	"fashionhub/internal/client/catalog"
)

func product(id string) catalog.Product {
	return catalog.Product{ID: id, Name: "Product " + id, Price: decimal.NewFromInt(1)}
}

func TestAdd_Idempotent(t *testing.T) {
	s := New(nil)
	p := product("p1")

	if !s.Add(p) {
		t.Error("first Add() should report a change")
	}
	if !s.Contains("p1") {
		t.Error("Contains() false after first Add")
	}
	if s.Add(p) {
		t.Error("second Add() should be a no-op")
	}
	if s.Len() != 1 || !s.Contains("p1") {
		t.Errorf("Len() = %d after duplicate Add", s.Len())
	}

	s.Remove("p1")
	if s.Contains("p1") || s.Len() != 0 {
		t.Error("product still present after Remove")
	}
}

func TestRemove_Absent(t *testing.T) {
	s := New([]catalog.Product{product("p1")})
	if s.Remove("p2") {
		t.Error("Remove() of absent id reported a change")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestItems_InsertionOrder(t *testing.T) {
	s := New(nil)
	for _, id := range []string{"c", "a", "b"} {
		s.Add(product(id))
	}
	s.Remove("a")
	s.Add(product("a"))

	var got []string
	for _, p := range s.Items() {
		got = append(got, p.ID)
	}
	if len(got) != 3 || got[0] != "c" || got[1] != "b" || got[2] != "a" {
		t.Errorf("order = %v, want [c b a]", got)
	}
}

func TestNew_DeduplicatesFirstWins(t *testing.T) {
	first := product("p1")
	first.Name = "first"
	second := product("p1")
	second.Name = "second"

	s := New([]catalog.Product{first, product("p2"), second})
	items := s.Items()
	if len(items) != 2 || items[0].Name != "first" {
		t.Errorf("Items() = %+v", items)
	}
}
