package keyspace

import (
	"testing"

	"fashionhub/internal/client/identity"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		id   *identity.Identity
		want Keys
	}{
		{"guest", nil, Keys{Cart: "cart_guest", Favorites: "favorites_guest"}},
		{"user", &identity.Identity{ID: 42}, Keys{Cart: "cart_42", Favorites: "favorites_42"}},
		{"zero id is still a user", &identity.Identity{ID: 0}, Keys{Cart: "cart_0", Favorites: "favorites_0"}},
		{"large id", &identity.Identity{ID: 9007199254740993}, Keys{Cart: "cart_9007199254740993", Favorites: "favorites_9007199254740993"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.id); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_IgnoresOtherFields(t *testing.T) {
	a := Resolve(&identity.Identity{ID: 7, Name: "A", Email: "a@example.com"})
	b := Resolve(&identity.Identity{ID: 7, Name: "B"})
	if a != b {
		t.Errorf("keys differ for the same ID: %+v vs %+v", a, b)
	}
}

func TestIsGuest(t *testing.T) {
	if !Resolve(nil).IsGuest() {
		t.Error("nil identity should resolve to guest keys")
	}
	if Resolve(&identity.Identity{ID: 1}).IsGuest() {
		t.Error("user keys reported as guest")
	}
}
