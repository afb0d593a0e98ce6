// Package keyspace maps the active identity to the storage keys that hold
// its cart and favorites.
package keyspace

import (
	"strconv"

	"fashionhub/internal/client/identity"
)

const (
	cartPrefix      = "cart_"
	favoritesPrefix = "favorites_"
	guestSuffix     = "guest"
)

// Keys is the pair of storage keys owned by one identity.
type Keys struct {
	Cart      string
	Favorites string
}

// Guest returns the keys used while nobody is signed in.
func Guest() Keys {
	return Keys{Cart: cartPrefix + guestSuffix, Favorites: favoritesPrefix + guestSuffix}
}

// Resolve returns the keys for id. A nil identity is a guest; any other
// identity, including one with ID 0, is keyed by its numeric ID.
func Resolve(id *identity.Identity) Keys {
	if id == nil {
		return Guest()
	}
	suffix := strconv.FormatInt(id.ID, 10)
	return Keys{Cart: cartPrefix + suffix, Favorites: favoritesPrefix + suffix}
}

// IsGuest reports whether k is the guest key pair.
func (k Keys) IsGuest() bool {
	return k == Guest()
}
