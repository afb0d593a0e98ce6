// Package shop ties the cart and favorites to the signed-in identity.
// Whenever the identity's storage keys change, both collections are
// reloaded from the new namespace before any further operation runs.
package shop

import (
	"sync"

	"github.com/shopspring/decimal"

	"fashionhub/internal/client/cart"
	"fashionhub/internal/client/catalog"
	"fashionhub/internal/client/collection"
	"fashionhub/internal/client/events"
	"fashionhub/internal/client/favorites"
	"fashionhub/internal/client/identity"
	"fashionhub/internal/client/keyspace"
	"fashionhub/internal/client/logger"
	"fashionhub/internal/client/storage"
)

// Option configures a Shop.
type Option func(*Shop)

// WithEventBus publishes load and storage events on bus.
func WithEventBus(bus *events.Bus) Option {
	return func(s *Shop) { s.bus = bus }
}

// Shop is the per-session cart and favorites state.
type Shop struct {
	ids *identity.Store
	bus *events.Bus

	carts *collection.Store[cart.Item]
	favs  *collection.Store[catalog.Product]

	mu        sync.Mutex
	keys      keyspace.Keys
	cart      *cart.Cart
	favorites *favorites.Set
}

// New loads the collections for the current identity and follows it from then on.
func New(ids *identity.Store, kv storage.KV, opts ...Option) *Shop {
	s := &Shop{ids: ids}
	for _, opt := range opts {
		opt(s)
	}
	s.carts = collection.New[cart.Item](kv, s.bus)
	s.favs = collection.New[catalog.Product](kv, s.bus)

	s.mu.Lock()
	defer s.mu.Unlock()
	// Subscribing under the lock means a transition racing construction
	// waits for the initial load and is then compared against it.
	ids.Subscribe(s.identityChanged)
	s.load(keyspace.Resolve(ids.Current()))
	return s
}

// identityChanged re-resolves from the store rather than trusting next,
// so notifications delivered out of order still settle on the latest identity.
func (s *Shop) identityChanged(_, _ *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
}

// syncLocked reloads the collections if the active identity's keys differ
// from the loaded ones. The identity store swaps identities before it
// notifies observers, so every operation calls this first; otherwise a
// mutation in that window would land in the previous identity's namespace.
// Caller holds s.mu.
func (s *Shop) syncLocked() {
	keys := keyspace.Resolve(s.ids.Current())
	if keys == s.keys {
		return
	}
	s.load(keys)
}

// load replaces both collections with those stored under keys and
// mirrors them back. Caller holds s.mu.
func (s *Shop) load(keys keyspace.Keys) {
	s.keys = keys
	s.cart = cart.New(s.carts.Load(keys.Cart))
	s.favorites = favorites.New(s.favs.Load(keys.Favorites))
	s.saveCart()
	s.saveFavorites()

	logger.Info("Loaded %s (%d items) and %s (%d items)",
		keys.Cart, s.cart.Len(), keys.Favorites, s.favorites.Len())
	s.bus.Publish(events.Event{
		Type: events.EventCollectionsLoaded,
		Data: events.CollectionsData{
			CartKey:      keys.Cart,
			FavoritesKey: keys.Favorites,
			CartItems:    s.cart.Len(),
			Favorites:    s.favorites.Len(),
		},
	})
}

func (s *Shop) saveCart() {
	s.carts.Save(s.keys.Cart, s.cart.Items())
}

func (s *Shop) saveFavorites() {
	s.favs.Save(s.keys.Favorites, s.favorites.Items())
}

// Keys returns the namespace currently in use.
func (s *Shop) Keys() keyspace.Keys {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.keys
}

// AddToCart adds quantity units of p in size. See cart.Cart.Add.
func (s *Shop) AddToCart(p catalog.Product, size string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	if err := s.cart.Add(p, size, quantity); err != nil {
		return err
	}
	s.saveCart()
	return nil
}

func (s *Shop) RemoveFromCart(productID, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.cart.Remove(productID, size)
	s.saveCart()
}

// SetQuantity replaces an entry's quantity; <= 0 removes it.
func (s *Shop) SetQuantity(productID, size string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.cart.SetQuantity(productID, size, quantity)
	s.saveCart()
}

// ChangeSize moves an entry to another size, merging on collision.
func (s *Shop) ChangeSize(productID, oldSize, newSize string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	if err := s.cart.ChangeSize(productID, oldSize, newSize); err != nil {
		return err
	}
	s.saveCart()
	return nil
}

func (s *Shop) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.cart.Clear()
	s.saveCart()
}

func (s *Shop) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.cart.TotalPrice()
}

func (s *Shop) CartItems() []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.cart.Items()
}

// CartQuantity is the total number of units in the cart.
func (s *Shop) CartQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.cart.Quantity()
}

func (s *Shop) AddFavorite(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.favorites.Add(p)
	s.saveFavorites()
}

func (s *Shop) RemoveFavorite(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	s.favorites.Remove(productID)
	s.saveFavorites()
}

func (s *Shop) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.favorites.Contains(productID)
}

func (s *Shop) Favorites() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return s.favorites.Items()
}
