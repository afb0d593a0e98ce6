// Package identity holds the authenticated user for the running client and
// notifies observers whenever it is replaced.
package identity

import (
	"context"
	"errors"
	"sync"

	"fashionhub/internal/client/events"
	"fashionhub/internal/client/logger"
)

// ErrNoSessionClient is reported when a session call is attempted without a client.
var ErrNoSessionClient = errors.New("no session client configured")

// Identity is the authenticated user record held client-side.
type Identity struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
	Role   *string `json:"role"`
}

// Clone returns a deep copy; nil stays nil.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Avatar != nil {
		v := *i.Avatar
		c.Avatar = &v
	}
	if i.Role != nil {
		v := *i.Role
		c.Role = &v
	}
	return &c
}

// Patch lists the fields UpdateIdentity may overwrite. Nil fields are left
// alone; ClearAvatar and ClearRole set the field to nil and take precedence
// over a value for the same field.
type Patch struct {
	Name   *string
	Email  *string
	Avatar *string
	Role   *string

	ClearAvatar bool
	ClearRole   bool
}

func (p Patch) apply(to *Identity) {
	if p.Name != nil {
		to.Name = *p.Name
	}
	if p.Email != nil {
		to.Email = *p.Email
	}
	if p.Avatar != nil {
		v := *p.Avatar
		to.Avatar = &v
	}
	if p.Role != nil {
		v := *p.Role
		to.Role = &v
	}
	if p.ClearAvatar {
		to.Avatar = nil
	}
	if p.ClearRole {
		to.Role = nil
	}
}

// SessionClient is the boundary to the session API.
// CheckSession returns (nil, nil) when the server reports no session.
type SessionClient interface {
	CheckSession(ctx context.Context) (*Identity, error)
	EndSession(ctx context.Context) error
}

// Observer is called after every identity replacement with copies of the
// previous and new identity (nil meaning anonymous).
type Observer func(prev, next *Identity)

// Store holds zero or one active identity.
type Store struct {
	client SessionClient
	bus    *events.Bus

	mu        sync.RWMutex
	current   *Identity
	loading   bool
	gen       uint64 // bumped on every replacement
	observers []Observer

	restoreOnce sync.Once
}

// NewStore creates an anonymous store in the loading state.
// bus may be nil.
func NewStore(client SessionClient, bus *events.Bus) *Store {
	return &Store{
		client:  client,
		bus:     bus,
		loading: true,
	}
}

// Current returns a copy of the active identity, or nil when anonymous.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// IsAuthenticated reports whether an identity is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// IsLoading is true until the initial RestoreSession has finished.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers an observer. Observers run synchronously on the
// goroutine that changed the identity, outside the store lock.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// RestoreSession asks the server whether the ambient session is
// authenticated. Any failure leaves the client anonymous. Only the first
// call does anything; loading is cleared exactly once.
func (s *Store) RestoreSession(ctx context.Context) {
	s.restoreOnce.Do(func() {
		s.mu.RLock()
		startGen := s.gen
		s.mu.RUnlock()

		var restored *Identity
		var err error
		if s.client == nil {
			err = ErrNoSessionClient
		} else {
			restored, err = s.client.CheckSession(ctx)
		}
		if err != nil {
			logger.Warn("Session restore failed: %v", err)
			s.bus.PublishError(events.EventSessionRestoreFailed, err, "restore session")
			restored = nil
		}

		applied := false
		s.update(func(*Identity) (*Identity, bool) {
			s.loading = false
			// A login or logout that happened while the check was in flight wins.
			if s.gen != startGen {
				return nil, false
			}
			applied = true
			return restored, true
		})
		if applied {
			s.bus.Publish(events.Event{Type: events.EventSessionRestored, Data: identityData(restored)})
		}
	})
}

// Login makes id the active identity. No network call is made; the caller
// already authenticated.
func (s *Store) Login(id Identity) {
	s.replace(&id)
}

// Logout ends the server session and clears the identity whatever the
// outcome of that call.
func (s *Store) Logout(ctx context.Context) {
	var err error
	if s.client == nil {
		err = ErrNoSessionClient
	} else {
		err = s.client.EndSession(ctx)
	}
	if err != nil {
		logger.Warn("Logout request failed, clearing local session anyway: %v", err)
		s.bus.PublishError(events.EventLogoutFailed, err, "logout")
	}
	s.replace(nil)
}

// UpdateIdentity merges patch into the active identity; no-op when anonymous.
func (s *Store) UpdateIdentity(patch Patch) {
	s.update(func(cur *Identity) (*Identity, bool) {
		if cur == nil {
			return nil, false
		}
		next := cur.Clone()
		patch.apply(next)
		return next, true
	})
}

func (s *Store) replace(next *Identity) {
	s.update(func(*Identity) (*Identity, bool) { return next, true })
}

// update computes the next identity from the current one under the lock,
// then notifies observers outside it.
func (s *Store) update(fn func(cur *Identity) (*Identity, bool)) {
	s.mu.Lock()
	next, ok := fn(s.current)
	if !ok {
		s.mu.Unlock()
		return
	}
	next = next.Clone()
	prev := s.current
	s.current = next
	s.gen++
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, obs := range observers {
		obs(prev.Clone(), next.Clone())
	}
	s.bus.Publish(events.Event{Type: events.EventIdentityChanged, Data: identityData(next)})
}

func identityData(id *Identity) events.IdentityData {
	if id == nil {
		return events.IdentityData{}
	}
	return events.IdentityData{Authenticated: true, UserID: id.ID}
}
