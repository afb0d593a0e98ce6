package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"fashionhub/internal/client/events"
)

type fakeClient struct {
	checkID    *Identity
	checkErr   error
	endErr     error
	checkCalls int
	endCalls   int
	onCheck    func()
}

func (f *fakeClient) CheckSession(ctx context.Context) (*Identity, error) {
	f.checkCalls++
	if f.onCheck != nil {
		f.onCheck()
	}
	return f.checkID.Clone(), f.checkErr
}

func (f *fakeClient) EndSession(ctx context.Context) error {
	f.endCalls++
	return f.endErr
}

func strPtr(s string) *string { return &s }

func waitFor(t *testing.T, ch <-chan events.Event, want events.EventType) events.Event {
	t.Helper()
	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case ev := <-ch:
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %v", want)
			return events.Event{}
		}
	}
}

func TestRestoreSession_Authenticated(t *testing.T) {
	client := &fakeClient{checkID: &Identity{ID: 42, Name: "Anna", Email: "anna@example.com", Role: strPtr("user")}}
	s := NewStore(client, nil)

	if !s.IsLoading() {
		t.Fatal("store should start loading")
	}

	s.RestoreSession(context.Background())

	if s.IsLoading() {
		t.Error("loading should be false after restore")
	}
	if !s.IsAuthenticated() {
		t.Fatal("expected authenticated identity")
	}
	if got := s.Current(); got.ID != 42 || got.Name != "Anna" {
		t.Errorf("Current() = %+v", got)
	}
}

func TestRestoreSession_NotAuthenticated(t *testing.T) {
	s := NewStore(&fakeClient{}, nil)
	s.RestoreSession(context.Background())

	if s.IsAuthenticated() || s.Current() != nil {
		t.Error("expected anonymous after negative session check")
	}
	if s.IsLoading() {
		t.Error("loading should be false after restore")
	}
}

func TestRestoreSession_FailureIsAbsorbed(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe()
	client := &fakeClient{
		checkID:  &Identity{ID: 1},
		checkErr: errors.New("connection refused"),
	}
	s := NewStore(client, bus)

	s.RestoreSession(context.Background())

	if s.IsAuthenticated() {
		t.Error("a failed restore must leave the client anonymous")
	}
	if s.IsLoading() {
		t.Error("loading should be false after a failed restore")
	}
	ev := waitFor(t, ch, events.EventSessionRestoreFailed)
	if data := ev.Data.(events.ErrorData); data.Error == nil {
		t.Error("failure event should carry the error")
	}
}

func TestRestoreSession_NilClient(t *testing.T) {
	s := NewStore(nil, nil)
	s.RestoreSession(context.Background())
	if s.IsLoading() || s.IsAuthenticated() {
		t.Error("nil client should degrade to anonymous, not loading")
	}
}

func TestRestoreSession_RunsOnce(t *testing.T) {
	client := &fakeClient{checkID: &Identity{ID: 5}}
	s := NewStore(client, nil)

	s.RestoreSession(context.Background())
	s.Logout(context.Background())
	s.RestoreSession(context.Background())

	if client.checkCalls != 1 {
		t.Errorf("CheckSession called %d times, want 1", client.checkCalls)
	}
	if s.IsAuthenticated() {
		t.Error("second restore must not resurrect the session")
	}
}

func TestRestoreSession_LoginDuringCheckWins(t *testing.T) {
	client := &fakeClient{checkID: &Identity{ID: 1}}
	s := NewStore(client, nil)
	client.onCheck = func() { s.Login(Identity{ID: 2}) }

	s.RestoreSession(context.Background())

	if got := s.Current(); got == nil || got.ID != 2 {
		t.Errorf("Current() = %+v, want the identity from the concurrent login", got)
	}
	if s.IsLoading() {
		t.Error("loading should still be cleared")
	}
}

func TestLogin_NotifiesObservers(t *testing.T) {
	s := NewStore(&fakeClient{}, nil)

	var prevSeen, nextSeen []*Identity
	s.Subscribe(func(prev, next *Identity) {
		prevSeen = append(prevSeen, prev)
		nextSeen = append(nextSeen, next)
	})

	s.Login(Identity{ID: 7, Name: "Bo"})
	s.Login(Identity{ID: 8, Name: "Cy"})

	if len(nextSeen) != 2 {
		t.Fatalf("observer calls = %d, want 2", len(nextSeen))
	}
	if prevSeen[0] != nil || nextSeen[0].ID != 7 {
		t.Errorf("first transition = %v -> %v", prevSeen[0], nextSeen[0])
	}
	if prevSeen[1].ID != 7 || nextSeen[1].ID != 8 {
		t.Errorf("second transition = %v -> %v", prevSeen[1], nextSeen[1])
	}
}

func TestLogout_ClearsEvenWhenRequestFails(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe()
	client := &fakeClient{endErr: errors.New("timeout")}
	s := NewStore(client, bus)
	s.Login(Identity{ID: 3})

	s.Logout(context.Background())

	if client.endCalls != 1 {
		t.Errorf("EndSession called %d times, want 1", client.endCalls)
	}
	if s.IsAuthenticated() {
		t.Error("logout must clear the identity regardless of the server")
	}
	waitFor(t, ch, events.EventLogoutFailed)
}

func TestUpdateIdentity(t *testing.T) {
	s := NewStore(&fakeClient{}, nil)

	// Anonymous: no-op, no notification.
	calls := 0
	s.Subscribe(func(prev, next *Identity) { calls++ })
	s.UpdateIdentity(Patch{Name: strPtr("ghost")})
	if calls != 0 || s.Current() != nil {
		t.Fatalf("update while anonymous should be a no-op (calls=%d)", calls)
	}

	s.Login(Identity{ID: 9, Name: "Old", Email: "e@example.com"})
	s.UpdateIdentity(Patch{Name: strPtr("New"), Avatar: strPtr("/a.webp")})

	got := s.Current()
	if got.ID != 9 || got.Name != "New" || got.Email != "e@example.com" {
		t.Errorf("Current() = %+v", got)
	}
	if got.Avatar == nil || *got.Avatar != "/a.webp" {
		t.Errorf("Avatar = %v", got.Avatar)
	}
	if calls != 2 {
		t.Errorf("observer calls = %d, want 2", calls)
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := NewStore(&fakeClient{}, nil)
	s.Login(Identity{ID: 1, Name: "A", Role: strPtr("user")})

	got := s.Current()
	got.Name = "mutated"
	*got.Role = "admin"

	again := s.Current()
	if again.Name != "A" || *again.Role != "user" {
		t.Errorf("store state leaked through Current(): %+v", again)
	}
}

func TestUpdateIdentity_ClearsOptionalFields(t *testing.T) {
	s := NewStore(&fakeClient{}, nil)
	s.Login(Identity{ID: 4, Name: "Dee", Avatar: strPtr("/a.webp"), Role: strPtr("admin")})

	s.UpdateIdentity(Patch{ClearAvatar: true})
	got := s.Current()
	if got.Avatar != nil {
		t.Errorf("Avatar = %q, want nil", *got.Avatar)
	}
	if got.Role == nil || *got.Role != "admin" {
		t.Errorf("Role = %v, want untouched", got.Role)
	}

	s.UpdateIdentity(Patch{Role: strPtr("user"), ClearRole: true, Name: strPtr("Dee B")})
	got = s.Current()
	if got.Role != nil {
		t.Errorf("Role = %q, want cleared", *got.Role)
	}
	if got.Name != "Dee B" || got.ID != 4 {
		t.Errorf("Current() = %+v", got)
	}
}
