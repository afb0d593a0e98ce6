package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fashionhub/internal/auth"
	"fashionhub/internal/avatar"
	"fashionhub/internal/client/config"
	"fashionhub/internal/server"
	"fashionhub/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	Init("")
	os.Exit(m.Run())
}

// setupEnv starts a real session server and points the client's home
// directory and server URL at temp locations.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sessions, err := auth.NewSessionManager(auth.SessionConfig{AllowInsecureKeys: true})
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	avatars := avatar.NewStore(filepath.Join(dir, "avatars"), "/uploads/avatars")
	srv := server.NewServer(server.Options{Addr: ":0", AvatarURLPath: "/uploads/avatars"}, store, sessions, avatars)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	home := filepath.Join(dir, "home")
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvServer, ts.URL)
	return home
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("%v: error = %v (stderr: %s)", args, err, stderr.String())
	}
	return stdout.String()
}

func TestGuestUserGuestAcrossInvocations(t *testing.T) {
	setupEnv(t)

	out := runCmd(t, "cart", "add", "p1", "M")
	if !strings.Contains(out, "19.99") {
		t.Fatalf("guest cart:\n%s", out)
	}

	runCmd(t, "signup", "Anna", "anna@example.com", "secret123")
	out = runCmd(t, "whoami")
	if !strings.Contains(out, "cart_1") {
		t.Fatalf("whoami after signup:\n%s", out)
	}
	if out := runCmd(t, "cart"); !strings.Contains(out, "empty") {
		t.Fatalf("new user sees guest items:\n%s", out)
	}

	out = runCmd(t, "cart", "add", "p1", "M", "2")
	if !strings.Contains(out, "39.98") {
		t.Fatalf("user cart:\n%s", out)
	}

	runCmd(t, "logout")
	out = runCmd(t, "cart", "show")
	if !strings.Contains(out, "19.99") || strings.Contains(out, "39.98") {
		t.Fatalf("guest cart after logout:\n%s", out)
	}

	runCmd(t, "login", "anna@example.com", "secret123")
	if out := runCmd(t, "cart"); !strings.Contains(out, "39.98") {
		t.Fatalf("user cart after login:\n%s", out)
	}
}

func TestFavorites(t *testing.T) {
	setupEnv(t)

	runCmd(t, "fav", "add", "p2")
	runCmd(t, "fav", "add", "p2")
	out := runCmd(t, "fav", "list")
	if strings.Count(out, "p2") != 1 {
		t.Errorf("favorites:\n%s", out)
	}

	runCmd(t, "fav", "remove", "p2")
	if out := runCmd(t, "fav"); !strings.Contains(out, "No favorites") {
		t.Errorf("favorites after remove:\n%s", out)
	}
}

func TestCartErrors(t *testing.T) {
	setupEnv(t)

	var stdout, stderr bytes.Buffer
	for _, args := range [][]string{
		{"cart", "add", "nope", "M"},
		{"cart", "add", "p1", "XXS"},
		{"cart", "add", "p1", "M", "0"},
		{"cart", "add", "p1", "M", "many"},
		{"login", "ghost@example.com", "wrong"},
		{"avatar", "missing.png"},
	} {
		if err := run(args, &stdout, &stderr); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
	if out := runCmd(t, "cart"); !strings.Contains(out, "empty") {
		t.Errorf("failed commands changed the cart:\n%s", out)
	}
}

func TestUnreachableServerFallsBackToGuest(t *testing.T) {
	setupEnv(t)
	t.Setenv(config.EnvServer, "http://127.0.0.1:1")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"whoami"}, &stdout, &stderr); err != nil {
		t.Fatalf("whoami error = %v", err)
	}
	if !strings.Contains(stdout.String(), "guest") {
		t.Errorf("whoami:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "continuing as guest") {
		t.Errorf("restore failure not reported, stderr:\n%s", stderr.String())
	}
}
