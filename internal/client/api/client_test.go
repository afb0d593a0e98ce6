package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fashionhub/pkg/protocol"
)

// fakeServer mimics the session API with a single known account.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	role := "user"
	anna := &protocol.User{ID: 42, Name: "Anna", Email: "anna@example.com", Role: &role}

	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		resp := protocol.MeResponse{}
		if ck, err := r.Cookie(protocol.SessionCookie); err == nil && ck.Value == "token-42" {
			resp = protocol.MeResponse{Authenticated: true, User: anna}
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req protocol.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != anna.Email || req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(protocol.AuthResponse{Message: "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: protocol.SessionCookie, Value: "token-42", Path: "/"})
		json.NewEncoder(w).Encode(protocol.AuthResponse{Success: true, User: anna})
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: protocol.SessionCookie, Value: "", Path: "/", MaxAge: -1})
		json.NewEncoder(w).Encode(protocol.StatusResponse{Success: true})
	})
	mux.HandleFunc("/upload_avatar", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(protocol.SessionCookie); err != nil || ck.Value != "token-42" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(protocol.StatusResponse{Message: "Not authenticated"})
			return
		}
		f, hdr, err := r.FormFile("avatar")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(protocol.StatusResponse{Message: "File is required"})
			return
		}
		data, _ := io.ReadAll(f)
		if string(data) != "image-bytes" || hdr.Filename != "me.png" {
			t.Errorf("upload = %q as %q", data, hdr.Filename)
		}
		json.NewEncoder(w).Encode(protocol.AvatarResponse{Success: true, Message: "Avatar updated", AvatarURL: "/uploads/avatars/a.webp"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckSession_Anonymous(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL)

	id, err := c.CheckSession(context.Background())
	if err != nil {
		t.Fatalf("CheckSession() error = %v", err)
	}
	if id != nil {
		t.Errorf("CheckSession() = %+v, want nil", id)
	}
}

func TestLoginCheckLogout(t *testing.T) {
	srv := fakeServer(t)

	var hooks []string
	c := New(srv.URL, WithSessionHook(func(v string) { hooks = append(hooks, v) }))
	ctx := context.Background()

	id, err := c.Login(ctx, "anna@example.com", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if id.ID != 42 || id.Role == nil || *id.Role != "user" {
		t.Errorf("Login() = %+v", id)
	}
	if c.Session() != "token-42" {
		t.Errorf("Session() = %q", c.Session())
	}

	id, err = c.CheckSession(ctx)
	if err != nil || id == nil || id.Email != "anna@example.com" {
		t.Fatalf("CheckSession() = %+v, %v", id, err)
	}

	if err := c.EndSession(ctx); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if c.Session() != "" {
		t.Errorf("Session() = %q after logout", c.Session())
	}
	if len(hooks) != 2 || hooks[0] != "token-42" || hooks[1] != "" {
		t.Errorf("session hook calls = %q", hooks)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "anna@example.com", "wrong")
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("Login() error = %v, want 401", err)
	}
	if err.Error() != "Invalid email or password" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestWithSession_Restores(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL, WithSession("token-42"))

	id, err := c.CheckSession(context.Background())
	if err != nil || id == nil || id.ID != 42 {
		t.Errorf("CheckSession() = %+v, %v", id, err)
	}
}

func TestUploadAvatar(t *testing.T) {
	srv := fakeServer(t)
	ctx := context.Background()

	anon := New(srv.URL)
	if _, err := anon.UploadAvatar(ctx, "me.png", strings.NewReader("image-bytes")); !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("anonymous UploadAvatar() error = %v, want 401", err)
	}

	c := New(srv.URL, WithSession("token-42"))
	url, err := c.UploadAvatar(ctx, "/tmp/me.png", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("UploadAvatar() error = %v", err)
	}
	if url != "/uploads/avatars/a.webp" {
		t.Errorf("url = %q", url)
	}
}

func TestTimeoutIsAFailure(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	c := New(slow.URL, WithTimeout(20*time.Millisecond))
	if _, err := c.CheckSession(context.Background()); err == nil {
		t.Error("CheckSession() should fail on timeout")
	}
}

func TestCheckSession_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).CheckSession(context.Background())
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("CheckSession() error = %v, want 500", err)
	}
}
