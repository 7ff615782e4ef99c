package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/repositories"
	"github.com/desertthunder/okmusi/internal/shared"
	mocks "github.com/desertthunder/okmusi/internal/testing"
	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T, store models.Store) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return New(Options{
		Config: shared.ServerConfig{Host: "127.0.0.1", Port: 0},
		Driver: shared.DriverMemory,
		Store:  store,
		Logger: shared.NewLogger(io.Discard),
	})
}

// client replays the device cookie like a browser would.
type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, handler: s.Handler()}
}

func (c *client) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == DeviceCookie {
			c.cookies = []*http.Cookie{cookie}
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		rec := newClient(t, newTestServer(t, repositories.NewMemoryStore())).do(http.MethodGet, "/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decode[map[string]any](t, rec)
		if body["status"] != "ok" {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("storage down", func(t *testing.T) {
		store := &mocks.MockStore{GetErr: errors.New("connection refused")}
		rec := newClient(t, newTestServer(t, store)).do(http.MethodGet, "/health", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, repositories.NewMemoryStore())
	c := newClient(t, s)

	rec := c.do(http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["redirect"] != "/auth/login" {
		t.Errorf("expected redirect to /auth/login, got %v", body)
	}

	rec = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "jane@example.com", "password": "pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d: %s", rec.Code, rec.Body.String())
	}
	login := decode[models.AuthResponse](t, rec)
	if login.User.Name != "jane" || login.Redirect != "/dashboard" {
		t.Errorf("unexpected login response %+v", login)
	}
	if !strings.HasPrefix(login.User.ID, "user_") {
		t.Errorf("unexpected id %q", login.User.ID)
	}

	rec = c.do(http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d", rec.Code)
	}

	rec = c.do(http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from dashboard, got %d", rec.Code)
	}
	dash := decode[models.Dashboard](t, rec)
	if dash.User.Email != "jane@example.com" || len(dash.RecentlyPlayed) != 4 || len(dash.Playlists) != 3 {
		t.Errorf("unexpected dashboard %+v", dash)
	}

	rec = c.do(http.MethodPost, "/api/auth/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["redirect"] != "/" {
		t.Errorf("expected redirect to /, got %v", body)
	}

	if rec = c.do(http.MethodGet, "/api/dashboard", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		store   models.Store
		body    any
		status  int
		message string
	}{
		{name: "empty fields", store: repositories.NewMemoryStore(), body: map[string]string{"email": "", "password": "x"}, status: http.StatusBadRequest, message: "Please fill in all fields"},
		{name: "storage failure", store: &mocks.MockStore{SetErr: errors.New("boom")}, body: map[string]string{"email": "a@b", "password": "x"}, status: http.StatusInternalServerError, message: "Login failed. Please try again."},
		{name: "malformed body", store: repositories.NewMemoryStore(), body: []int{1}, status: http.StatusBadRequest, message: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newClient(t, newTestServer(t, tt.store)).do(http.MethodPost, "/api/auth/login", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if body := decode[map[string]string](t, rec); body["error"] != tt.message {
				t.Errorf("expected %q, got %q", tt.message, body["error"])
			}
		})
	}
}

func TestSignup(t *testing.T) {
	valid := map[string]any{
		"name":            "Jane Doe",
		"email":           "jane@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"agreeToTerms":    true,
	}

	t.Run("created", func(t *testing.T) {
		c := newClient(t, newTestServer(t, repositories.NewMemoryStore()))
		rec := c.do(http.MethodPost, "/api/auth/signup", valid)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decode[models.AuthResponse](t, rec)
		if resp.User.Name != "Jane Doe" || resp.User.CreatedAt == nil {
			t.Errorf("unexpected user %+v", resp.User)
		}

		if rec = c.do(http.MethodGet, "/api/dashboard", nil); rec.Code != http.StatusOK {
			t.Errorf("expected dashboard access after signup, got %d", rec.Code)
		}
	})

	t.Run("first violation wins", func(t *testing.T) {
		body := map[string]any{"name": "", "email": "", "password": "1", "confirmPassword": "2"}
		rec := newClient(t, newTestServer(t, repositories.NewMemoryStore())).do(http.MethodPost, "/api/auth/signup", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if resp := decode[map[string]string](t, rec); resp["error"] != "Name is required" {
			t.Errorf("unexpected error %q", resp["error"])
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}
		body["confirmPassword"] = "other12"
		rec := newClient(t, newTestServer(t, repositories.NewMemoryStore())).do(http.MethodPost, "/api/auth/signup", body)
		if resp := decode[map[string]string](t, rec); resp["error"] != "Passwords do not match" {
			t.Errorf("unexpected error %q", resp["error"])
		}
	})
}

func TestSessionGate(t *testing.T) {
	t.Run("html clients are redirected", func(t *testing.T) {
		c := newClient(t, newTestServer(t, repositories.NewMemoryStore()))
		rec := c.do(http.MethodGet, "/api/dashboard", nil, "Accept", "text/html,application/xhtml+xml")
		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/auth/login" {
			t.Errorf("expected Location /auth/login, got %q", loc)
		}
	})

	t.Run("unparsable record counts as signed out", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		c := newClient(t, newTestServer(t, store))
		c.do(http.MethodGet, "/api/home", nil)

		device := c.cookies[0].Value
		store.Set(context.Background(), "device:"+device+":user", "not json")

		if rec := c.do(http.MethodGet, "/api/session", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("devices are isolated", func(t *testing.T) {
		s := newTestServer(t, repositories.NewMemoryStore())
		alice, bob := newClient(t, s), newClient(t, s)

		alice.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "pw"})
		bob.do(http.MethodGet, "/api/home", nil)

		if rec := alice.do(http.MethodGet, "/api/session", nil); rec.Code != http.StatusOK {
			t.Errorf("alice should be signed in, got %d", rec.Code)
		}
		if rec := bob.do(http.MethodGet, "/api/session", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("bob should not see alice's session, got %d", rec.Code)
		}
	})
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, repositories.NewMemoryStore())

	tests := []struct {
		name   string
		path   string
		state  string
		total  int
		genres int
	}{
		{name: "results", path: "/api/search?q=pop", state: "results", total: 14},
		{name: "case insensitive", path: "/api/search?q=WEEKND", state: "results", total: 3},
		{name: "empty", path: "/api/search?q=zzz", state: "empty", total: 0},
		{name: "idle", path: "/api/search", state: "idle", total: 0, genres: 10},
		{name: "whitespace idle", path: "/api/search?q=%20%20", state: "idle", total: 0, genres: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newClient(t, s).do(http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			resp := decode[models.SearchResponse](t, rec)
			if resp.State != tt.state || resp.Total != tt.total || len(resp.Genres) != tt.genres {
				t.Errorf("unexpected response state=%s total=%d genres=%d", resp.State, resp.Total, len(resp.Genres))
			}
			if resp.Songs == nil || resp.Artists == nil || resp.Albums == nil {
				t.Error("result lists should never be null")
			}
			if resp.User != nil {
				t.Error("anonymous search should not carry a user")
			}
		})
	}

	t.Run("signed in search carries user", func(t *testing.T) {
		c := newClient(t, s)
		c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "jane@example.com", "password": "pw"})
		resp := decode[models.SearchResponse](t, c.do(http.MethodGet, "/api/search?q=dua", nil))
		if resp.User == nil || resp.User.Name != "jane" {
			t.Errorf("expected user jane, got %+v", resp.User)
		}
	})
}

func TestPlayer(t *testing.T) {
	rec := newClient(t, newTestServer(t, repositories.NewMemoryStore())).
		do(http.MethodGet, "/api/player?track=8&title=Peaches&artist=Justin+Bieber+ft.+Daniel+Caesar", nil)
	np := decode[models.NowPlaying](t, rec)
	if np.Track != "8" || np.Title != "Peaches" || np.Artist != "Justin Bieber ft. Daniel Caesar" {
		t.Errorf("unexpected now playing %+v", np)
	}
}

func TestRun(t *testing.T) {
	s := newTestServer(t, repositories.NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)

	go func() { done <- s.Run(ctx, ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
