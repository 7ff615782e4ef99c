package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/repositories"
	"github.com/desertthunder/okmusi/internal/server"
	"github.com/desertthunder/okmusi/internal/shared"
	tu "github.com/desertthunder/okmusi/internal/testing"
	"github.com/gin-gonic/gin"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)
			if srv.baseURL != DefaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", DefaultBaseURL, srv.baseURL)
			}
		})

		t.Run("With Nil Client Uses Cookie Jar", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)
			if srv.httpClient.Jar == nil {
				t.Error("expected default client to keep cookies")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("JSON Response", func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Accept") != "application/json" {
					t.Errorf("expected JSON accept header, got %q", r.Header.Get("Accept"))
				}
				w.Header().Set("X-Request-ID", "abc")
				w.Write([]byte(`{"status":"ok"}`))
			}))
			defer ts.Close()

			resp, err := NewAPIService(ts.URL, nil).Get(context.Background(), "/health")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.IsJSON || resp.JSONData.(map[string]any)["status"] != "ok" {
				t.Errorf("unexpected response %+v", resp)
			}
			if resp.Headers.Get("X-Request-ID") != "abc" {
				t.Error("expected response headers to be preserved")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text response"))
			}))
			defer ts.Close()

			resp, err := NewAPIService(ts.URL, nil).Get(context.Background(), "/")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON || string(resp.Body) != "plain text response" {
				t.Errorf("unexpected response %+v", resp)
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewAPIService("http://example.com", nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}
			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			w.Write(body)
		}))
		defer ts.Close()

		resp, err := NewAPIService(ts.URL, nil).Post(context.Background(), "/echo", []byte(`{"a":1}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated || string(resp.Body) != `{"a":1}` {
			t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
		}
	})
}

func newAPI(t *testing.T) *APIService {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := server.New(server.Options{
		Driver: shared.DriverMemory,
		Store:  repositories.NewMemoryStore(),
		Logger: shared.NewLogger(io.Discard),
	})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return NewAPIService(ts.URL, nil)
}

func TestTypedCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("session round trip", func(t *testing.T) {
		api := newAPI(t)

		if _, err := api.Session(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}

		resp, err := api.Login(ctx, forms.LoginForm{Email: "jane@example.com", Password: "pw"})
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if resp.User.Name != "jane" || resp.Redirect != "/dashboard" {
			t.Errorf("unexpected login response %+v", resp)
		}

		user, err := api.Session(ctx)
		if err != nil || user.Email != "jane@example.com" {
			t.Fatalf("expected cookie to carry session, got %+v, %v", user, err)
		}

		dash, err := api.Dashboard(ctx)
		if err != nil || len(dash.Recommended) != 4 {
			t.Errorf("unexpected dashboard %+v, %v", dash, err)
		}

		redirect, err := api.Logout(ctx)
		if err != nil || redirect != "/" {
			t.Errorf("unexpected logout %q, %v", redirect, err)
		}
		if _, err := api.Dashboard(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		_, err := newAPI(t).Signup(ctx, forms.SignupForm{Name: "Jane", Email: "jane.example.com"})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Please enter a valid email address" {
			t.Errorf("unexpected error %+v", apiErr)
		}
		if !errors.Is(err, shared.ErrAPIRequest) || errors.Is(err, shared.ErrNotAuthenticated) {
			t.Error("validation failures are API errors but not authentication errors")
		}
	})

	t.Run("search", func(t *testing.T) {
		resp, err := newAPI(t).Search(ctx, "hip hop")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if resp.State != "results" || len(resp.Songs) != 1 || resp.Songs[0].Title != "Industry Baby" {
			t.Errorf("unexpected search response %+v", resp)
		}
	})

	t.Run("player and home", func(t *testing.T) {
		api := newAPI(t)
		song, _ := catalog.Default().Song("3")

		np, err := api.Player(ctx, catalog.PlayerPath(song))
		if err != nil || np.Title != "Levitating" || np.Artist != "Dua Lipa" {
			t.Errorf("unexpected now playing %+v, %v", np, err)
		}

		home, err := api.Home(ctx)
		if err != nil || len(home.FeaturedPlaylists) != 4 {
			t.Errorf("unexpected home %+v, %v", home, err)
		}

		health, err := api.Health(ctx)
		if err != nil || health["status"] != "ok" {
			t.Errorf("unexpected health %v, %v", health, err)
		}
	})
}

func TestDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("resumes a session on another client", func(t *testing.T) {
		api := newAPI(t)
		if api.Device() != "" {
			t.Fatalf("expected no device before the first request, got %q", api.Device())
		}

		if _, err := api.Login(ctx, forms.LoginForm{Email: "jane@example.com", Password: "pw"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		device := api.Device()
		if !shared.IsUUID(device) {
			t.Fatalf("expected issued device id, got %q", device)
		}

		other := NewAPIService(api.baseURL, nil)
		if _, err := other.Session(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected fresh client to be signed out, got %v", err)
		}

		other = NewAPIService(api.baseURL, nil)
		other.UseDevice(device)
		user, err := other.Session(ctx)
		if err != nil || user.Email != "jane@example.com" {
			t.Errorf("expected resumed session, got %+v, %v", user, err)
		}
		if other.Device() != device {
			t.Errorf("expected device %q to be kept, got %q", device, other.Device())
		}
	})

	t.Run("client without cookie jar", func(t *testing.T) {
		api := NewAPIService("http://127.0.0.1:3000", &http.Client{})
		api.UseDevice("b9f5c3a0-0000-4000-8000-000000000000")
		if api.Device() != "" {
			t.Errorf("expected no device without a jar, got %q", api.Device())
		}
	})
}
