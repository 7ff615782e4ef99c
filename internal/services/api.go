// API service for making HTTP requests to the okmusi server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/shared"
)

// DefaultBaseURL matches the default server config.
const DefaultBaseURL = "http://127.0.0.1:3000"

// APIService provides raw and typed requests against the okmusi HTTP API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance.
//
// A nil client is replaced by one with a cookie jar.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar}
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Device returns the device id the server issued to this client, or "" when none was issued.
func (a *APIService) Device() string {
	u, err := url.Parse(a.baseURL)
	if err != nil || a.httpClient.Jar == nil {
		return ""
	}
	for _, c := range a.httpClient.Jar.Cookies(u) {
		if c.Name == models.DeviceCookie {
			return c.Value
		}
	}
	return ""
}

// UseDevice presents id as the device cookie on later requests, resuming that device's session.
func (a *APIService) UseDevice(id string) {
	u, err := url.Parse(a.baseURL)
	if err != nil || a.httpClient.Jar == nil || id == "" {
		return
	}
	a.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: models.DeviceCookie, Value: id, Path: "/"}})
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Redirect   string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", shared.ErrAPIRequest, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
}

// Is matches [shared.ErrAPIRequest], and [shared.ErrNotAuthenticated] for 401 responses.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrNotAuthenticated:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// call performs a request and decodes a 2xx JSON body into out.
func (a *APIService) call(ctx context.Context, method, path string, in, out any) error {
	var data []byte
	if in != nil {
		var err error
		if data, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := a.do(ctx, method, path, data)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error    string `json:"error"`
			Redirect string `json:"redirect"`
		}
		if json.Unmarshal(resp.Body, &body) == nil {
			apiErr.Message, apiErr.Redirect = body.Error, body.Redirect
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health reports whether the server and its storage are up.
func (a *APIService) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := a.call(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (a *APIService) Home(ctx context.Context) (*models.Home, error) {
	var out models.Home
	if err := a.call(ctx, http.MethodGet, "/api/home", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *APIService) Login(ctx context.Context, form forms.LoginForm) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := a.call(ctx, http.MethodPost, "/api/auth/login", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *APIService) Signup(ctx context.Context, form forms.SignupForm) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := a.call(ctx, http.MethodPost, "/api/auth/signup", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the session and returns the redirect target.
func (a *APIService) Logout(ctx context.Context) (string, error) {
	var out struct {
		Redirect string `json:"redirect"`
	}
	err := a.call(ctx, http.MethodPost, "/api/auth/logout", nil, &out)
	return out.Redirect, err
}

func (a *APIService) Session(ctx context.Context) (*models.Session, error) {
	var out struct {
		User *models.Session `json:"user"`
	}
	if err := a.call(ctx, http.MethodGet, "/api/session", nil, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, errors.New("empty session response")
	}
	return out.User, nil
}

func (a *APIService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var out models.Dashboard
	if err := a.call(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *APIService) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	var out models.SearchResponse
	path := "/api/search?" + url.Values{"q": {query}}.Encode()
	if err := a.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Player resolves a player hand-off path such as one built by catalog.PlayerPath.
func (a *APIService) Player(ctx context.Context, handoff string) (*models.NowPlaying, error) {
	u, err := url.Parse(handoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	var out models.NowPlaying
	if err := a.call(ctx, http.MethodGet, "/api/player?"+u.RawQuery, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
