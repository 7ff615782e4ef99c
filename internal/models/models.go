// package models defines the data model for the OKmusi demo service
package models

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by a [Store] when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// DeviceCookie carries the id of a client's storage namespace in the HTTP API.
const DeviceCookie = "okmusi_device"

// Store is a string key-value store, the equivalent of browser local storage.
//
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error) // Get returns the value for key or [ErrKeyNotFound]
	Set(ctx context.Context, key, value string) error    // Set creates or replaces the value for key
	Remove(ctx context.Context, key string) error        // Remove deletes key; removing a missing key is not an error
	Close() error                                        // Close releases the underlying connection
}

// Session is the persisted user record that gates protected views.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Song is a catalog track.
type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration string `json:"duration"`
	Genre    string `json:"genre"`
	Year     int    `json:"year,omitempty"`
}

// Artist is a catalog artist.
type Artist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Genre     string `json:"genre"`
	Followers string `json:"followers"`
	TopSong   string `json:"topSong"`
}

// Album is a catalog album.
type Album struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Year       int    `json:"year"`
	TrackCount int    `json:"trackCount"`
	Genre      string `json:"genre"`
}

// Playlist is a user playlist listed on the dashboard.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SongCount   int    `json:"songCount"`
	Description string `json:"description"`
}

type FeaturedPlaylist struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	SongCount   int    `json:"songCount"`
}

// SearchResults partitions a query's matches by record kind.
type SearchResults struct {
	Songs   []Song   `json:"songs"`
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
}

// Total returns the number of matches across all three lists.
func (r SearchResults) Total() int {
	return len(r.Songs) + len(r.Artists) + len(r.Albums)
}

// HasResults reports whether any list is non-empty.
func (r SearchResults) HasResults() bool {
	return r.Total() > 0
}

// Dashboard is the data shown to a signed-in user.
type Dashboard struct {
	User           Session    `json:"user"`
	RecentlyPlayed []Song     `json:"recentlyPlayed"`
	Recommended    []Song     `json:"recommended"`
	Playlists      []Playlist `json:"playlists"`
}

// Home is the public landing data.
type Home struct {
	FeaturedGenres    []string           `json:"featuredGenres"`
	FeaturedPlaylists []FeaturedPlaylist `json:"featuredPlaylists"`
}

// NowPlaying is the track handed to the player view.
type NowPlaying struct {
	Track  string `json:"track"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// SearchResponse is the API body of a search.
type SearchResponse struct {
	Query   string   `json:"query"`
	State   string   `json:"state"`
	Genres  []string `json:"genres,omitempty"`
	Songs   []Song   `json:"songs"`
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
	Total   int      `json:"total"`
	User    *Session `json:"user,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// AuthResponse is the API body of a successful login or signup.
type AuthResponse struct {
	User     *Session `json:"user"`
	Redirect string   `json:"redirect"`
}
