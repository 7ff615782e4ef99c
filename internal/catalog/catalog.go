// Package catalog serves the fixed mock catalog: substring search, dashboard and landing data,
// and the URLs that hand a query or a track to another view.
package catalog

import (
	"net/url"
	"slices"
	"strings"

	"github.com/desertthunder/okmusi/internal/models"
)

// Catalog is an immutable set of songs, artists, and albums.
type Catalog struct {
	songs   []models.Song
	artists []models.Artist
	albums  []models.Album
}

// New creates a [Catalog] over the given records.
func New(songs []models.Song, artists []models.Artist, albums []models.Album) *Catalog {
	return &Catalog{
		songs:   slices.Clone(songs),
		artists: slices.Clone(artists),
		albums:  slices.Clone(albums),
	}
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	return New(defaultSongs, defaultArtists, defaultAlbums)
}

func (c *Catalog) Songs() []models.Song     { return slices.Clone(c.songs) }
func (c *Catalog) Artists() []models.Artist { return slices.Clone(c.artists) }
func (c *Catalog) Albums() []models.Album   { return slices.Clone(c.albums) }

// Song looks up a song by id.
func (c *Catalog) Song(id string) (models.Song, bool) {
	for _, s := range c.songs {
		if s.ID == id {
			return s, true
		}
	}
	return models.Song{}, false
}

// Search returns every record with a text field containing query, ignoring case.
//
// Songs match on title, artist, album, or genre; artists on name or genre; albums on title, artist, or genre.
// The query is not trimmed; callers decide whether a blank query should search at all.
func (c *Catalog) Search(query string) models.SearchResults {
	q := strings.ToLower(query)
	results := models.SearchResults{
		Songs:   []models.Song{},
		Artists: []models.Artist{},
		Albums:  []models.Album{},
	}

	for _, s := range c.songs {
		if matches(q, s.Title, s.Artist, s.Album, s.Genre) {
			results.Songs = append(results.Songs, s)
		}
	}
	for _, a := range c.artists {
		if matches(q, a.Name, a.Genre) {
			results.Artists = append(results.Artists, a)
		}
	}
	for _, a := range c.albums {
		if matches(q, a.Title, a.Artist, a.Genre) {
			results.Albums = append(results.Albums, a)
		}
	}
	return results
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// PopularGenres is shown instead of results when the query is blank.
func PopularGenres() []string {
	return slices.Clone(popularGenres)
}

// Dashboard assembles the signed-in view for user.
func (c *Catalog) Dashboard(user models.Session) models.Dashboard {
	recent, recommended := c.songs, []models.Song(nil)
	if len(c.songs) > 4 {
		recent, recommended = c.songs[:4], c.songs[4:]
	}
	return models.Dashboard{
		User:           user,
		RecentlyPlayed: withoutYear(recent),
		Recommended:    withoutYear(recommended),
		Playlists:      slices.Clone(defaultPlaylists),
	}
}

func withoutYear(songs []models.Song) []models.Song {
	out := make([]models.Song, len(songs))
	for i, s := range songs {
		s.Year = 0
		out[i] = s
	}
	return out
}

// Home returns the public landing data.
func Home() models.Home {
	return models.Home{
		FeaturedGenres:    slices.Clone(featuredGenres),
		FeaturedPlaylists: slices.Clone(featuredPlaylists),
	}
}

// SearchPath builds the search hand-off URL. Blank queries return "" since no navigation happens.
func SearchPath(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	return "/search?" + url.Values{"q": {query}}.Encode()
}

// PlayerPath builds the player hand-off URL for song.
func PlayerPath(song models.Song) string {
	return "/player?track=" + url.QueryEscape(song.ID) +
		"&title=" + url.QueryEscape(song.Title) +
		"&artist=" + url.QueryEscape(song.Artist)
}

// ParseNowPlaying reads the player hand-off query. Values are taken as-is.
func ParseNowPlaying(query url.Values) models.NowPlaying {
	return models.NowPlaying{
		Track:  query.Get("track"),
		Title:  query.Get("title"),
		Artist: query.Get("artist"),
	}
}
