package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/okmusi/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = artistItem{}
	_ list.Item = albumItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return "♪ " + i.song.Title }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • %s • %s", i.song.Artist, i.song.Album, i.song.Duration)
}

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	return fmt.Sprintf("Artist • %s • %s followers", i.artist.Genre, i.artist.Followers)
}

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	return fmt.Sprintf("%s • %d • %d tracks", i.album.Artist, i.album.Year, i.album.TrackCount)
}

// resultItems flattens search results into list items: songs, then artists, then albums.
func resultItems(r models.SearchResults) []list.Item {
	items := make([]list.Item, 0, r.Total())
	for _, s := range r.Songs {
		items = append(items, songItem{song: s})
	}
	for _, a := range r.Artists {
		items = append(items, artistItem{artist: a})
	}
	for _, a := range r.Albums {
		items = append(items, albumItem{album: a})
	}
	return items
}
