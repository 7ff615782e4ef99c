// package formatter renders search results and dashboards as plain text, Markdown, CSV, or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/shared"
)

// Format is an output format name.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias ("md", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (expected text, markdown, csv, or json)", shared.ErrInvalidFlag, s)
}

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	}
	return ".txt"
}

var csvHeaders = []string{"Kind", "ID", "Title", "Artist", "Album", "Genre", "Year", "Detail"}

// SearchToCSV converts search results to CSV, one row per record, with the record kind in the first column
func SearchToCSV(results models.SearchResults) ([]byte, error) {
	var rows [][]string
	for _, s := range results.Songs {
		rows = append(rows, songRow("song", s))
	}
	for _, a := range results.Artists {
		rows = append(rows, []string{"artist", a.ID, a.Name, "", "", a.Genre, "", a.Followers + " followers"})
	}
	for _, a := range results.Albums {
		rows = append(rows, []string{"album", a.ID, a.Title, a.Artist, "", a.Genre, strconv.Itoa(a.Year), fmt.Sprintf("%d tracks", a.TrackCount)})
	}
	return writeCSV(rows)
}

// DashboardToCSV converts the dashboard song lists and playlists to CSV
func DashboardToCSV(d models.Dashboard) ([]byte, error) {
	var rows [][]string
	for _, s := range d.RecentlyPlayed {
		rows = append(rows, songRow("recent", s))
	}
	for _, s := range d.Recommended {
		rows = append(rows, songRow("recommended", s))
	}
	for _, p := range d.Playlists {
		rows = append(rows, []string{"playlist", p.ID, p.Name, "", "", "", "", fmt.Sprintf("%d songs", p.SongCount)})
	}
	return writeCSV(rows)
}

func songRow(kind string, s models.Song) []string {
	year := ""
	if s.Year != 0 {
		year = strconv.Itoa(s.Year)
	}
	return []string{kind, s.ID, s.Title, s.Artist, s.Album, s.Genre, year, s.Duration}
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// SearchToMarkdown renders a search as Markdown sections per record kind
func SearchToMarkdown(resp models.SearchResponse) []byte {
	var buf bytes.Buffer

	if resp.State == "idle" {
		buf.WriteString("# Browse\n\n## Popular Genres\n\n")
		for _, g := range resp.Genres {
			fmt.Fprintf(&buf, "- %s\n", g)
		}
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "# Search results for \"%s\"\n\n", resp.Query)
	if resp.Total == 0 {
		buf.WriteString("No results found. Try searching for something else.\n")
		return buf.Bytes()
	}
	fmt.Fprintf(&buf, "**Matches**: %d\n\n", resp.Total)

	if len(resp.Songs) > 0 {
		fmt.Fprintf(&buf, "## Songs (%d)\n\n", len(resp.Songs))
		for i, s := range resp.Songs {
			fmt.Fprintf(&buf, "%d. %s - %s (%s) [%s]\n", i+1, s.Artist, s.Title, s.Album, s.Duration)
		}
		buf.WriteString("\n")
	}
	if len(resp.Artists) > 0 {
		fmt.Fprintf(&buf, "## Artists (%d)\n\n", len(resp.Artists))
		for _, a := range resp.Artists {
			fmt.Fprintf(&buf, "- **%s** (%s), %s followers, top song: %s\n", a.Name, a.Genre, a.Followers, a.TopSong)
		}
		buf.WriteString("\n")
	}
	if len(resp.Albums) > 0 {
		fmt.Fprintf(&buf, "## Albums (%d)\n\n", len(resp.Albums))
		for _, a := range resp.Albums {
			fmt.Fprintf(&buf, "- **%s** by %s (%d, %d tracks)\n", a.Title, a.Artist, a.Year, a.TrackCount)
		}
	}
	return buf.Bytes()
}

// SearchToText renders a search as plain text
func SearchToText(resp models.SearchResponse) []byte {
	var buf bytes.Buffer

	if resp.State == "idle" {
		fmt.Fprintf(&buf, "Popular genres: %s\n", strings.Join(resp.Genres, ", "))
		return buf.Bytes()
	}
	if resp.Total == 0 {
		fmt.Fprintf(&buf, "No results found for %q\n", resp.Query)
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "Results for %q: %d\n", resp.Query, resp.Total)
	if len(resp.Songs) > 0 {
		fmt.Fprintf(&buf, "\nSongs (%d)\n", len(resp.Songs))
		for _, s := range resp.Songs {
			fmt.Fprintf(&buf, "  [%s] %s - %s  %s\n", s.ID, s.Artist, s.Title, s.Duration)
		}
	}
	if len(resp.Artists) > 0 {
		fmt.Fprintf(&buf, "\nArtists (%d)\n", len(resp.Artists))
		for _, a := range resp.Artists {
			fmt.Fprintf(&buf, "  %s (%s, %s followers)\n", a.Name, a.Genre, a.Followers)
		}
	}
	if len(resp.Albums) > 0 {
		fmt.Fprintf(&buf, "\nAlbums (%d)\n", len(resp.Albums))
		for _, a := range resp.Albums {
			fmt.Fprintf(&buf, "  %s - %s (%d)\n", a.Artist, a.Title, a.Year)
		}
	}
	return buf.Bytes()
}

// DashboardToMarkdown renders the signed-in view as Markdown
func DashboardToMarkdown(d models.Dashboard) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Welcome back, %s!\n\n", d.User.Name)
	writeSongSection(&buf, "## Recently Played", d.RecentlyPlayed, true)
	writeSongSection(&buf, "## Recommended for You", d.Recommended, true)

	buf.WriteString("## Your Playlists\n\n")
	for _, p := range d.Playlists {
		fmt.Fprintf(&buf, "- **%s** (%d songs): %s\n", p.Name, p.SongCount, p.Description)
	}
	return buf.Bytes()
}

// DashboardToText renders the signed-in view as plain text
func DashboardToText(d models.Dashboard) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Welcome back, %s! (%s)\n", d.User.Name, d.User.Email)
	writeSongSection(&buf, "Recently Played", d.RecentlyPlayed, false)
	writeSongSection(&buf, "Recommended for You", d.Recommended, false)

	buf.WriteString("Your Playlists\n")
	for _, p := range d.Playlists {
		fmt.Fprintf(&buf, "  %s (%d songs) - %s\n", p.Name, p.SongCount, p.Description)
	}
	return buf.Bytes()
}

func writeSongSection(buf *bytes.Buffer, title string, songs []models.Song, markdown bool) {
	if markdown {
		fmt.Fprintf(buf, "%s\n\n", title)
		for i, s := range songs {
			fmt.Fprintf(buf, "%d. %s - %s [%s]\n", i+1, s.Artist, s.Title, s.Duration)
		}
	} else {
		fmt.Fprintf(buf, "\n%s\n", title)
		for _, s := range songs {
			fmt.Fprintf(buf, "  [%s] %s - %s  %s\n", s.ID, s.Artist, s.Title, s.Duration)
		}
	}
	buf.WriteString("\n")
}

// HomeToText renders the landing data as plain text
func HomeToText(h models.Home) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Featured genres: %s\n\nFeatured playlists\n", strings.Join(h.FeaturedGenres, ", "))
	for _, p := range h.FeaturedPlaylists {
		fmt.Fprintf(&buf, "  %s (%d songs) - %s\n", p.Title, p.SongCount, p.Description)
	}
	return buf.Bytes()
}

// RenderSearch renders resp in format f
func RenderSearch(resp models.SearchResponse, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return SearchToMarkdown(resp), nil
	case FormatCSV:
		return SearchToCSV(models.SearchResults{Songs: resp.Songs, Artists: resp.Artists, Albums: resp.Albums})
	case FormatJSON:
		return shared.MarshalJSON(resp, true)
	}
	return SearchToText(resp), nil
}

// RenderDashboard renders d in format f
func RenderDashboard(d models.Dashboard, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return DashboardToMarkdown(d), nil
	case FormatCSV:
		return DashboardToCSV(d)
	case FormatJSON:
		return shared.MarshalJSON(d, true)
	}
	return DashboardToText(d), nil
}

// WriteExport writes data to path, creating parent directories. An empty extension gets f's default.
func WriteExport(path string, data []byte, f Format) (string, error) {
	if filepath.Ext(path) == "" {
		path += f.Extension()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
