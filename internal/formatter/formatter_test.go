package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/shared"
	tu "github.com/desertthunder/okmusi/internal/testing"
)

func searchResponse(query string) models.SearchResponse {
	results := catalog.Default().Search(query)
	state := "results"
	if !results.HasResults() {
		state = "empty"
	}
	return models.SearchResponse{
		Query:   query,
		State:   state,
		Songs:   results.Songs,
		Artists: results.Artists,
		Albums:  results.Albums,
		Total:   results.Total(),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatText, true},
		{"TXT", FormatText, true},
		{"md", FormatMarkdown, true},
		{"csv", FormatCSV, true},
		{" json ", FormatJSON, true},
		{"yaml", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.ok != (err == nil) {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if !tt.ok && !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSearchToCSV(t *testing.T) {
	resp := searchResponse("weeknd")
	data, err := SearchToCSV(models.SearchResults{Songs: resp.Songs, Artists: resp.Artists, Albums: resp.Albums})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(records))
	}
	if records[1][0] != "song" || records[1][2] != "Blinding Lights" || records[1][6] != "2020" {
		t.Errorf("unexpected song row %v", records[1])
	}
	if records[2][0] != "artist" || records[2][7] != "85M followers" {
		t.Errorf("unexpected artist row %v", records[2])
	}
	if records[3][0] != "album" || records[3][7] != "14 tracks" {
		t.Errorf("unexpected album row %v", records[3])
	}
}

func TestSearchText(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		out := string(SearchToText(searchResponse("dua")))
		for _, want := range []string{`Results for "dua": 3`, "Songs (1)", "Dua Lipa - Levitating", "Albums (1)"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in:\n%s", want, out)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		out := string(SearchToText(searchResponse("zzz")))
		if !strings.Contains(out, `No results found for "zzz"`) {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("idle", func(t *testing.T) {
		out := string(SearchToText(models.SearchResponse{State: "idle", Genres: catalog.PopularGenres()}))
		if !strings.HasPrefix(out, "Popular genres: Pop, Rock") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestSearchToMarkdown(t *testing.T) {
	out := string(SearchToMarkdown(searchResponse("pop")))
	for _, want := range []string{`# Search results for "pop"`, "**Matches**: 14", "## Songs (6)", "## Artists (4)", "## Albums (4)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}

	idle := string(SearchToMarkdown(models.SearchResponse{State: "idle", Genres: []string{"Jazz"}}))
	if !strings.Contains(idle, "- Jazz") {
		t.Errorf("expected genre list, got %q", idle)
	}
}

func TestDashboard(t *testing.T) {
	d := catalog.Default().Dashboard(models.Session{Name: "jane", Email: "jane@example.com"})

	text := string(DashboardToText(d))
	if !strings.Contains(text, "Welcome back, jane!") || !strings.Contains(text, "My Favorites (25 songs)") {
		t.Errorf("unexpected text output:\n%s", text)
	}

	md := string(DashboardToMarkdown(d))
	if !strings.Contains(md, "## Recommended for You") || !strings.Contains(md, "1. The Kid LAROI & Justin Bieber - Stay [2:21]") {
		t.Errorf("unexpected markdown output:\n%s", md)
	}

	data, err := DashboardToCSV(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 12 {
		t.Errorf("expected 12 CSV lines, got %d", lines)
	}
}

func TestRender(t *testing.T) {
	resp := searchResponse("levitating")
	data, err := RenderSearch(resp, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(data, &decoded); err != nil || decoded.Total != 1 {
		t.Errorf("unexpected JSON %s (%v)", data, err)
	}

	d := catalog.Default().Dashboard(models.Session{Name: "x"})
	for _, f := range []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON} {
		if out, err := RenderDashboard(d, f); err != nil || len(out) == 0 {
			t.Errorf("RenderDashboard(%s) = %d bytes, %v", f, len(out), err)
		}
	}
}

func TestHomeToText(t *testing.T) {
	out := string(HomeToText(catalog.Home()))
	if !strings.Contains(out, "Focus Flow (60 songs)") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteExport(filepath.Join(dir, "nested", "results"), []byte("a,b\n"), FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(path) != ".csv" {
		t.Errorf("expected .csv extension, got %s", path)
	}
	tu.AssertFileExists(t, path)
	if got := tu.MustReadFile(t, path); got != "a,b\n" {
		t.Errorf("unexpected content %q", got)
	}

	kept, err := WriteExport(filepath.Join(dir, "out.txt"), []byte("x"), FormatMarkdown)
	if err != nil || filepath.Ext(kept) != ".txt" {
		t.Errorf("explicit extension should be kept, got %s, %v", kept, err)
	}
}
