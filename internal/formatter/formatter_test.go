package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/shared"
)

func sampleExport() *Export {
	return &Export{
		Mood:  mood.Happy,
		Title: "Happy Mix",
		Tracks: []models.Track{
			{ID: "t1", Name: "Walking on Sunshine", Artist: "Katrina and the Waves", Album: "Katrina and the Waves", DurationMS: 238000, Popularity: 78, URL: "https://open.spotify.com/track/t1"},
			{ID: "t2", Name: "Good as Hell", Artist: "Lizzo", Album: "Cuz I Love You", DurationMS: 159000, Popularity: 82, URL: "https://open.spotify.com/track/t2"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input string
		want  Format
	}{
		{"csv", FormatCSV},
		{"CSV", FormatCSV},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"text", FormatText},
		{"txt", FormatText},
		{"", FormatText},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.input)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tc.input, got, tc.want)
		}
	}

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := ParseFormat("xlsx")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestRenderCSV(t *testing.T) {
	data, err := sampleExport().Render(FormatCSV)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Name,Artist,Album,Duration,Popularity,URL" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Walking on Sunshine") {
		t.Errorf("expected first record to contain track name, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "3:58") {
		t.Errorf("expected formatted duration in record, got %q", lines[1])
	}
}

func TestRenderMarkdown(t *testing.T) {
	data, err := sampleExport().Render(FormatMarkdown)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "# Happy Mix\n") {
		t.Errorf("expected title heading, got %q", text)
	}
	if !strings.Contains(text, "**Tracks**: 2") {
		t.Errorf("expected track count, got %q", text)
	}
	if !strings.Contains(text, "1. Katrina and the Waves - Walking on Sunshine (Katrina and the Waves) [3:58]") {
		t.Errorf("expected numbered track entry, got %q", text)
	}
}

func TestRenderText(t *testing.T) {
	data, err := sampleExport().Render(FormatText)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Playlist: Happy Mix") {
		t.Errorf("expected playlist title, got %q", text)
	}
	if !strings.Contains(text, "2. Lizzo - Good as Hell") {
		t.Errorf("expected numbered track entry, got %q", text)
	}
}

func TestFilename(t *testing.T) {
	export := sampleExport()
	if got := export.Filename(FormatCSV); got != "happy_mix.csv" {
		t.Errorf("expected happy_mix.csv, got %q", got)
	}

	export.Title = ""
	if got := export.Filename(FormatMarkdown); got != "happy_tracks.md" {
		t.Errorf("expected happy_tracks.md, got %q", got)
	}
}

func TestContentType(t *testing.T) {
	if got := FormatCSV.ContentType(); got != "text/csv; charset=utf-8" {
		t.Errorf("unexpected CSV content type %q", got)
	}
	if got := FormatText.ContentType(); got != "text/plain; charset=utf-8" {
		t.Errorf("unexpected text content type %q", got)
	}
}
