// package formatter exports generated track lists to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/moodfm/internal/models"
	"github.com/desertthunder/moodfm/internal/mood"
	"github.com/desertthunder/moodfm/internal/shared"
)

// Format identifies an export output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat resolves a format name, accepting common aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidInput, name)
	}
}

// ContentType returns the MIME type for HTTP responses carrying the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	default:
		return "txt"
	}
}

// Export is a generated track list ready to be rendered for download.
type Export struct {
	Mood   mood.Label
	Title  string
	Tracks []models.Track
}

// Filename builds a download filename for the export in the given format.
func (e *Export) Filename(format Format) string {
	base := strings.TrimSpace(e.Title)
	if base == "" {
		base = string(e.Mood) + "_tracks"
	}
	base = strings.ReplaceAll(strings.ToLower(base), " ", "_")
	return base + "." + format.Extension()
}

// Render converts the export to the given format.
func (e *Export) Render(format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return e.toCSV()
	case FormatMarkdown:
		return e.toMarkdown(), nil
	case FormatText:
		return e.toText(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidInput, format)
	}
}

// toCSV renders columns: ID, Name, Artist, Album, Duration, Popularity, URL
func (e *Export) toCSV() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Album", "Duration", "Popularity", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range e.Tracks {
		record := []string{
			track.ID,
			track.Name,
			track.Artist,
			track.Album,
			formatDuration(track.DurationMS),
			strconv.Itoa(track.Popularity),
			track.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (e *Export) toMarkdown() []byte {
	var buf bytes.Buffer

	title := e.Title
	if title == "" {
		title = fmt.Sprintf("%s tracks", e.Mood)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Mood**: %s\n", e.Mood))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(e.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range e.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Name, albumPart, formatDuration(track.DurationMS)))
	}

	return buf.Bytes()
}

func (e *Export) toText() []byte {
	var buf bytes.Buffer

	title := e.Title
	if title == "" {
		title = fmt.Sprintf("%s tracks", e.Mood)
	}
	buf.WriteString(fmt.Sprintf("Playlist: %s\n", title))
	buf.WriteString(fmt.Sprintf("Mood: %s\n", e.Mood))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(e.Tracks)))

	for i, track := range e.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Name))
	}

	return buf.Bytes()
}

// formatDuration renders milliseconds as m:ss.
func formatDuration(ms int) string {
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
