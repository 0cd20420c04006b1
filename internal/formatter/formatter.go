// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/goccy/go-yaml"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML}

// ParseFormat resolves a format name or common file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, name)
	}
}

// Export encodes movies in the given format.
func Export(movies []models.Movie, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(movies)
	case FormatMarkdown:
		return ExportToMarkdown(movies)
	case FormatText:
		return ExportToText(movies)
	case FormatJSON:
		return shared.MarshalJSON(movies, true)
	case FormatYAML:
		return ExportToYAML(movies)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes one line per movie in batch import order: title, release date, phase, director, running time, rating.
//
// There is no header row so the output can be fed back into an import. Titles containing commas are
// quoted and will not re-import.
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, m := range movies {
		record := []string{
			m.Title,
			m.ReleaseDate,
			strconv.Itoa(m.Phase),
			m.Director,
			strconv.Itoa(m.RunningTime),
			FormatRating(m.Rating),
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

// ExportToMarkdown renders the catalog as a Markdown table
func ExportToMarkdown(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Movie Catalog\n\n")
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(movies)))

	if len(movies) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| Title | Released | Phase | Director | Runtime | Rating |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for _, m := range movies {
		buf.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %s | %.1f |\n",
			escapeCell(m.Title), m.ReleaseDate, m.Phase, escapeCell(m.Director), FormatRuntime(m.RunningTime), m.Rating))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the catalog to a numbered plain text list
func ExportToText(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(movies)))
	for i, m := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) - %s\n", i+1, m.Title, year(m.ReleaseDate), m.Director))
	}

	return buf.Bytes(), nil
}

// ExportToYAML encodes the catalog as a YAML sequence
func ExportToYAML(movies []models.Movie) ([]byte, error) {
	data, err := yaml.Marshal(movies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}

// WriteExport encodes movies and writes them to path.
func WriteExport(movies []models.Movie, format Format, path string) error {
	data, err := Export(movies, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// FormatMovie renders a two-line record card for terminal output
func FormatMovie(m models.Movie) string {
	return fmt.Sprintf(
		"| Title: %-30s | Phase: %-2d | Rating: %.1f\n| Director: %-26s | Released: %-10s | Runtime: %-3d min",
		m.Title, m.Phase, m.Rating, m.Director, m.ReleaseDate, m.RunningTime,
	)
}

// FormatStats renders a phase average, or a notice when the phase has no movies
func FormatStats(s models.CategoryStats) string {
	if s.Empty() {
		return fmt.Sprintf("No movies found in Phase %d.", s.Phase)
	}
	return fmt.Sprintf("Average IMDb rating for Phase %d: %.2f (%d movies)", s.Phase, s.Average, s.Count)
}

// FormatRating renders a rating with the fewest digits that parse back to the same value
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// FormatRuntime renders minutes as "2h 6m"
func FormatRuntime(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

func year(date string) string {
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
