// package formatter provides functions to export collection data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// ParseFormat validates s as a [Format]; "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, markdown, text or json)", shared.ErrInvalidFlag, s)
	}
}

// Export renders c in format.
func Export(c *models.Collection, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(c)
	case FormatMarkdown:
		return ExportToMarkdown(c, "")
	case FormatText:
		return ExportToText(c)
	case FormatJSON:
		return ExportToJSON(c)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts a Collection to CSV format with columns: Position, ID, Name, Artists, Complete, Link
func ExportToCSV(c *models.Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Name", "Artists", "Complete", "Link"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, album := range c.Albums {
		record := []string{
			strconv.Itoa(i + 1),
			album.ID,
			album.Name,
			album.Artists,
			strconv.FormatBool(album.Complete),
			album.Link,
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

// ExportToMarkdown converts a Collection to Markdown format with optional cover image
func ExportToMarkdown(c *models.Collection, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", c.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Albums**: %d\n", len(c.Albums))
	if n := c.IncompleteCount(); n > 0 {
		fmt.Fprintf(&buf, "**Incomplete**: %d\n", n)
	}
	buf.WriteString("\n## Albums\n\n")

	for i, album := range c.Albums {
		title := album.Name
		if album.Link != "" {
			title = fmt.Sprintf("[%s](%s)", album.Name, album.Link)
		}
		marker := ""
		if !album.Complete {
			marker = " _(incomplete)_"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, album.Artists, title, marker)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Collection to plain text format
func ExportToText(c *models.Collection) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Collection: %s\n", c.Name)
	fmt.Fprintf(&buf, "Albums: %d\n\n", len(c.Albums))

	for i, album := range c.Albums {
		marker := ""
		if !album.Complete {
			marker = " (incomplete)"
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, album.Artists, album.Name, marker)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Collection to indented JSON
func ExportToJSON(c *models.Collection) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal collection: %w", err)
	}
	return append(data, '\n'), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// DefaultPath returns {collection.ID}_albums.{ext} for file formats and {collection.ID} for Markdown.
func DefaultPath(c *models.Collection, format Format) string {
	switch format {
	case FormatCSV:
		return c.ID + "_albums.csv"
	case FormatText:
		return c.ID + "_albums.txt"
	case FormatJSON:
		return c.ID + "_albums.json"
	default:
		return c.ID
	}
}

// ExportResult lists the files written by [WriteExport].
type ExportResult struct {
	Files      []string
	CoverImage string
}

// WriteExport writes c in format to path, or [DefaultPath] when path is empty.
//
// Markdown exports create a directory holding README.md and, when withCover is set,
// the first album's cover as cover.jpg. A cover that cannot be fetched is skipped.
func WriteExport(c *models.Collection, format Format, path string, withCover bool) (*ExportResult, error) {
	if path == "" {
		path = DefaultPath(c, format)
	}

	if format != FormatMarkdown {
		data, err := Export(c, format)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s file: %w", format, err)
		}
		return &ExportResult{Files: []string{path}}, nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &ExportResult{Files: []string{}}

	var coverImageFilename string
	if withCover && len(c.Albums) > 0 && c.Albums[0].ImageURL != "" {
		if imageData, err := DownloadImage(c.Albums[0].ImageURL); err == nil {
			coverPath := filepath.Join(path, "cover.jpg")
			if err := os.WriteFile(coverPath, imageData, 0644); err == nil {
				coverImageFilename = "cover.jpg"
				result.CoverImage = coverPath
				result.Files = append(result.Files, coverPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(c, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(path, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}
