package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	th "github.com/desertthunder/albumctl/internal/testing"
)

func TestExporters(t *testing.T) {
	c := th.SampleCollection()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(c)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "Position,ID,Name,Artists,Complete,Link" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 5 {
			t.Fatalf("expected 5 lines, got %d", len(lines))
		}
		if !strings.HasPrefix(lines[3], "3,a3,Court and Spark,Joni Mitchell,false,") {
			t.Errorf("unexpected row: %s", lines[3])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(c, "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Road Trip",
			"![Cover](cover.jpg)",
			"**Albums**: 4",
			"**Incomplete**: 1",
			"1. Joni Mitchell - [Blue](https://open.spotify.com/album/a1)",
			"_(incomplete)_",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(c)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Collection: Road Trip") {
			t.Error("text missing header")
		}
		if !strings.Contains(output, "3. Joni Mitchell - Court and Spark (incomplete)") {
			t.Errorf("text missing incomplete marker, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(c)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		var decoded models.Collection
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.ID != "c1" || len(decoded.Albums) != 4 {
			t.Errorf("unexpected decoded collection %+v", decoded)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"txt", FormatText},
		{"json", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("CSV To Explicit Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		result, err := WriteExport(th.SampleCollection(), FormatCSV, path, false)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if len(result.Files) != 1 || result.Files[0] != path {
			t.Errorf("unexpected files %v", result.Files)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("Markdown With Cover", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg"))
		}))
		defer srv.Close()

		c := th.SampleCollection()
		c.Albums[0].ImageURL = srv.URL + "/cover"
		dir := filepath.Join(t.TempDir(), "export")

		result, err := WriteExport(c, FormatMarkdown, dir, true)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if result.CoverImage == "" {
			t.Error("expected cover image")
		}
		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Cover](cover.jpg)") {
			t.Error("expected README to reference cover")
		}
		if th.MustReadFile(t, filepath.Join(dir, "cover.jpg")) != "jpeg" {
			t.Error("unexpected cover contents")
		}
	})

	t.Run("Markdown Cover Failure Is Skipped", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		c := th.SampleCollection()
		c.Albums[0].ImageURL = srv.URL
		dir := filepath.Join(t.TempDir(), "export")

		result, err := WriteExport(c, FormatMarkdown, dir, true)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if result.CoverImage != "" || len(result.Files) != 1 {
			t.Errorf("expected README only, got %+v", result)
		}
	})

	t.Run("Default Paths", func(t *testing.T) {
		c := th.SampleCollection()
		if DefaultPath(c, FormatCSV) != "c1_albums.csv" || DefaultPath(c, FormatMarkdown) != "c1" {
			t.Error("unexpected default paths")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	if _, err := DownloadImage(""); err == nil {
		t.Error("expected error for empty URL")
	}
}
