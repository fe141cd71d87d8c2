package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	tu "github.com/desertthunder/albumctl/internal/testing"
)

// jsonServer answers every request with body and records the last decoded request.
func jsonServer(t *testing.T, status int, body string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			data, _ := io.ReadAll(r.Body)
			m := map[string]any{}
			if err := json.Unmarshal(data, &m); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
			m["_path"] = r.URL.Path
			m["_cookie"] = r.Header.Get("Cookie")
			m["_content_type"] = r.Header.Get("Content-Type")
			*got = m
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(url string) *services.Client {
	return services.NewClient(services.ClientOpts{BaseURL: url, CookieName: "session", SessionCookie: "abc123"})
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewClient", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			c := services.NewClient(services.ClientOpts{})
			if c.BaseURL() != "http://127.0.0.1:5000" {
				t.Errorf("expected default base URL, got %s", c.BaseURL())
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := services.NewClient(services.ClientOpts{BaseURL: "http://example.com/"})
			if c.BaseURL() != "http://example.com" {
				t.Errorf("expected trimmed base URL, got %s", c.BaseURL())
			}
		})
	})

	t.Run("RemoveAlbum", func(t *testing.T) {
		t.Run("Sends Album ID and Session Cookie", func(t *testing.T) {
			var got map[string]any
			srv := jsonServer(t, http.StatusOK, `{"success": true}`, &got)

			err := newClient(srv.URL).RemoveAlbum(ctx, services.RemoveAlbumRequest{CollectionID: "c1", AlbumID: "a2"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got["_path"] != services.PathRemoveAlbum {
				t.Errorf("expected path %s, got %v", services.PathRemoveAlbum, got["_path"])
			}
			if got["collection_id"] != "c1" || got["album_id"] != "a2" {
				t.Errorf("unexpected body: %v", got)
			}
			if got["_cookie"] != "session=abc123" {
				t.Errorf("expected session cookie, got %v", got["_cookie"])
			}
			if got["_content_type"] != "application/json" {
				t.Errorf("expected JSON content type, got %v", got["_content_type"])
			}
		})

		t.Run("Exception Is Returned Verbatim", func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, `{"success": false, "exception": "Album is not in this collection."}`, nil)

			err := newClient(srv.URL).RemoveAlbum(ctx, services.RemoveAlbumRequest{CollectionID: "c1", AlbumID: "zz"})
			var apiErr *services.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message != "Album is not in this collection." {
				t.Errorf("unexpected message %q", apiErr.Message)
			}
			if !errors.Is(err, shared.ErrApplication) {
				t.Error("expected error to wrap ErrApplication")
			}
		})

		t.Run("Falsy Success Without Exception", func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, `{"success": false}`, nil)

			err := newClient(srv.URL).RemoveAlbum(ctx, services.RemoveAlbumRequest{CollectionID: "c1", AlbumID: "a1"})
			if !errors.Is(err, shared.ErrApplication) {
				t.Errorf("expected ErrApplication, got %v", err)
			}
		})
	})

	t.Run("ReorderCollection", func(t *testing.T) {
		t.Run("Null Next Album At End", func(t *testing.T) {
			var got map[string]any
			srv := jsonServer(t, http.StatusOK, `{"success": true}`, &got)

			req := services.ReorderRequest{CollectionID: "c1", MovedAlbumID: "a1"}
			if err := newClient(srv.URL).ReorderCollection(ctx, req); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			v, ok := got["next_album_id"]
			if !ok {
				t.Fatal("expected next_album_id key to be present")
			}
			if v != nil {
				t.Errorf("expected null next_album_id, got %v", v)
			}
		})

		t.Run("Next Album Set", func(t *testing.T) {
			var got map[string]any
			srv := jsonServer(t, http.StatusOK, `{"success": true}`, &got)

			next := "a4"
			req := services.ReorderRequest{CollectionID: "c1", MovedAlbumID: "a1", NextAlbumID: &next}
			if err := newClient(srv.URL).ReorderCollection(ctx, req); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got["next_album_id"] != "a4" || got["moved_album_id"] != "a1" {
				t.Errorf("unexpected body: %v", got)
			}
		})
	})

	t.Run("AddAlbum", func(t *testing.T) {
		var got map[string]any
		srv := jsonServer(t, http.StatusOK, `{"success": true}`, &got)

		err := newClient(srv.URL).AddAlbum(ctx, services.AddAlbumRequest{DestCollectionID: "c2", AlbumID: "a1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got["dest_collection_id"] != "c2" || got["album_id"] != "a1" {
			t.Errorf("unexpected body: %v", got)
		}
	})

	t.Run("Devices", func(t *testing.T) {
		t.Run("Sorted By Name", func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, `{"devices": {"Phone": "d2", "Kitchen": "d1", "Laptop": "d3"}}`, nil)

			devices, err := newClient(srv.URL).Devices(ctx)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			want := []string{"Kitchen", "Laptop", "Phone"}
			if len(devices) != len(want) {
				t.Fatalf("expected %d devices, got %d", len(want), len(devices))
			}
			for i, name := range want {
				if devices[i].Name != name {
					t.Errorf("device %d: expected %s, got %s", i, name, devices[i].Name)
				}
			}
			if devices[0].ID != "d1" {
				t.Errorf("expected Kitchen to map to d1, got %s", devices[0].ID)
			}
		})

		t.Run("Exception", func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, `{"exception": "Spotify is not reachable."}`, nil)

			_, err := newClient(srv.URL).Devices(ctx)
			if services.UserMessage(err) != "Spotify is not reachable." {
				t.Errorf("unexpected message %q", services.UserMessage(err))
			}
		})
	})

	t.Run("PlayCollection", func(t *testing.T) {
		t.Run("Omits Optional Fields", func(t *testing.T) {
			var got map[string]any
			srv := jsonServer(t, http.StatusOK, `{}`, &got)

			err := newClient(srv.URL).PlayCollection(ctx, services.PlayRequest{CollectionID: "c1", DeviceID: "d1"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := got["start_album_id"]; ok {
				t.Error("expected start_album_id to be omitted")
			}
			if _, ok := got["shuffle"]; ok {
				t.Error("expected shuffle to be omitted")
			}
		})

		t.Run("Played False", func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, `{"played": false}`, nil)

			err := newClient(srv.URL).PlayCollection(ctx, services.PlayRequest{CollectionID: "c1", DeviceID: "d1", Shuffle: true})
			if !errors.Is(err, shared.ErrApplication) {
				t.Errorf("expected ErrApplication, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("Caps Results", func(t *testing.T) {
			var rows []string
			for range 25 {
				rows = append(rows, `{"music_name": "x", "music_img_url": "i", "music_link": "l"}`)
			}
			srv := jsonServer(t, http.StatusOK, `{"music_results": [`+strings.Join(rows, ",")+`]}`, nil)

			resp, err := newClient(srv.URL).Search(ctx, services.SearchRequest{Text: "x", MediaType: "album"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(resp.Results) != 20 {
				t.Errorf("expected 20 results, got %d", len(resp.Results))
			}
		})

		t.Run("Invalid Link", func(t *testing.T) {
			var got map[string]any
			srv := jsonServer(t, http.StatusOK, `{"invalid_link": true, "music_results": []}`, &got)

			resp, err := newClient(srv.URL).Search(ctx, services.SearchRequest{Text: "https://nope", MediaType: "track"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.InvalidLink {
				t.Error("expected invalid link")
			}
			if got["search_text"] != "https://nope" || got["music_type"] != "track" {
				t.Errorf("unexpected body: %v", got)
			}
		})
	})

	t.Run("Transport Failures", func(t *testing.T) {
		t.Run("Non-2xx Status", func(t *testing.T) {
			srv := jsonServer(t, http.StatusInternalServerError, `oops`, nil)

			err := newClient(srv.URL).AddAlbum(ctx, services.AddAlbumRequest{DestCollectionID: "c1", AlbumID: "a1"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
			if services.UserMessage(err) != shared.GenericFailureMessage {
				t.Errorf("expected generic message, got %q", services.UserMessage(err))
			}
		})

		t.Run("Undecodable Body", func(t *testing.T) {
			srv := jsonServer(t, http.StatusOK, `<html>`, nil)

			err := newClient(srv.URL).RemoveAlbum(ctx, services.RemoveAlbumRequest{CollectionID: "c1", AlbumID: "a1"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Network Error", func(t *testing.T) {
			httpClient := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			c := services.NewClient(services.ClientOpts{BaseURL: "http://example.com", HTTPClient: httpClient})

			_, err := c.Devices(ctx)
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
			c := services.NewClient(services.ClientOpts{BaseURL: "http://example.com", HTTPClient: httpClient})

			_, err := c.Search(ctx, services.SearchRequest{Text: "x", MediaType: "album"})
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})
	})

	t.Run("Collections", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			io.WriteString(w, `<ul><li data-collection_id="c1" data-collection_name="Road Trip"></li>`+
				`<li data-collection_id="c2" data-collection_name="Sunday"></li></ul>`)
		}))
		defer srv.Close()

		got, err := newClient(srv.URL).Collections(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 || got[1].Name != "Sunday" {
			t.Errorf("unexpected collections: %+v", got)
		}
	})

	t.Run("Collection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/collection/c1" {
				http.NotFound(w, r)
				return
			}
			io.WriteString(w, `<h1 data-collection_name="Road Trip">Road Trip</h1>`+
				`<div data-album_id="a1" data-album_name="Blue" data-album_complete="True"></div>`)
		}))
		defer srv.Close()

		t.Run("Found", func(t *testing.T) {
			got, err := newClient(srv.URL).Collection(ctx, "c1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.ID != "c1" || got.Name != "Road Trip" || len(got.Albums) != 1 {
				t.Errorf("unexpected collection: %+v", got)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			_, err := newClient(srv.URL).Collection(ctx, "missing")
			if !errors.Is(err, shared.ErrCollectionNotFound) {
				t.Errorf("expected ErrCollectionNotFound, got %v", err)
			}
		})

		t.Run("Missing ID", func(t *testing.T) {
			_, err := newClient(srv.URL).Collection(ctx, "")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}
