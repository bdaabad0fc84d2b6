package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/mediabox/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewClient(server.URL+"/", 0, nil)
	c.SetCredentials(domain.Credentials{Username: "ann", Password: "secret"})
	return c
}

func TestClient_QueryAlbumsEncodesQuery(t *testing.T) {
	t.Parallel()

	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"albums":         []domain.Album{{ID: "a1", Name: "Trips"}},
			"no_more_albums": true,
		})
	})

	page, err := c.QueryAlbums(context.Background(), domain.Query{Cursor: "a9", Limit: 30, Descending: true, Filter: " trip "})
	if err != nil {
		t.Fatalf("QueryAlbums returned error: %v", err)
	}
	if got.URL.Path != "/album/query" {
		t.Fatalf("path = %q, want /album/query", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("last_id") != "a9" || q.Get("limit") != "30" || q.Get("desc") != "true" || q.Get("search") != "trip" {
		t.Fatalf("query = %v", q)
	}
	user, pass, ok := got.BasicAuth()
	if !ok || user != "ann" || pass != "secret" {
		t.Fatalf("basic auth = %q/%q (%v), want ann/secret", user, pass, ok)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "a1" {
		t.Fatalf("items = %+v", page.Items)
	}
	if page.MoreAvailable {
		t.Fatalf("MoreAvailable = true, want false")
	}
}

func TestClient_QueryMediaFirstPageOmitsCursor(t *testing.T) {
	t.Parallel()

	var query map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"media": []map[string]any{
				{"id": "m1", "title": "Clip", "created_at_ksuid": "k1", "media_url": "https://x/1"},
			},
			"no_more_media": false,
		})
	})

	page, err := c.QueryMedia(context.Background(), domain.Query{Limit: 30, Descending: true})
	if err != nil {
		t.Fatalf("QueryMedia returned error: %v", err)
	}
	if _, ok := query["last_id"]; ok {
		t.Fatalf("last_id sent on first page: %v", query)
	}
	if _, ok := query["search"]; ok {
		t.Fatalf("search sent without filter: %v", query)
	}
	if !page.MoreAvailable {
		t.Fatalf("MoreAvailable = false, want true")
	}
	if page.Items[0].Cursor() != "k1" || page.Items[0].SourceURL != "https://x/1" {
		t.Fatalf("item = %+v", page.Items[0])
	}
}

func TestClient_MutationsSendJSONBodies(t *testing.T) {
	t.Parallel()

	type call struct {
		method, path string
		body         map[string]any
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{r.Method, r.URL.Path, body})
		if r.Method == http.MethodPost && r.URL.Path == "/album" {
			_ = json.NewEncoder(w).Encode(domain.Album{ID: "new", Name: body["name"].(string)})
		}
	})

	ctx := context.Background()
	album, err := c.CreateAlbum(ctx, "Trips")
	if err != nil {
		t.Fatalf("CreateAlbum returned error: %v", err)
	}
	if album.ID != "new" || album.Name != "Trips" {
		t.Fatalf("album = %+v", album)
	}
	if err := c.RenameAlbum(ctx, "a1", "Holidays"); err != nil {
		t.Fatalf("RenameAlbum returned error: %v", err)
	}
	if err := c.DeleteAlbums(ctx, []string{"a1", "a2"}); err != nil {
		t.Fatalf("DeleteAlbums returned error: %v", err)
	}
	item, err := c.AddMedia(ctx, "https://x/clip")
	if err != nil {
		t.Fatalf("AddMedia returned error: %v", err)
	}
	if item.SourceURL != "https://x/clip" {
		t.Fatalf("SourceURL = %q, want https://x/clip", item.SourceURL)
	}
	if err := c.DeleteMedia(ctx, []string{"m1"}); err != nil {
		t.Fatalf("DeleteMedia returned error: %v", err)
	}

	want := []struct {
		method, path, key string
	}{
		{http.MethodPost, "/album", "name"},
		{http.MethodPut, "/album/rename", "new_name"},
		{http.MethodDelete, "/album", "album_ids"},
		{http.MethodPost, "/media", "media_url"},
		{http.MethodDelete, "/media", "media_ids"},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i].method != w.method || calls[i].path != w.path {
			t.Fatalf("call %d = %s %s, want %s %s", i, calls[i].method, calls[i].path, w.method, w.path)
		}
		if _, ok := calls[i].body[w.key]; !ok {
			t.Fatalf("call %d body = %v, missing %q", i, calls[i].body, w.key)
		}
	}
	if calls[1].body["album_id"] != "a1" {
		t.Fatalf("rename album_id = %v, want a1", calls[1].body["album_id"])
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: domain.ErrUnauthorized},
		{name: "detail", status: http.StatusConflict, body: `{"detail":"Album already exists"}`, wantMsg: "Album already exists"},
		{name: "message", status: http.StatusBadRequest, body: `{"message":"Invalid URL"}`, wantMsg: "Invalid URL"},
		{name: "bare", status: http.StatusInternalServerError, body: `oops`, wantMsg: "request failed with status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.Ping(context.Background())
			if err == nil {
				t.Fatalf("Ping returned nil error")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %T, want *domain.APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if got := domain.ErrorMessage(err); got != tt.wantMsg {
				t.Fatalf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestClient_UnreachableServerIsOffline(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewClient(url, 0, nil)
	if err := c.Ping(context.Background()); !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want %v", err, domain.ErrServerOffline)
	}
}

func TestClient_NoCredentialsSendsNoAuth(t *testing.T) {
	t.Parallel()

	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, hasAuth = r.BasicAuth()
	}))
	defer server.Close()

	c := NewClient(server.URL, 0, nil)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if hasAuth {
		t.Fatalf("basic auth sent without credentials")
	}
}

func TestClient_UploadCookies(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
		t.Fatalf("write cookies: %v", err)
	}

	var gotName, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/main/cookies" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("cookies")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName, gotBody = header.Filename, string(data)
	})

	if err := c.UploadCookies(context.Background(), path); err != nil {
		t.Fatalf("UploadCookies returned error: %v", err)
	}
	if gotName != "cookies.txt" {
		t.Fatalf("filename = %q, want cookies.txt", gotName)
	}
	if gotBody != "# Netscape HTTP Cookie File\n" {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestClient_UploadCookiesMissingFile(t *testing.T) {
	t.Parallel()

	c := NewClient("http://127.0.0.1:1", 0, nil)
	err := c.UploadCookies(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil || errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want file error", err)
	}
}

func TestClient_OversizedResponseIsRejected(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"albums": []domain.Album{{ID: "a1", Name: "Trips"}, {ID: "a2", Name: "Beach"}},
		})
	})
	c.maxBody = 16

	_, err := c.QueryAlbums(context.Background(), domain.Query{Limit: 30})
	if err == nil {
		t.Fatal("QueryAlbums with oversized body returned nil error")
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) || errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want a size error", err)
	}
}
