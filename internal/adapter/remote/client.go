// Package remote implements domain.RemoteAPI over the media service's HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/mediabox/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "mediabox/1.0"

	// defaultMaxBody caps how much of a response is read.
	defaultMaxBody = 8 << 20
)

var _ domain.RemoteAPI = (*Client)(nil)

// Client talks to the media service using HTTP basic auth.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	maxBody    int64

	mu    sync.RWMutex
	creds domain.Credentials
}

// NewClient creates a client for the service at baseURL. A zero timeout
// falls back to 30 seconds.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		maxBody: defaultMaxBody,
	}
}

// SetCredentials replaces the basic-auth pair sent with every request
func (c *Client) SetCredentials(creds domain.Credentials) {
	c.mu.Lock()
	c.creds = creds
	c.mu.Unlock()
}

func (c *Client) credentials() domain.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// QueryAlbums fetches one page of albums
func (c *Client) QueryAlbums(ctx context.Context, q domain.Query) (domain.Page[domain.Album], error) {
	var resp albumQueryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/album/query", queryValues(q), nil, &resp); err != nil {
		return domain.Page[domain.Album]{}, err
	}
	return domain.Page[domain.Album]{Items: resp.Albums, MoreAvailable: !resp.NoMoreAlbum}, nil
}

// QueryMedia fetches one page of media items
func (c *Client) QueryMedia(ctx context.Context, q domain.Query) (domain.Page[domain.MediaItem], error) {
	var resp mediaQueryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/media/query", queryValues(q), nil, &resp); err != nil {
		return domain.Page[domain.MediaItem]{}, err
	}
	return domain.Page[domain.MediaItem]{Items: resp.Media, MoreAvailable: !resp.NoMoreMedia}, nil
}

// CreateAlbum creates an album and returns it as stored by the service
func (c *Client) CreateAlbum(ctx context.Context, name string) (domain.Album, error) {
	var album domain.Album
	if err := c.doJSON(ctx, http.MethodPost, "/album", nil, createAlbumRequest{Name: name}, &album); err != nil {
		return domain.Album{}, err
	}
	if album.Name == "" {
		album.Name = name
	}
	return album, nil
}

// RenameAlbum renames a single album
func (c *Client) RenameAlbum(ctx context.Context, id, newName string) error {
	return c.doJSON(ctx, http.MethodPut, "/album/rename", nil, renameAlbumRequest{AlbumID: id, NewName: newName}, nil)
}

// DeleteAlbums deletes albums in one request
func (c *Client) DeleteAlbums(ctx context.Context, ids []string) error {
	return c.doJSON(ctx, http.MethodDelete, "/album", nil, deleteAlbumsRequest{AlbumIDs: ids}, nil)
}

// AddMedia asks the service to download the media at mediaURL
func (c *Client) AddMedia(ctx context.Context, mediaURL string) (domain.MediaItem, error) {
	var item domain.MediaItem
	if err := c.doJSON(ctx, http.MethodPost, "/media", nil, addMediaRequest{MediaURL: mediaURL}, &item); err != nil {
		return domain.MediaItem{}, err
	}
	if item.SourceURL == "" {
		item.SourceURL = mediaURL
	}
	return item, nil
}

// DeleteMedia deletes media items in one request
func (c *Client) DeleteMedia(ctx context.Context, ids []string) error {
	return c.doJSON(ctx, http.MethodDelete, "/media", nil, deleteMediaRequest{MediaIDs: ids}, nil)
}

// Ping checks the service is reachable and the credentials are accepted
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/ping", nil, nil, "")
	return err
}

// UploadCookies uploads a Netscape cookies file as multipart form data
func (c *Client) UploadCookies(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open cookies file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("cookies", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read cookies file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish form: %w", err)
	}

	_, err = c.doRequest(ctx, http.MethodPost, "/main/cookies", nil, &buf, w.FormDataContentType())
	return err
}

func queryValues(q domain.Query) url.Values {
	values := url.Values{}
	if q.Cursor != "" {
		values.Set("last_id", q.Cursor)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	values.Set("desc", strconv.FormatBool(q.Descending))
	if filter := strings.TrimSpace(q.Filter); filter != "" {
		values.Set("search", filter)
	}
	return values
}

// doJSON encodes payload as the request body and decodes the response into dest.
// Either may be nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, dest any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	respBody, err := c.doRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	if dest == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		c.logger.Error("failed to parse response", "error", err, "path", path, "bodyLen", len(respBody))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// doRequest performs an authenticated HTTP request and returns the body of a
// 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if creds := c.credentials(); !creds.IsZero() {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	c.logger.Debug("media service request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Error("media service request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(respBody)) > c.maxBody {
		c.logger.Error("media service response too large", "status", resp.StatusCode, "limit", c.maxBody)
		return nil, fmt.Errorf("response exceeds %d bytes", c.maxBody)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound && len(respBody) == 0:
		return nil, domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Error("media service request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, apiError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

func apiError(status int, body []byte) error {
	apiErr := &domain.APIError{Status: status}
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.text()
	}
	return apiErr
}
