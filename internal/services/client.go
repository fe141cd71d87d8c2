package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/shared"
	"golang.org/x/time/rate"
)

var _ Backend = (*Client)(nil)

// Client talks to the collections site on behalf of a logged-in user.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cookie     string
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL           string
	HTTPClient        *http.Client
	CookieName        string
	SessionCookie     string  // bare value, or a full "name=value; ..." cookie string
	RequestsPerSecond float64 // 0 disables client-side rate limiting
	Logger            *log.Logger
}

// NewClient creates a new [Client] with the provided options.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://127.0.0.1:5000"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		cookie:     cookieHeader(opts.CookieName, opts.SessionCookie),
		logger:     opts.Logger,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// NewClientFromConfig builds a [Client] from the [server] section of the configuration.
func NewClientFromConfig(cfg shared.ServerConfig, logger *log.Logger) *Client {
	return NewClient(ClientOpts{
		BaseURL:           cfg.BaseURL,
		HTTPClient:        &http.Client{Timeout: cfg.Timeout()},
		CookieName:        cfg.CookieName,
		SessionCookie:     cfg.SessionCookie,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
}

// BaseURL returns the site root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func cookieHeader(name, value string) string {
	switch {
	case value == "":
		return ""
	case strings.Contains(value, "="):
		return value
	case name == "":
		return "session=" + value
	default:
		return name + "=" + value
	}
}

// Collections lists the user's collections from the index page.
func (c *Client) Collections(ctx context.Context) ([]models.CollectionSummary, error) {
	body, err := c.getPage(ctx, PathIndex)
	if err != nil {
		return nil, err
	}
	return ParseIndexPage(bytes.NewReader(body))
}

// Collection loads a collection page and returns its albums in playlist order.
func (c *Client) Collection(ctx context.Context, collectionID string) (*models.Collection, error) {
	if collectionID == "" {
		return nil, fmt.Errorf("%w: collection id", shared.ErrMissingArgument)
	}

	body, err := c.getPage(ctx, PathCollection+url.PathEscape(collectionID))
	if err != nil {
		return nil, err
	}

	collection, err := ParseCollectionPage(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if collection.ID == "" {
		collection.ID = collectionID
	}
	return collection, nil
}

// RemoveAlbum removes an album, addressed by id, from a collection.
func (c *Client) RemoveAlbum(ctx context.Context, req RemoveAlbumRequest) error {
	return c.postJSON(ctx, PathRemoveAlbum, req, nil)
}

// ReorderCollection moves req.MovedAlbumID in front of req.NextAlbumID.
func (c *Client) ReorderCollection(ctx context.Context, req ReorderRequest) error {
	return c.postJSON(ctx, PathReorderCollection, req, nil)
}

// AddAlbum adds an album to req.DestCollectionID.
func (c *Client) AddAlbum(ctx context.Context, req AddAlbumRequest) error {
	return c.postJSON(ctx, PathAddAlbum, req, nil)
}

// Devices returns the available playback devices sorted by name.
func (c *Client) Devices(ctx context.Context) ([]models.Device, error) {
	var resp struct {
		Devices map[string]string `json:"devices"`
	}
	if err := c.postJSON(ctx, PathGetDevices, struct{}{}, &resp); err != nil {
		return nil, err
	}

	devices := make([]models.Device, 0, len(resp.Devices))
	for name, id := range resp.Devices {
		devices = append(devices, models.Device{ID: id, Name: name})
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })
	return devices, nil
}

// PlayCollection starts playback of a collection on a device.
func (c *Client) PlayCollection(ctx context.Context, req PlayRequest) error {
	return c.postJSON(ctx, PathPlayCollection, req, nil)
}

// Search runs a music search; at most [models.MaxSearchResults] rows are kept.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.postJSON(ctx, PathSearch, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) > models.MaxSearchResults {
		resp.Results = resp.Results[:models.MaxSearchResults]
	}
	return &resp, nil
}

// postJSON sends body as JSON to endpoint, checks the status envelope and decodes the reply into out.
func (c *Client) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", shared.ErrInvalidInput, err)
	}

	resp, err := c.Raw(ctx, http.MethodPost, endpoint, data)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("unexpected status", "endpoint", endpoint, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s returned status %d", shared.ErrTransport, endpoint, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return fmt.Errorf("%w: %s returned invalid JSON: %v", shared.ErrTransport, endpoint, err)
	}
	if err := env.err(endpoint); err != nil {
		c.logger.Info("request rejected", "endpoint", endpoint, "reason", err)
		return err
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("%w: %s returned unexpected JSON: %v", shared.ErrTransport, endpoint, err)
		}
	}
	return nil
}

// getPage fetches a server-rendered page.
func (c *Client) getPage(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.Raw(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", shared.ErrCollectionNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrTransport, path, resp.StatusCode)
	}
	return resp.Body, nil
}
