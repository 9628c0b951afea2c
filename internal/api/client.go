// Package api is the JSON-over-HTTP client for the remote todo service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// DefaultBaseURL is the public students API the client was written against.
const DefaultBaseURL = "https://mate.academy/students-api"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Config holds what NewClient needs. BaseURL is required.
type Config struct {
	BaseURL string
	// Token is sent as a bearer token when non-empty.
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to {BaseURL}/todos.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *log.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL %q must be http or https", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: hc,
		log:        logger.WithPrefix("api"),
	}, nil
}

// ListItems returns every item owned by userID.
func (c *Client) ListItems(ctx context.Context, userID int) ([]model.Item, error) {
	q := url.Values{"userId": {strconv.Itoa(userID)}}
	var items []model.Item
	if err := c.do(ctx, "list", http.MethodGet, "/todos", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem posts draft; the server assigns the id.
func (c *Client) CreateItem(ctx context.Context, draft model.Item) (model.Item, error) {
	body := struct {
		UserID    int    `json:"userId"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}{draft.UserID, draft.Title, draft.Completed}

	var created model.Item
	if err := c.do(ctx, "create", http.MethodPost, "/todos", nil, body, &created); err != nil {
		return model.Item{}, err
	}
	return created, nil
}

// UpdateItem patches item id with the given fields.
func (c *Client) UpdateItem(ctx context.Context, id int, item model.Item) error {
	return c.do(ctx, "update", http.MethodPatch, itemPath(id), nil, item, nil)
}

func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.do(ctx, "delete", http.MethodDelete, itemPath(id), nil, nil, nil)
}

func itemPath(id int) string { return "/todos/" + strconv.Itoa(id) }

// do sends one request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	requestID := uuid.NewString()
	fail := func(status int, err error) error {
		return &NetworkError{Op: op, Method: method, Path: path, StatusCode: status, RequestID: requestID, Err: err}
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fail(0, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	c.log.Debug("request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ansi.Truncate(strings.TrimSpace(string(raw)), 200, "...")
		return fail(resp.StatusCode, fmt.Errorf("%w: %s", ErrUnexpectedStatus, msg))
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
