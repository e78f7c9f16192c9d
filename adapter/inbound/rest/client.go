package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
)

// Client talks to a running server's control API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non 2xx answer
type APIError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) Categories(ctx context.Context) ([]CategoryResponse, error) {
	var out struct {
		Categories []CategoryResponse `json:"categories"`
	}
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out)
	return out.Categories, err
}

func (c *Client) Sweep(ctx context.Context, path, categories string) (*model.SweepReport, error) {
	var report model.SweepReport
	if err := c.do(ctx, http.MethodPost, "/api/sweep", SweepRequest{Path: path, Categories: categories}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) Sessions(ctx context.Context) ([]model.SessionInfo, error) {
	var out struct {
		Sessions []model.SessionInfo `json:"sessions"`
	}
	err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &out)
	return out.Sessions, err
}

func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (*StartSessionResponse, error) {
	var out StartSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StopSession(ctx context.Context, index int) (model.SessionInfo, error) {
	var info model.SessionInfo
	err := c.do(ctx, http.MethodDelete, "/api/sessions/"+strconv.Itoa(index), nil, &info)
	return info, err
}

func (c *Client) StopSessions(ctx context.Context, indices []int) (*StopSessionsResponse, error) {
	var out StopSessionsResponse
	if err := c.do(ctx, http.MethodPost, "/api/sessions/stop", StopSessionsRequest{Indices: indices}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Moves(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	var out struct {
		Moves []model.JournalEntry `json:"moves"`
	}
	err := c.do(ctx, http.MethodGet, "/api/moves?limit="+strconv.Itoa(limit), nil, &out)
	return out.Moves, err
}

func (c *Client) Stats(ctx context.Context) (*inbound.OrganizerStats, error) {
	var out inbound.OrganizerStats
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reach server at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
