package autoplay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// Client drives one session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is playing
func (c *Client) SessionID() string {
	return c.sessionID
}

// UseSession points the client at an existing session
func (c *Client) UseSession(id string) {
	c.sessionID = id
}

// CreateSession starts a session for preset and remembers its ID. An empty
// preset selects the server default.
func (c *Client) CreateSession(ctx context.Context, preset string) (*engine.GameState, error) {
	var body interface{}
	if preset != "" {
		body = map[string]string{"config_id": preset}
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

// GetState fetches the current board
func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

// Reveal opens the cell at row, col
func (c *Client) Reveal(ctx context.Context, row, col int) (*service.ActionResult, error) {
	return c.cellAction(ctx, "/reveal", row, col)
}

// Flag toggles the flag at row, col
func (c *Client) Flag(ctx context.Context, row, col int) (*service.ActionResult, error) {
	return c.cellAction(ctx, "/flag", row, col)
}

// Restart starts a new game in the same session
func (c *Client) Restart(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/restart"), nil, &resp); err != nil {
		return nil, fmt.Errorf("restart: %w", err)
	}
	return resp.State, nil
}

func (c *Client) cellAction(ctx context.Context, action string, row, col int) (*service.ActionResult, error) {
	req := map[string]int{"row": row, "col": col}

	var result service.ActionResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath(action), req, &result); err != nil {
		return nil, fmt.Errorf("%s (%d,%d): %w", strings.TrimPrefix(action, "/"), row, col, err)
	}
	return &result, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
