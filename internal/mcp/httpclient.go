package mcp

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

	"github.com/claude/limber/internal/catalog"
	"github.com/claude/limber/internal/storage"
)

// HTTPClient implements DataSource by calling the Limber REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but data lives on
// the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) GenerateRoutine(ctx context.Context, params GenerateParams, _ int) (*storage.RoutineRow, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/routines", nil, params)
	if err != nil {
		return nil, err
	}

	var row storage.RoutineRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: decode routine: %w", err)
	}
	return &row, nil
}

func (c *HTTPClient) ListStretches(ctx context.Context, area catalog.Area, pos catalog.Position) ([]catalog.Stretch, error) {
	params := url.Values{}
	if area != "" {
		params.Set("area", string(area))
	}
	if pos != "" {
		params.Set("position", string(pos))
	}

	body, err := c.get(ctx, "/api/v1/stretches", params)
	if err != nil {
		return nil, err
	}

	var stretches []catalog.Stretch
	if err := json.Unmarshal(body, &stretches); err != nil {
		return nil, fmt.Errorf("httpclient: decode stretches: %w", err)
	}
	return stretches, nil
}

func (c *HTTPClient) QueryRoutines(ctx context.Context, start, end time.Time, _ int) ([]storage.RoutineRow, error) {
	body, err := c.get(ctx, "/api/v1/routines/history", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var rows []storage.RoutineRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode history: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) GetStretchStats(ctx context.Context, _ int) (*storage.StretchStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats storage.StretchStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) TransitionSeconds(ctx context.Context) (int, error) {
	body, err := c.get(ctx, "/api/v1/settings/transition", nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		TransitionSeconds int `json:"transitionSeconds"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("httpclient: decode transition setting: %w", err)
	}
	return resp.TransitionSeconds, nil
}

func (c *HTTPClient) SetTransitionSeconds(ctx context.Context, seconds int) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/settings/transition", nil,
		map[string]int{"transitionSeconds": seconds})
	return err
}
