package remote

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

	"github.com/julianstephens/glowup/internal/constants"
)

// SaveRequest is the body of POST /api/v1/save
type SaveRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HTTP talks to a glowup sync server
type HTTP struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTP(baseURL, token string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = constants.DefaultRemoteTimeout
	}
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	return h.client.Do(req)
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
}

func (h *HTTP) Load(ctx context.Context, key string) (Record, error) {
	resp, err := h.do(ctx, http.MethodGet, "/api/v1/load?key="+url.QueryEscape(key), nil)
	if err != nil {
		return Record{}, fmt.Errorf("failed to load %q: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Record{}, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Record{}, statusError(resp)
	}
	var r Record
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Record{}, fmt.Errorf("failed to decode load response: %w", err)
	}
	return r, nil
}

func (h *HTTP) Save(ctx context.Context, key, value string) error {
	body, err := json.Marshal(SaveRequest{Key: key, Value: value})
	if err != nil {
		return err
	}
	resp, err := h.do(ctx, http.MethodPost, "/api/v1/save", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (h *HTTP) Ping(ctx context.Context) error {
	resp, err := h.do(ctx, http.MethodGet, "/api/v1/ping", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func (h *HTTP) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
