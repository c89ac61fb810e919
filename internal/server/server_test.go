package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/glowup/internal/remote"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupServer(t *testing.T, token string) (*Server, *httptest.Server, *remote.Memory) {
	t.Helper()
	backend := remote.NewMemory()
	srv := New(backend, Config{Token: token})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts, backend
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_Routes(t *testing.T) {
	_, ts, _ := setupServer(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "ping", method: http.MethodGet, path: "/api/v1/ping", want: http.StatusOK},
		{name: "load missing key param", method: http.MethodGet, path: "/api/v1/load", want: http.StatusBadRequest},
		{name: "load absent", method: http.MethodGet, path: "/api/v1/load?key=nope", want: http.StatusNotFound},
		{name: "save without key", method: http.MethodPost, path: "/api/v1/save", body: `{"value":"{}"}`, want: http.StatusBadRequest},
		{name: "save bad body", method: http.MethodPost, path: "/api/v1/save", body: `not json`, want: http.StatusBadRequest},
		{name: "save non-json value", method: http.MethodPost, path: "/api/v1/save", body: `{"key":"k","value":"plain"}`, want: http.StatusBadRequest},
		{name: "save", method: http.MethodPost, path: "/api/v1/save", body: `{"key":"k","value":"{\"a\":1}"}`, want: http.StatusOK},
		{name: "load saved", method: http.MethodGet, path: "/api/v1/load?key=k", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, ts.URL+tt.path, "", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
			}
		})
	}
}

func TestServer_Token(t *testing.T) {
	_, ts, _ := setupServer(t, "s3cret")

	if resp := do(t, http.MethodGet, ts.URL+"/api/v1/load?key=k", "", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("load without token = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/v1/load?key=k", "wrong", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("load with wrong token = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/v1/load?key=k", "s3cret", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("load with token = %d, want 404", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/v1/ping", "", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("ping = %d, want 200 without a token", resp.StatusCode)
	}
}

func TestServer_PingBackendDown(t *testing.T) {
	_, ts, backend := setupServer(t, "")
	backend.FailWith(errors.New("down"))
	if resp := do(t, http.MethodGet, ts.URL+"/api/v1/ping", "", ""); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("ping = %d, want 503", resp.StatusCode)
	}
}

func TestServer_HTTPClientRoundTrip(t *testing.T) {
	_, ts, _ := setupServer(t, "tok")
	ctx := context.Background()
	client := remote.NewHTTP(ts.URL, "tok", time.Second)
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if _, err := client.Load(ctx, "doc"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
	doc := `{"habits":[],"version":"1.0.0"}`
	if err := client.Save(ctx, "doc", doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rec, err := client.Load(ctx, "doc")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.Value != doc || rec.UpdatedAt.IsZero() {
		t.Errorf("Load() = %+v", rec)
	}
}

func TestServer_SubscribeReceivesSaves(t *testing.T) {
	srv, ts, _ := setupServer(t, "tok")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/subscribe?token=tok"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var ev Event
	readEvent(t, ctx, conn, &ev)
	if ev.Type != EventHello {
		t.Fatalf("first event = %s, want hello", ev.Type)
	}
	if n := srv.ClientCount(); n != 1 {
		t.Errorf("ClientCount() = %d, want 1", n)
	}

	if resp := do(t, http.MethodPost, ts.URL+"/api/v1/save", "tok", `{"key":"doc","value":"{}"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("save = %d", resp.StatusCode)
	}
	readEvent(t, ctx, conn, &ev)
	if ev.Type != EventSaved || ev.Key != "doc" || ev.UpdatedAt.IsZero() {
		t.Errorf("event = %+v, want saved doc", ev)
	}
}

func TestServer_SubscribeRequiresToken(t *testing.T) {
	_, ts, _ := setupServer(t, "tok")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/subscribe"
	if _, _, err := websocket.Dial(ctx, wsURL, nil); err == nil {
		t.Error("Dial() without token should fail")
	}
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, ev *Event) {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if err := json.Unmarshal(data, ev); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
}
