package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

const book = `{
	"isbn": "0691161518",
	"amazon_url": "http://a.co/eobPtX2",
	"author": "Matthew Lane",
	"language": "english",
	"pages": 264,
	"publisher": "Princeton University Press",
	"title": "Power-Up: Unlocking the Hidden Mathematics in Video Games",
	"year": 2017
}`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	cfg.DBPath = filepath.Join(t.TempDir(), "bookstore.sqlite")
	server, closer, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		if err := closer.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return ts
}

func send(t *testing.T, method, url, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
	return resp.StatusCode, decoded
}

func TestBookLifecycle(t *testing.T) {
	ts := newTestServer(t, Config{})

	if status, _ := send(t, http.MethodPost, ts.URL+"/books", book); status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", status)
	}
	if status, _ := send(t, http.MethodPost, ts.URL+"/books", book); status != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", status)
	}

	status, body := send(t, http.MethodGet, ts.URL+"/books", "")
	if status != http.StatusOK || !strings.Contains(string(body["books"]), "0691161518") {
		t.Fatalf("list: %d %s", status, body["books"])
	}

	update := strings.Replace(strings.Replace(book, `"isbn": "0691161518",`, "", 1), "2017", "1992", 1)
	status, body = send(t, http.MethodPut, ts.URL+"/books/0691161518", update)
	if status != http.StatusOK || !strings.Contains(string(body["book"]), `"year":1992`) {
		t.Fatalf("update: %d %s", status, body["book"])
	}

	status, body = send(t, http.MethodPut, ts.URL+"/books/0691161518", `{"year":"soon"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("invalid update: expected 400, got %d", status)
	}
	if !strings.Contains(string(body["error"]), "Validation failed") {
		t.Fatalf("invalid update: unexpected error %s", body["error"])
	}

	status, body = send(t, http.MethodDelete, ts.URL+"/books/0691161518", "")
	if status != http.StatusOK || string(body["message"]) != `"Book deleted"` {
		t.Fatalf("delete: %d %v", status, body)
	}
	if status, _ := send(t, http.MethodGet, ts.URL+"/books/0691161518", ""); status != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", status)
	}

	status, body = send(t, http.MethodGet, ts.URL+"/books/0691161518/events", "")
	if status != http.StatusOK {
		t.Fatalf("events: expected 200, got %d", status)
	}
	var events []struct {
		Action    string `json:"action"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body["events"], &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 3 || events[0].Action != "created" || events[1].Action != "updated" || events[2].Action != "deleted" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].RequestID == "" {
		t.Fatal("events should carry the request id")
	}
}

func TestReadyzReportsMigrationVersion(t *testing.T) {
	ts := newTestServer(t, Config{})

	status, body := send(t, http.MethodGet, ts.URL+"/readyz", "")
	if status != http.StatusOK || string(body["schema_version"]) != "2" {
		t.Fatalf("readyz: %d %v", status, body)
	}
}

func TestMetricsEndpointIsOptional(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("metrics disabled: expected 404, got %d", resp.StatusCode)
	}

	ts = newTestServer(t, Config{EnableMetrics: true})
	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics enabled: expected 200, got %d", resp.StatusCode)
	}
}
