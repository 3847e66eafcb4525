package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/resilience"
)

func newAdapter(t *testing.T, cfg Config) *Adapter {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestAdapter_Do_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/members/m-204" {
			t.Errorf("path = %s, want /members/m-204", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "m-204", "firstName": "Grace"})
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	resp, err := a.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/members/m-204",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if !resp.IsSuccess() {
		t.Error("IsSuccess() = false, want true")
	}
	if !strings.Contains(resp.Text(), "Grace") {
		t.Errorf("body %q missing record", resp.Text())
	}
}

func TestAdapter_Do_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["amount"] != float64(250) {
			t.Errorf("amount = %v, want 250", body["amount"])
		}
		w.WriteHeader(201)
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	resp, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/donations",
		Body:   map[string]any{"amount": 250, "fund": "general"},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
}

func TestAdapter_Do_HeaderPrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Tenant"); got != "grace-fellowship" {
			t.Errorf("X-Tenant = %q, want grace-fellowship", got)
		}
		if got := r.Header.Get("X-Trace"); got != "req-7" {
			t.Errorf("X-Trace = %q, want req-7", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"X-Tenant": "first-baptist", "X-Trace": "req-7"},
	})

	// The request-level tenant header must win over the client default.
	_, err := a.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/",
		Headers: map[string]string{"X-Tenant": "grace-fellowship"},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestAdapter_Do_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("updated_since"); got != "2024-01-01" {
			t.Errorf("updated_since = %q, want 2024-01-01", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	_, err := a.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/members",
		Query:  map[string]string{"updated_since": "2024-01-01"},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestAdapter_Do_BearerAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Errorf("Authorization = %q, want Bearer session-token", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL, Auth: BearerAuth("session-token")})

	if _, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestAdapter_Do_RequestAuthOverridesClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer refreshed-token" {
			t.Errorf("Authorization = %q, want the refreshed token", got)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL, Auth: BearerAuth("stale-token")})

	_, err := a.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/",
		Auth:   BearerAuth("refreshed-token"),
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestAdapter_Do_ClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		code    int
		checker func(error) bool
	}{
		{401, IsAuth},
		{403, IsAuth},
		{404, IsNotFound},
		{429, IsRateLimit},
		{500, IsServerError},
		{503, IsServerError},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tc.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(`{"error":"rejected"}`))
			}))
			defer srv.Close()

			a := newAdapter(t, Config{BaseURL: srv.URL})

			resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			if err == nil {
				t.Fatal("Do() error = nil, want typed error")
			}
			if !tc.checker(err) {
				t.Errorf("classification failed for HTTP %d: %v", tc.code, err)
			}
			// The response rides alongside the error so callers can
			// read the body the server sent with the failure.
			if resp == nil {
				t.Fatal("Do() response = nil, want response with error")
			}
			if resp.StatusCode != tc.code {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tc.code)
			}
		})
	}
}

func TestAdapter_Do_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("Do() error = nil, want deadline failure")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
}

func TestAdapter_Do_FullURLBypassesBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: "http://unreachable.invalid"})

	resp, err := a.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   srv.URL + "/direct",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
}

func TestAdapter_Do_RetriesServerErrors(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = 3
	retryCfg.InitialBackoff = 10 * time.Millisecond
	retryCfg.RetryIf = IsRetryable

	a := newAdapter(t, Config{BaseURL: srv.URL, Retry: &retryCfg})

	resp, err := a.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestAdapter_Do_CircuitOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	cbCfg := resilience.DefaultCircuitBreakerConfig("sync-api")
	cbCfg.MaxFailures = 2

	a := newAdapter(t, Config{BaseURL: srv.URL, CircuitBreaker: &cbCfg})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	}

	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("Do() error = nil, want circuit open")
	}
	if err != resilience.ErrCircuitOpen {
		t.Errorf("error = %v, want ErrCircuitOpen", err)
	}
	if a.IsAvailable(ctx) {
		t.Error("IsAvailable() = true with open circuit, want false")
	}
}

func TestAdapter_DoStream_EventStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(200)
		fmt.Fprint(w, "event: notification\ndata: {\"title\":\"Service moved\"}\n\ndata: ping\n\n")
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	stream, err := a.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/events"})
	if err != nil {
		t.Fatalf("DoStream() error = %v", err)
	}
	defer stream.Close()

	if stream.SSE == nil {
		t.Fatal("SSE reader = nil for text/event-stream")
	}

	ev, err := stream.SSE.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if ev.Event != "notification" {
		t.Errorf("event type = %q, want notification", ev.Event)
	}
	if !strings.Contains(ev.Data, "Service moved") {
		t.Errorf("event data = %q, want the notification payload", ev.Data)
	}

	ev2, err := stream.SSE.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if ev2.Data != "ping" {
		t.Errorf("second event data = %q, want ping", ev2.Data)
	}
}

func TestAdapter_DoStream_RawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(200)
		fmt.Fprint(w, "{\"n\":1}\n{\"n\":2}\n")
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	stream, err := a.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("DoStream() error = %v", err)
	}
	defer stream.Close()

	if stream.SSE != nil {
		t.Error("SSE reader set for non-event-stream response")
	}
	if stream.Body == nil {
		t.Fatal("Body = nil for raw stream")
	}
}

func TestAdapter_DoStream_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	_, err := a.DoStream(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("DoStream() error = nil, want auth failure")
	}
	if !IsAuth(err) {
		t.Errorf("IsAuth(%v) = false, want true", err)
	}
}

func TestAdapter_Do_StringBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "text/plain" {
			t.Errorf("Content-Type = %q, want text/plain", ct)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	_, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   "plain note",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestAdapter_Do_ByteBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{BaseURL: srv.URL})

	_, err := a.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   []byte{0x1f, 0x8b, 0x08},
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestAdapter_Unwrap(t *testing.T) {
	a := newAdapter(t, Config{})
	if a.Unwrap() == nil {
		t.Error("Unwrap() = nil, want the underlying http.Client")
	}
}

func TestResponse_StatusHelpers(t *testing.T) {
	ok := &Response{StatusCode: 204}
	if !ok.IsSuccess() || ok.IsError() {
		t.Error("204 should be success and not error")
	}

	bad := &Response{StatusCode: 500}
	if bad.IsSuccess() || !bad.IsError() {
		t.Error("500 should be error and not success")
	}
}
