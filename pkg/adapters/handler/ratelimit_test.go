package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitPerClient(t *testing.T) {
	h := RateLimit(RateLimitConfig{Burst: 2, PerMinute: 1})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/v1/public/ana/views", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := call("10.0.0.1:5000"); rr.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i+1, rr.Code)
		}
	}

	rr := call("10.0.0.1:5001")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining = %q", rr.Header().Get("X-RateLimit-Remaining"))
	}

	if rr := call("10.0.0.2:5000"); rr.Code != http.StatusNoContent {
		t.Errorf("another client should have its own bucket, got %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "192.0.2.1:1234", nil, false, "192.0.2.1"},
		{"headers ignored without trust", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9"}, false, "192.0.2.1"},
		{"cloudflare first", "127.0.0.1:1", map[string]string{"CF-Connecting-IP": "198.51.100.7", "X-Forwarded-For": "203.0.113.9"}, true, "198.51.100.7"},
		{"left-most forwarded", "127.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, true, "203.0.113.9"},
		{"real ip", "127.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.5"}, true, "203.0.113.5"},
		{"ipv6", "[2001:db8::1]:443", nil, true, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
