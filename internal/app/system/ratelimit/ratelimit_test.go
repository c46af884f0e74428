package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_WindowAndReset(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Close()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Error("third request should be limited")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
	if !l.Allow("b") {
		t.Error("keys are independent")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("a") {
		t.Error("new window should allow again")
	}

	l.Reset("a")
	if got := l.Remaining("a"); got != 2 {
		t.Errorf("Remaining after Reset: got %d, want 2", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "10.0.0.1:1234", "198.51.100.2"},
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	deny := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }

	l := New(1, 30*time.Second)
	defer l.Close()
	h := l.Middleware(deny)(ok)

	codes := []int{}
	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "30" {
			t.Errorf("Retry-After: got %q", rec.Header().Get("Retry-After"))
		}
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes: got %v", codes)
	}

	var none *Limiter
	rec := httptest.NewRecorder()
	none.Middleware(deny)(ok).ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("nil limiter: got %d", rec.Code)
	}
}
