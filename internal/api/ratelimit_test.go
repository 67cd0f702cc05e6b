package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	rl := newRateLimiter(5, 30)
	rl.now = func() time.Time { return now }

	rl.allow("192.0.2.1")
	now = now.Add(2 * time.Minute)
	rl.allow("192.0.2.2")
	now = now.Add(2 * time.Minute)

	rl.cleanup()
	if got := rl.size(); got != 1 {
		t.Errorf("visitors after cleanup = %d, want 1", got)
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := newRateLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !rl.allow("192.0.2.1") {
			t.Fatalf("request %d rejected within burst", i)
		}
	}
	if rl.allow("192.0.2.1") {
		t.Error("request beyond burst allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{"remote addr", "192.0.2.1:1234", "", false, "192.0.2.1"},
		{"forwarded ignored by default", "10.0.0.1:80", "198.51.100.7", false, "10.0.0.1"},
		{"forwarded trusted", "10.0.0.1:80", "198.51.100.7", true, "198.51.100.7"},
		{"forwarded chain", "10.0.0.1:80", "198.51.100.7, 10.0.0.2", true, "198.51.100.7"},
		{"blank forwarded entry", "10.0.0.1:80", " , 10.0.0.2", true, "10.0.0.1"},
		{"no port", "192.0.2.9", "", false, "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/health", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
