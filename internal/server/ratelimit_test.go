package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"careerpilot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiterManager(t *testing.T, requestsPerMin, burst int) *LimiterManager {
	t.Helper()
	logger, err := errors.New("error")
	require.NoError(t, err)

	m := NewLimiterManager(requestsPerMin, burst, logger)
	t.Cleanup(m.Close)
	return m
}

func TestLimiterAllowsBurst(t *testing.T) {
	m := newTestLimiterManager(t, 60, 3)

	for i := range 3 {
		assert.True(t, m.Allow("ip:10.0.0.1"), "request %d within burst should pass", i)
	}
	assert.False(t, m.Allow("ip:10.0.0.1"), "request beyond burst should be rejected")
}

func TestLimiterIsolatesKeys(t *testing.T) {
	m := newTestLimiterManager(t, 60, 1)

	assert.True(t, m.Allow("ip:10.0.0.1"))
	assert.False(t, m.Allow("ip:10.0.0.1"))

	// A different key has its own bucket
	assert.True(t, m.Allow("ip:10.0.0.2"))
}

func TestLimiterStats(t *testing.T) {
	m := newTestLimiterManager(t, 120, 5)

	m.Allow("api:key-one")
	m.Allow("ip:10.0.0.1")

	stats := m.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.InDelta(t, 2.0, stats["rate_per_second"], 0.001)
	assert.InDelta(t, 120.0, stats["rate_per_minute"], 0.001)
	assert.Equal(t, 5, stats["burst_capacity"])
}

func TestLimiterCleanupEvictsIdle(t *testing.T) {
	m := newTestLimiterManager(t, 60, 1)

	m.Allow("ip:10.0.0.1")
	m.Allow("ip:10.0.0.2")

	// Backdate one entry past the eviction age
	m.mu.Lock()
	m.lastSeen["ip:10.0.0.1"] = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	m.cleanup(30 * time.Minute)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.NotContains(t, m.limiters, "ip:10.0.0.1")
	assert.Contains(t, m.limiters, "ip:10.0.0.2")
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{
			name:     "api key header",
			headers:  map[string]string{"X-API-Key": "abc123"},
			byAPIKey: true,
			want:     "api:abc123",
		},
		{
			name:     "bearer token",
			headers:  map[string]string{"Authorization": "Bearer tok456"},
			byAPIKey: true,
			want:     "api:tok456",
		},
		{
			name: "ip fallback",
			byIP: true,
			want: "ip:192.0.2.1",
		},
		{
			name:     "api key preferred over ip",
			headers:  map[string]string{"X-API-Key": "abc123"},
			byAPIKey: true,
			byIP:     true,
			want:     "api:abc123",
		},
		{
			name: "nothing enabled",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/match", nil)
			req.RemoteAddr = "192.0.2.1:54321"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, getRateLimitKey(req, tt.byAPIKey, tt.byIP))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "x-forwarded-for single",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.7",
		},
		{
			name:    "x-forwarded-for chain uses first valid",
			headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remote:  "10.0.0.1:1234",
			want:    "203.0.113.7",
		},
		{
			name:    "x-forwarded-for garbage falls through",
			headers: map[string]string{"X-Forwarded-For": "not-an-ip", "X-Real-IP": "198.51.100.2"},
			remote:  "10.0.0.1:1234",
			want:    "198.51.100.2",
		},
		{
			name:   "remote addr fallback",
			remote: "192.0.2.9:9999",
			want:   "192.0.2.9",
		},
		{
			name:   "remote addr without port",
			remote: "192.0.2.9",
			want:   "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/match", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "sk-live-****", maskAPIKey("sk-live-abcdef123456"))
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey(""))
}
