package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		deviceType string
		browser    string
	}{
		{"Empty", "", "unknown", "Unknown"},
		{"Desktop Chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "desktop", "Chrome"},
		{"iPhone Safari", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "mobile", "Safari"},
		{"iPad", "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1", "tablet", "Safari"},
		{"Googlebot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot", "Googlebot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUserAgent(tt.ua)
			assert.Equal(t, tt.deviceType, info.DeviceType)
			assert.Equal(t, tt.browser, info.Browser)
		})
	}

	assert.Empty(t, ParseUserAgent("").Summary())
	assert.Contains(t, ParseUserAgent(tests[1].ua).Summary(), "Chrome on Windows")
}

func TestGetRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"X-Real-IP", map[string]string{"X-Real-IP": "203.0.113.7"}, "203.0.113.7"},
		{"First public forwarded", map[string]string{"X-Forwarded-For": "10.0.0.4, 198.51.100.20, 203.0.113.9"}, "198.51.100.20"},
		{"Private X-Real-IP ignored", map[string]string{"X-Real-IP": "192.168.1.10", "X-Forwarded-For": "198.51.100.20"}, "198.51.100.20"},
		{"Fallback to remote address", nil, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetRealIP(c))
		})
	}
}

func TestGenerateEnvSecrets(t *testing.T) {
	secrets, err := GenerateEnvSecrets()
	require.NoError(t, err)
	assert.Len(t, secrets.JWTSecret, 64)
	assert.Len(t, secrets.JWTRefreshSecret, 64)
	assert.NotEqual(t, secrets.JWTSecret, secrets.JWTRefreshSecret)

	lines := secrets.EnvLines()
	assert.Contains(t, lines, "JWT_SECRET="+secrets.JWTSecret)
	assert.Contains(t, lines, "JWT_REFRESH_SECRET="+secrets.JWTRefreshSecret)
	assert.Contains(t, lines, "VENUE_TIMEZONE=America/Bogota")
	assert.Contains(t, lines, "SESSION_STORE=memory")
}
