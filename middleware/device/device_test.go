package device

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		userAgent string
		expected  string
	}{
		{"explicit header wins", "  phone ", chromeWindows, "phone"},
		{"chrome on windows", "", chromeWindows, "Chrome on Windows"},
		{"firefox on linux", "", firefoxLinux, "Firefox on Linux"},
		{"no user agent", "", "", Unknown},
		{"blank header falls back", "   ", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
			req.Header.Del("User-Agent")
			if tt.header != "" {
				req.Header.Set(HeaderDeviceName, tt.header)
			}
			if tt.userAgent != "" {
				req.Header.Set("User-Agent", tt.userAgent)
			}

			assert.Equal(t, tt.expected, Label(req))
		})
	}
}
