package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/freightdash/internal/core"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		proxies    []string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "no trusted proxies ignores headers",
			remoteAddr: "203.0.113.7:5123",
			headers:    map[string]string{"X-Real-IP": "10.0.0.9"},
			want:       "203.0.113.7:5123",
		},
		{
			name:       "untrusted peer ignores headers",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "203.0.113.7:5123",
			headers:    map[string]string{"X-Real-IP": "198.51.100.1"},
			want:       "203.0.113.7:5123",
		},
		{
			name:       "trusted cidr uses X-Real-IP",
			proxies:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:443",
			headers:    map[string]string{"X-Real-IP": "198.51.100.1"},
			want:       "198.51.100.1",
		},
		{
			name:       "trusted single ip uses first forwarded address",
			proxies:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"},
			want:       "198.51.100.2",
		},
		{
			name:       "invalid header keeps remote addr",
			proxies:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			want:       "127.0.0.1:8080",
		},
		{
			name:       "invalid proxy entries are skipped",
			proxies:    []string{"garbage", " ", "127.0.0.1"},
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Real-IP": "198.51.100.3"},
			want:       "198.51.100.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	var ip, ua string
	h := Metadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := core.RequestInfoFromContext(r.Context())
		ip, ua = info.IPAddress, info.UserAgent
	}))

	req := httptest.NewRequest(http.MethodPost, "/loads", nil)
	req.RemoteAddr = "192.0.2.10:40000"
	req.Header.Set("User-Agent", "dispatch-test/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if ip != "192.0.2.10" {
		t.Errorf("ip = %q, want 192.0.2.10", ip)
	}
	if ua != "dispatch-test/1.0" {
		t.Errorf("user agent = %q", ua)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/loads/99", nil))

	out := buf.String()
	for _, want := range []string{"level=WARN", "msg=request", "status=404", "bytes=7", "path=/loads/99"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
