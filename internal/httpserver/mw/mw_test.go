package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "10.0.0.1:1234", nil, false, "10.0.0.1"},
		{"proxy headers ignored", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "1.2.3.4"}, false, "10.0.0.1"},
		{"cloudflare first", "10.0.0.1:1234", map[string]string{"CF-Connecting-IP": "5.6.7.8", "X-Forwarded-For": "1.2.3.4"}, true, "5.6.7.8"},
		{"left-most forwarded", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "1.2.3.4, 9.9.9.9"}, true, "1.2.3.4"},
		{"real ip", "10.0.0.1:1234", map[string]string{"X-Real-IP": "4.4.4.4"}, true, "4.4.4.4"},
		{"ipv6", "[::1]:80", nil, false, "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8", "192.168.1.7"}, false, logger.Nop())(okHandler)

	tests := []struct {
		remote string
		want   int
	}{
		{"10.20.30.40:1", http.StatusOK},
		{"192.168.1.7:1", http.StatusOK},
		{"192.168.1.8:1", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/infra", nil)
		r.RemoteAddr = tt.remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.remote, w.Code, tt.want)
		}
	}
}

func TestAllowOnlyCIDRSEmptyPassthrough(t *testing.T) {
	h := AllowOnlyCIDRS(nil, false, logger.Nop())(okHandler)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"vianime.example.com", "vianime.example.com", true},
		{"VIANIME.example.com", "vianime.example.com", true},
		{"api.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"evilexample.com", "*.example.com", false},
		{"other.org", "vianime.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Unix(1700000000, 0)
	h := RateLimit(RateLimitConfig{
		Scope:        "auth",
		Burst:        2,
		RefillPerMin: 60,
		Now:          func() time.Time { return now },
	}, logger.Nop())(okHandler)

	do := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := do(); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", w.Header().Get("Retry-After"))
	}

	now = now.Add(time.Second)
	if w := do(); w.Code != http.StatusOK {
		t.Errorf("after refill: status = %d", w.Code)
	}
}

type fixedSession domain.Session

func (f fixedSession) Current() (domain.Session, uint64) { return domain.Session(f), 1 }

func TestRequireSession(t *testing.T) {
	anon := RequireSession(fixedSession(domain.Anonymous))(okHandler)
	w := httptest.NewRecorder()
	anon.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mylist", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d", w.Code)
	}

	signed := RequireSession(fixedSession(domain.Authenticated("uid", "a@b.c")))(okHandler)
	w = httptest.NewRecorder()
	signed.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mylist", nil))
	if w.Code != http.StatusOK {
		t.Errorf("signed in: status = %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"*.example.com"})(okHandler)

	r := httptest.NewRequest(http.MethodOptions, "/api/catalog", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Errorf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	r.Header.Set("Origin", "https://evil.org")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin echoed back")
	}
}
