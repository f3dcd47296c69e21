package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func withCaller(r *http.Request, caller model.Caller) *http.Request {
	return r.WithContext(ctxkeys.WithCaller(r.Context(), caller))
}

func TestRequireAuthAndAdmin(t *testing.T) {
	userID := int64(7)
	tests := []struct {
		name      string
		caller    model.Caller
		wantAuth  int
		wantAdmin int
	}{
		{"anonymous", model.Caller{}, http.StatusUnauthorized, http.StatusUnauthorized},
		{"user", model.Caller{Authenticated: true, UserID: &userID}, http.StatusOK, http.StatusForbidden},
		{"admin", model.Caller{Authenticated: true, IsAdmin: true}, http.StatusOK, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireAuth(ok)(rec, withCaller(httptest.NewRequest(http.MethodGet, "/", nil), tt.caller))
			if rec.Code != tt.wantAuth {
				t.Errorf("RequireAuth = %d, want %d", rec.Code, tt.wantAuth)
			}

			rec = httptest.NewRecorder()
			RequireAdmin(ok)(rec, withCaller(httptest.NewRequest(http.MethodGet, "/", nil), tt.caller))
			if rec.Code != tt.wantAdmin {
				t.Errorf("RequireAdmin = %d, want %d", rec.Code, tt.wantAdmin)
			}
			if rec.Code != http.StatusOK && rec.Header().Get("Content-Type") != "application/json" {
				t.Errorf("error response is not JSON")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	limited := RateLimit(NewRateLimiter(2, time.Minute))(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "192.0.2.1:4321"
		rec := httptest.NewRecorder()
		limited(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	other := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	other.RemoteAddr = "192.0.2.2:4321"
	rec := httptest.NewRecorder()
	limited(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("other client limited: %d", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[2001:db8::1]:1234", "2001:db8::1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": " 203.0.113.9 "}, "10.0.0.1:1", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(ok), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("order = %v", order)
	}
}

func TestRejectUploadTraversal(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{"/uploads/../../etc/passwd", http.StatusBadRequest},
		{"/uploads/thumbs/../../etc/passwd", http.StatusBadRequest},
		{"/uploads/%2e%2e/%2e%2e/etc/passwd", http.StatusBadRequest},
		{"/uploads/a%5c..%5cb.jpg", http.StatusBadRequest},
		{"/uploads/thumbs/1700000000-photo.jpg", http.StatusOK},
		{"/uploads/photo..final.jpg", http.StatusOK},
		{"/api/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RejectUploadTraversal(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
