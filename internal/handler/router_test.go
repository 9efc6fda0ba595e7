package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(cfg RouterConfig) (*gin.Engine, *MockComparisonService) {
	gin.SetMode(gin.TestMode)

	svc := new(MockComparisonService)
	db := new(MockPinger)
	db.On("Ping", mock.Anything).Return(nil)

	return NewRouter(cfg, NewComparisonHandler(svc), NewHealthHandler(db)), svc
}

func TestNewRouter_Routes(t *testing.T) {
	r, svc := newTestRouter(RouterConfig{})
	svc.On("Compare", mock.Anything, mock.Anything).Return(sampleResult(), nil)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"swagger document", http.MethodGet, "/swagger/doc.json", "", http.StatusOK},
		{"compare prices", http.MethodPost, "/api/compare-prices", `{"user_location":{"latitude":32.0853,"longitude":34.7818},"grocery_list":["milk"]}`, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(requestIDHeader))
		})
	}
}

func TestNewRouter_CORS(t *testing.T) {
	r, _ := newTestRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/compare-prices", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/compare-prices", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	r, svc := newTestRouter(RouterConfig{RateLimitRPS: 0.001, RateLimitBurst: 1})
	svc.On("NearbyStores", mock.Anything, mock.Anything).Return(nil, nil)

	get := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/api/stores/nearby?latitude=32.08&longitude=34.78"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api/stores/nearby?latitude=32.08&longitude=34.78"))
	assert.Equal(t, http.StatusOK, get("/health"))
	assert.Equal(t, http.StatusOK, get("/health"))
}
