package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessEndpoint(t *testing.T) {
	handler := New(10000).srv.Handler

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"probe", http.MethodGet, "/", http.StatusOK},
		{"unknown path", http.MethodGet, "/metrics", http.StatusNotFound},
		{"post rejected", http.MethodPost, "/", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && rec.Body.String() != "Bot is running" {
				t.Errorf("body = %q, want static liveness text", rec.Body.String())
			}
		})
	}
}
