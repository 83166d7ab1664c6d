package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusInternalServerError) // second call ignored
	n, err := rw.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if rw.statusCode != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", rw.statusCode)
	}
	if n != 5 || rw.bytesWritten != 5 {
		t.Errorf("Expected 5 bytes written, got n=%d tracked=%d", n, rw.bytesWritten)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("Expected underlying recorder status 202, got %d", rec.Code)
	}
}

func TestResponseWriterDefaultStatus(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	if _, err := rw.Write([]byte("x")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected implicit 200, got %d", rw.statusCode)
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Clean", "/wake", "/wake"},
		{"Newlines", "GET /a\n[INFO] forged", "GET /a [INFO] forged"},
		{"CarriageReturn", "a\rb", "a b"},
		{"ControlChars", "a\x1b[31mb\x7f", "a[31mb"},
		{"Unicode", "/видео", "/видео"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"Direct", "203.0.113.7:4242", "", "203.0.113.7"},
		{"Forwarded", "10.0.0.1:80", "198.51.100.9", "198.51.100.9"},
		{"ForwardedChain", "10.0.0.1:80", "198.51.100.9, 10.0.0.2", "198.51.100.9"},
		{"NoPort", "203.0.113.7", "", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	called := false
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wake", nil))

	if !called {
		t.Error("Expected wrapped handler to be called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", rec.Code)
	}
}
