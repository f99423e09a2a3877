// ABOUTME: Admin activity logging middleware.
// ABOUTME: Captures method, path, status, duration, bodies and the signed-in admin.

package logging

import (
	"bufio"
	"bytes"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2389/panel/internal/auth"
	"github.com/2389/panel/internal/store"
)

const maxBodySize = 10 * 1024 // 10KB limit for body capture

// Recorder persists activity entries
type Recorder interface {
	LogActivity(entry *store.ActivityLog) error
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	if rw.body.Len() < maxBodySize {
		toCopy := len(b)
		if rw.body.Len()+toCopy > maxBodySize {
			toCopy = maxBodySize - rw.body.Len()
		}
		rw.body.Write(b[:toCopy])
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Middleware records every admin request under rootPath, except static assets
func Middleware(rec Recorder, rootPath string) func(http.Handler) http.Handler {
	assets := strings.TrimSuffix(rootPath, "/") + "/assets/"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rec == nil || strings.HasPrefix(r.URL.Path, assets) {
				next.ServeHTTP(w, r)
				return
			}

			var requestBody string
			if r.Body != nil {
				bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
				if err == nil {
					requestBody = redact(r.Header.Get("Content-Type"), string(bodyBytes))
					r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
				}
			}

			start := time.Now()
			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Milliseconds()
			resourceID, action := ParseResourcePath(rootPath, r.URL.Path)

			ip := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
			}

			entry := &store.ActivityLog{
				ResourceID:   resourceID,
				Action:       action,
				Method:       r.Method,
				Path:         r.URL.Path,
				StatusCode:   wrapped.statusCode,
				DurationMs:   int(duration),
				Admin:        auth.UserFromContext(r.Context()),
				IPAddress:    ip,
				UserAgent:    r.Header.Get("User-Agent"),
				RequestBody:  requestBody,
				ResponseBody: responseBody(wrapped),
			}

			// Fire and forget
			go func() {
				if err := rec.LogActivity(entry); err != nil {
					log.Printf("Failed to record activity for %s %s: %v", entry.Method, entry.Path, err)
				}
			}()
		})
	}
}

// responseBody keeps JSON bodies only; HTML pages are too large to be useful
func responseBody(rw *responseWriter) string {
	if strings.HasPrefix(rw.Header().Get("Content-Type"), "application/json") {
		return rw.body.String()
	}
	return ""
}

// redact hides password fields in form posts
func redact(contentType, body string) string {
	if !strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		return body
	}
	values, err := url.ParseQuery(body)
	if err != nil {
		return ""
	}
	for key := range values {
		if strings.Contains(strings.ToLower(key), "password") {
			values.Set(key, "[redacted]")
		}
	}
	return values.Encode()
}
