package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/hr-management/pkg/logger"
)

const (
	filtered = "[FILTERED]"
	// maxLoggedBody caps how much of a body is copied into a log line.
	maxLoggedBody = 4096
)

// sensitiveFields are matched as substrings of lower-cased JSON keys and header names.
var sensitiveFields = []string{
	"password",
	"token",
	"refresh",
	"access",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
	"employee_nin",
}

// LoggingMiddleware logs each request and its response with sensitive
// fields masked. Non-JSON bodies such as charts and exports are not logged.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lg := requestLogger(r, base)

			var reqBody []byte
			if r.Body != nil && isJSON(r.Header.Get("Content-Type")) {
				reqBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			lg.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", filterSensitiveHeaders(r.Header),
				"body", filterSensitiveBody(reqBody),
			)

			ww := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.status()
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.size,
			}
			if isJSON(ww.Header().Get("Content-Type")) {
				attrs = append(attrs, "body", filterSensitiveBody(ww.body.Bytes()))
			}
			lg.Log(r.Context(), level, "response", attrs...)
		})
	}
}

func requestLogger(r *http.Request, base *slog.Logger) *slog.Logger {
	if lg, ok := logger.Lookup(r.Context()); ok {
		return lg
	}
	return base
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		rw.body.Write(b[:room])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func (rw *responseWriter) status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

func isSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, f := range sensitiveFields {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if len(body) >= maxLoggedBody {
			return "[TRUNCATED]"
		}
		return "[UNPARSEABLE]"
	}

	out, err := json.Marshal(filterSensitiveJSON(data))
	if err != nil {
		return "[ERROR - failed to marshal filtered body]"
	}
	return string(out)
}

func filterSensitiveJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitive(key) {
				out[key] = filtered
			} else {
				out[key] = filterSensitiveJSON(value)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = filterSensitiveJSON(item)
		}
		return out
	default:
		return v
	}
}
