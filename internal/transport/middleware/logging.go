package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// redactedFields are the JSON keys this API actually carries that must never
// reach the logs: the password on auth and employee payloads, the tokens on
// auth responses.
var redactedFields = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"access_token":  {},
	"refresh_token": {},
}

// maxLoggedBody caps how much of a request body gets logged.
const maxLoggedBody = 4 << 10

// LoggingMiddleware emits one line per request after it is served: method,
// path, status, duration and the redacted request body for writes. Response
// bodies are never logged, only their size.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var requestBody string
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if r.Body != nil {
					requestBody = captureBody(r)
				}
			}

			ww := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(ww, r)

			status := ww.status
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "request served",
				"trace_id", TraceIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_bytes", ww.written,
				"request_body", requestBody,
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// captureBody copies the request body for logging and puts the stream back
// so the handler still sees the full payload.
func captureBody(r *http.Request) string {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if len(raw) == 0 {
		return ""
	}
	if len(raw) > maxLoggedBody {
		return "[body too large to log]"
	}
	return redactBody(raw)
}

// redactBody masks redacted keys inside a JSON payload. Non-JSON bodies are
// never logged verbatim.
func redactBody(raw []byte) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "[non-json body]"
	}

	redacted, err := json.Marshal(redactValue(payload))
	if err != nil {
		return "[non-json body]"
	}
	return string(redacted)
}

func redactValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			if _, hit := redactedFields[strings.ToLower(key)]; hit {
				out[key] = "[REDACTED]"
			} else {
				out[key] = redactValue(inner)
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = redactValue(inner)
		}
		return out
	default:
		return v
	}
}
