package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/rbac-management/pkg/logger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a request body is parsed for the log.
const maxLoggedBody = 4096

const redacted = "[FILTERED]"

// redactedHeaders never reach the log.
var redactedHeaders = map[string]struct{}{
	"Authorization":       {},
	"Proxy-Authorization": {},
	"Cookie":              {},
	"Set-Cookie":          {},
	"X-Api-Key":           {},
}

// redactedKeys are payload keys dropped from logged bodies. The API carries
// none of them, but clients sometimes send them anyway.
var redactedKeys = []string{"password", "token", "secret"}

// LoggingMiddleware writes one record per request once the handler is done.
// The route is logged by its chi pattern so path values such as emails stay
// out of the log, and email fields in the body are masked.
func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			body := peekBody(r)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			lg.Log(r.Context(), level, "request completed",
				"traceID", logger.TraceID(r.Context()),
				"method", r.Method,
				"route", routeOf(r),
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_written", ww.BytesWritten(),
				"remote_addr", r.RemoteAddr,
				"headers", scrubHeaders(r.Header),
				"body", scrubBody(body),
			)
		})
	}
}

// peekBody reads the body and puts an identical reader back for the handler.
func peekBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	b, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b
}

func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func scrubHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if _, ok := redactedHeaders[http.CanonicalHeaderKey(name)]; ok {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func scrubBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		return "[TRUNCATED]"
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "[NON-JSON BODY]"
	}
	out, err := json.Marshal(scrubValue("", payload))
	if err != nil {
		return "[UNLOGGABLE BODY]"
	}
	return string(out)
}

func scrubValue(key string, v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[k] = scrubValue(k, inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, inner := range val {
			out[i] = scrubValue(key, inner)
		}
		return out
	case string:
		lower := strings.ToLower(key)
		for _, k := range redactedKeys {
			if strings.Contains(lower, k) {
				return redacted
			}
		}
		if lower == "email" {
			return maskEmail(val)
		}
		return val
	default:
		return val
	}
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 1 {
		return redacted
	}
	return email[:1] + "***" + email[at:]
}
