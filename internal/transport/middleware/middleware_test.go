package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/workforce-management/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("RequestID", func() {
	It("should reuse the caller's trace id and echo it back", func() {
		var seen string
		handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.TraceIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
		req.Header.Set(middleware.TraceIDHeader, "trace-abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		Expect(seen).To(Equal("trace-abc"))
		Expect(rec.Header().Get(middleware.TraceIDHeader)).To(Equal("trace-abc"))
	})

	It("should mint a trace id when the caller sends none", func() {
		handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Header().Get(middleware.TraceIDHeader)).NotTo(BeEmpty())
	})
})

var _ = Describe("LoggingMiddleware", func() {
	var (
		logs    *bytes.Buffer
		handler func(http.Handler) http.Handler
	)

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		handler = middleware.LoggingMiddleware(slog.New(slog.NewJSONHandler(logs, nil)))
	})

	It("should redact credentials but keep the rest of the payload", func() {
		var received string
		wrapped := handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())
			received = string(raw)
			w.WriteHeader(http.StatusCreated)
		}))

		body := `{"email":"dina@example.com","password":"s3cret-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		Expect(received).To(Equal(body), "handler must still see the full body")
		Expect(logs.String()).NotTo(ContainSubstring("s3cret-password"))
		Expect(logs.String()).To(ContainSubstring("[REDACTED]"))
		Expect(logs.String()).To(ContainSubstring("dina@example.com"))
	})

	It("should log server errors at error level with the status", func() {
		wrapped := handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		var entry map[string]any
		Expect(json.Unmarshal(logs.Bytes(), &entry)).To(Succeed())
		Expect(entry["level"]).To(Equal("ERROR"))
		Expect(entry["status"]).To(BeNumerically("==", http.StatusServiceUnavailable))
	})

	It("should never log a non-json body verbatim", func() {
		wrapped := handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader("password=plaintext"))
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		Expect(logs.String()).NotTo(ContainSubstring("plaintext"))
		Expect(logs.String()).To(ContainSubstring("[non-json body]"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should answer a panic with the standard error envelope", func() {
		logs := &bytes.Buffer{}
		wrapped := middleware.RecoveryMiddleware(slog.New(slog.NewJSONHandler(logs, nil)))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic("db handle is nil")
			}))

		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

		var envelope map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &envelope)).To(Succeed())
		Expect(envelope).To(HaveKey("error"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("db handle is nil"),
			"panic detail stays in the logs")
		Expect(logs.String()).To(ContainSubstring("db handle is nil"))
	})
})
