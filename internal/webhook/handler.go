// Package webhook serves the SMS gateway's inbound message callback.
package webhook

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kevinmichaelchen/gh-sms/internal/reply"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Replier produces the reply text for one inbound message.
type Replier interface {
	Reply(ctx context.Context, text string) string
}

// Handler answers gateway callbacks. Each request is handled on its own;
// nothing is kept between messages.
type Handler struct {
	replier Replier
	timeout time.Duration
	log     *zap.SugaredLogger
	tracer  trace.Tracer
}

// NewHandler creates a handler. A non-positive timeout leaves the request
// context without a deadline.
func NewHandler(replier Replier, timeout time.Duration, log *zap.SugaredLogger) *Handler {
	return &Handler{
		replier: replier,
		timeout: timeout,
		log:     log,
		tracer:  otel.Tracer("github.com/kevinmichaelchen/gh-sms/internal/webhook"),
	}
}

// RegisterRoutes mounts the webhook and health endpoints on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/webhook", h.Handle).Methods(http.MethodPost)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
}

// Router returns a router with all routes registered.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// Handle reads the From and Body form fields and writes the XML reply.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	ctx, span := h.tracer.Start(ctx, "webhook.message", trace.WithAttributes(
		attribute.String("request_id", requestID),
	))
	defer span.End()

	log := h.log.With("request_id", requestID)
	if sc := span.SpanContext(); sc.IsValid() {
		log = log.With("trace_id", sc.TraceID().String())
	}

	if err := r.ParseForm(); err != nil {
		log.Warnw("failed to parse webhook form", "error", err)
		span.SetStatus(codes.Error, "invalid form body")
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	if _, ok := r.PostForm["Body"]; !ok {
		log.Warnw("webhook missing Body field")
		span.SetStatus(codes.Error, "missing Body field")
		http.Error(w, "missing Body field", http.StatusBadRequest)
		return
	}
	from := r.PostForm.Get("From")
	body := r.PostForm.Get("Body")

	start := time.Now()
	log.Infow("message received", "from", from, "body", body)
	text := h.replier.Reply(ctx, body)
	chars := len([]rune(text))
	span.SetAttributes(attribute.Int("reply_chars", chars))
	log.Infow("reply ready", "from", from, "reply_chars", chars, "elapsed", time.Since(start))

	w.Header().Set("Content-Type", reply.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(reply.Render(text))); err != nil {
		log.Warnw("failed to write reply", "error", err)
	}
}
