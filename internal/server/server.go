package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"
	goamiddleware "goa.design/goa/v3/middleware"

	"contactform/internal/config"
	"contactform/internal/metrics"
	"contactform/internal/services"
	apperrors "contactform/pkg/errors"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"

	msgInternal = "Internal server error"
)

// Dispatcher runs one decoded contact endpoint call.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *services.ActionRequest) (*services.ActionResult, error)
}

// HealthChecker reports service and database health.
type HealthChecker interface {
	Check(ctx context.Context) *services.HealthResult
}

// errorBody is the payload of every failed call.
type errorBody struct {
	Error string `json:"error"`
}

// Server serves the contact endpoint, health and metrics.
type Server struct {
	cfg        *config.Config
	dispatcher Dispatcher
	health     HealthChecker
	log        *slog.Logger
}

// New builds the root handler with the full middleware chain:
// security headers -> CORS -> request ID -> request logging -> Prometheus -> mux.
func New(cfg *config.Config, dispatcher Dispatcher, health HealthChecker, log *slog.Logger) http.Handler {
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		health:     health,
		log:        log.With("component", "http"),
	}

	mux := goahttp.NewMuxer()
	mux.Handle(http.MethodGet, healthPath, s.handleHealth)
	mux.Handle(http.MethodGet, metricsPath, promhttp.Handler().ServeHTTP)

	// The contact endpoint accepts every method; the dispatcher decides
	// which combinations are valid.
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == cfg.App.ContactPath {
			s.handleContact(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})
	handler = metrics.PrometheusMiddleware(handler)
	handler = s.requestLogging(handler)
	handler = middleware.PopulateRequestContext()(handler)
	handler = middleware.RequestID()(handler)
	handler = setupCORS(handler, &cfg.CORS)
	handler = setupSecurityHeaders(handler, cfg.App.Debug)
	return handler
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	req, err := decodeActionRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.encode(w, r, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.health.Check(r.Context())

	status := http.StatusOK
	if res.Database != "up" {
		status = http.StatusServiceUnavailable
	}
	s.encode(w, r, status, res)
}

// writeError maps err to its status and writes the error payload. Errors
// that are not AppErrors never leak their text to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := apperrors.HTTPStatus(err)
	message := msgInternal
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
	}

	attrs := []any{"status", status, "code", apperrors.CodeOf(err), "error", err}
	if id, ok := ctx.Value(goamiddleware.RequestIDKey).(string); ok {
		attrs = append(attrs, "request_id", id)
	}
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(ctx, "request failed", attrs...)
	} else {
		s.log.InfoContext(ctx, "request rejected", attrs...)
	}

	s.encode(w, r, status, &errorBody{Error: message})
}

// encode negotiates the response encoding from the Accept header, JSON by
// default.
func (s *Server) encode(w http.ResponseWriter, r *http.Request, status int, v any) {
	ctx := context.WithValue(r.Context(), goahttp.AcceptTypeKey, r.Header.Get("Accept"))
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		s.log.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
