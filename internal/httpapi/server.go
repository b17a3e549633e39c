// Package httpapi exposes the prober over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/optimode/mxprobe"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Verifier is the part of *mxprobe.Prober the API needs.
type Verifier interface {
	Verify(ctx context.Context, email string) mxprobe.Result
}

// Config configures the HTTP server.
type Config struct {
	ListenAddr string
	// RequestTimeout bounds one verification. Zero means no extra bound.
	RequestTimeout time.Duration
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server serves the verification API.
type Server struct {
	cfg        Config
	verifier   Verifier
	logger     *slog.Logger
	validate   *validator.Validate
	httpServer *http.Server
}

// VerifyRequest is the POST /verify body.
type VerifyRequest struct {
	Email string `json:"email" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates the server. It does not listen until ListenAndServe.
func New(cfg Config, v Verifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:      cfg,
		verifier: v,
		logger:   logger.With("component", "httpapi"),
		validate: validator.New(),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/verify", s.handleVerifyQuery).Methods(http.MethodGet)
	r.HandleFunc("/verify", s.handleVerifyBody).Methods(http.MethodPost)
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

// ListenAndServe blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting HTTP API", "addr", s.cfg.ListenAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVerifyQuery(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email query parameter is required"})
		return
	}
	s.verify(w, r, email)
}

func (s *Server) handleVerifyBody(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email is required"})
		return
	}
	s.verify(w, r, req.Email)
}

// verify answers 200 with the Result for every verdict, including
// invalid_syntax: the verdict is the payload, not a transport error.
func (s *Server) verify(w http.ResponseWriter, r *http.Request, email string) {
	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	writeJSON(w, http.StatusOK, s.verifier.Verify(ctx, email))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
