package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-bridge/internal/datasource"
	"github.com/rxtech-lab/argo-bridge/internal/version"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"go.uber.org/zap"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	sessionKey
)

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedCORSOrigin(r.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+InternalPingHeader+", "+RequestIDHeader)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set(version.HeaderName, version.GetVersion())

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedCORSOrigin(origin string) string {
	if len(s.opts.CORSOrigins) == 0 || slices.Contains(s.opts.CORSOrigins, "*") {
		return "*"
	}

	if slices.Contains(s.opts.CORSOrigins, origin) {
		return origin
	}

	return s.opts.CORSOrigins[0]
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)

		start := s.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))

		s.metrics.ObserveDuration(r.URL.Path, rec.status, s.now().Sub(start))
	})
}

// accessMiddleware rejects origins missing from a non-empty allow-list before anything touches the data source.
func (s *Server) accessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := originOf(r)
		if !s.runtime.IsAllowed(origin) {
			err := errors.Newf(errors.ErrCodeUnauthorized, "origin %s is not allowed", origin)
			s.metrics.ObserveRejected()
			s.logger.Warn("Rejected request",
				zap.String("origin", origin),
				zap.String("endpoint", r.URL.Path),
				zap.String("request_id", requestIDFrom(r.Context())),
			)
			s.respondError(w, errors.HTTPStatus(err.Code), err.Message)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// withSession connects to the data source for the duration of the request, records the call in the
// monitor and always closes the session afterwards.
func (s *Server) withSession(handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.source.Connect(r.Context())
		if err != nil {
			code := errors.GetCode(err)
			if code == errors.ErrCodeUnknown {
				code = errors.ErrCodeDataSourceUnavailable
			}

			s.metrics.ObserveUpstreamError("connect")
			s.logger.Error("Could not connect to data source",
				zap.String("source", s.source.Name()),
				zap.String("endpoint", r.URL.Path),
				zap.String("request_id", requestIDFrom(r.Context())),
				zap.Error(err),
			)
			s.respondCodedError(w, http.StatusInternalServerError, "could not connect to data source", code)

			return
		}

		defer func() {
			if closeErr := session.Close(); closeErr != nil {
				s.logger.Warn("Failed to close data source session", zap.Error(closeErr))
			}
		}()

		s.monitor.Record(r.URL.Path, r.Method, originOf(r), isInternal(r))

		handler(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func sessionFrom(ctx context.Context) datasource.Session {
	session, _ := ctx.Value(sessionKey).(datasource.Session)

	return session
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

func isInternal(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(InternalPingHeader), "true")
}

// originOf returns the peer address of the request without its port.
func originOf(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// statusRecorder captures the response status. It keeps Hijack working for the websocket upgrade.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}

	return hijacker.Hijack()
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

