package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"weekly-challenges/internal/model"
)

type contextKey int

const (
	requestInfoKey contextKey = iota
	userKey
)

const requestIDHeader = "X-Request-ID"

// requestInfo is shared by every layer of one request so the final log line
// can include the authenticated user.
type requestInfo struct {
	id     string
	userID uint
	log    logrus.FieldLogger
}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey).(*requestInfo)
	return info
}

// currentUser is set by requireUser; handlers behind it can rely on it.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userKey).(*model.User)
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// observe assigns a request ID, then logs and measures the request.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.Now()
		done := s.Metrics.RequestStarted()
		defer done()

		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		info := &requestInfo{id: id, log: s.Log.WithField("request_id", id)}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)))

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := s.Now().Sub(start)
		s.Metrics.ObserveRequest(r.Method, route, rec.status, elapsed)

		fields := logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"route":    route,
			"status":   rec.status,
			"duration": elapsed.String(),
		}
		if info.userID != 0 {
			fields["user_id"] = info.userID
		}
		entry := info.log.WithFields(fields)
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request")
		} else {
			entry.Info("request")
		}
	})
}

// requireUser resolves the bearer token to a user before any challenge
// operation runs. Requests without a resolvable user never reach next.
func (s *server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		user, err := s.Auth.Authenticate(r.Context(), token)
		if err != nil {
			logFor(r, s.Log).WithError(err).Debug("bearer authentication failed")
			s.fail(w, r, err, "")
			return
		}

		if info := requestInfoFrom(r.Context()); info != nil {
			info.userID = user.ID
			info.log = info.log.WithField("user_id", user.ID)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// corsPolicy answers preflights and decorates responses for allowed origins.
type corsPolicy struct {
	allowed  map[string]bool
	allowAll bool
}

func newCORSPolicy(origins []string) *corsPolicy {
	p := &corsPolicy{allowed: make(map[string]bool, len(origins))}
	for _, origin := range origins {
		if origin == "*" {
			p.allowAll = true
		}
		p.allowed[origin] = true
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	return origin != "" && (p.allowAll || p.allowed[origin])
}

func (p *corsPolicy) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := p.allows(origin)
		if allowed {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Set("Access-Control-Max-Age", "600")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
