// Package httpapi is the HTTP transport for the weekly challenges service.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"weekly-challenges/internal/metrics"
	"weekly-challenges/internal/service"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Auth       *service.AuthService
	Challenges *service.ChallengeService
	Days       *service.DayService
	Progress   *service.ProgressService
	Metrics    *metrics.Metrics
	Log        logrus.FieldLogger

	// AllowedOrigins is the CORS allow-list; "*" allows every origin.
	AllowedOrigins []string
	// Ping reports storage health for /healthz. Nil means always healthy.
	Ping func(context.Context) error
	// Now defaults to time.Now.
	Now func() time.Time
}

type server struct {
	Deps
	validate *validator.Validate
	cors     *corsPolicy
}

// NewRouter builds the full handler chain: CORS, request observation, routing
// and bearer authentication for the /challenges tree.
func NewRouter(deps Deps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	s := &server{
		Deps:     deps,
		validate: newValidator(),
		cors:     newCORSPolicy(deps.AllowedOrigins),
	}

	r := mux.NewRouter()
	r.Use(s.observe)
	r.NotFoundHandler = s.observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	}))
	r.MethodNotAllowedHandler = s.observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	}))

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.Metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)

	api := r.PathPrefix("/challenges").Subrouter()
	api.Use(s.requireUser)
	api.HandleFunc("", s.handleCreateChallenge).Methods(http.MethodPost)
	api.HandleFunc("", s.handleListChallenges).Methods(http.MethodGet)
	api.HandleFunc("/current", s.handleCurrentChallenge).Methods(http.MethodGet)
	api.HandleFunc("/{id}/days", s.handleGetDays).Methods(http.MethodGet)
	api.HandleFunc("/{id}/days/{day_index}", s.handleUpdateDay).Methods(http.MethodPut)
	api.HandleFunc("/{id}/summary", s.handleSummary).Methods(http.MethodGet)

	return s.cors.wrap(r)
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Weekly Challenges API is running!"})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			logFor(r, s.Log).WithError(err).Warn("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
