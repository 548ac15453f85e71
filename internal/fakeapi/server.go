// Package fakeapi provides an in-process fake of the QuizDesk admin backend
// for integration tests. It serves the dashboard's JSON API over HTTP with
// seeded data, paginated list envelopes, and failure injection, so SDK
// behavior can be exercised end to end without a real backend.
//
// Failure injection is per route pattern: a stub response registered with
// Fail replaces the real handler until cleared, which is how tests drive
// the error extraction and rollback paths.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/quizdesk/quizdesk-go/pkg/models"
)

// Credentials accepted by the login endpoint.
const (
	AdminEmail    = "admin@quizdesk.io"
	AdminPassword = "changeme123"

	// OTP accepted by the verify endpoints.
	ValidOTP = "123456"
)

// PageSize is the fixed page length of every list endpoint.
const PageSize = 10

type stub struct {
	status int
	body   any
}

// Server is the fake backend. Create one with New, then Start it (or mount
// Handler yourself). All methods are safe for concurrent use.
type Server struct {
	mu sync.Mutex

	users    []models.User
	quizzes  []models.ContentItem
	cards    []models.ContentItem
	plans    []models.SubscriptionPlan
	feedback []models.FeedbackEntry
	policy   models.PrivacyPolicy
	admin    models.Account
	password string

	nextID      int64
	accessToken string
	latency     time.Duration
	stubs       map[string]stub
	counters    map[string]int

	ts *httptest.Server
}

// New returns a Server seeded with the default fixture data.
func New() *Server {
	s := &Server{
		stubs:    make(map[string]stub),
		counters: make(map[string]int),
	}
	s.seed()
	return s
}

// Start serves the API on an ephemeral port and returns its base URL.
// Callers must Close the server.
func (s *Server) Start() string {
	s.ts = httptest.NewServer(s.Handler())
	return s.ts.URL
}

// Close shuts the HTTP listener down.
func (s *Server) Close() {
	if s.ts != nil {
		s.ts.Close()
	}
}

// Fail registers a stub response for a route pattern, e.g.
// "POST /dashboard/users/{id}/toggle-block/". Until cleared, matching
// requests answer with the given status and JSON body instead of the real
// handler.
func (s *Server) Fail(route string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs[route] = stub{status: status, body: body}
}

// ClearFailures removes every registered stub.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = make(map[string]stub)
}

// SetLatency delays every request by d. Used to provoke superseded fetches.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Requests returns how many times the route pattern was hit, stubbed or not.
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[route]
}

// AccessToken returns the token issued by the last successful login.
func (s *Server) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Handler builds the router. Exposed so tests can mount the fake under a
// prefix or wrap it in extra middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/auth/login/", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout/", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/forgot-password/", s.handleForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-otp/", s.handleVerifyOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/reset-password/", s.handleResetPassword).Methods(http.MethodPost)

	p := r.NewRoute().Subrouter()
	p.Use(s.requireAuth)
	p.HandleFunc("/dashboard/", s.handleDashboard).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/analytics/", s.handleAnalytics).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/users/", s.handleUsers).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/users/{id}/toggle-block/", s.handleToggleBlock).Methods(http.MethodPost)
	p.HandleFunc("/dashboard/quizzes/", s.handleContent(&s.quizzes)).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/quizzes/{id}/", s.handleContentDelete(&s.quizzes)).Methods(http.MethodDelete)
	p.HandleFunc("/dashboard/flashcards/", s.handleContent(&s.cards)).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/flashcards/{id}/", s.handleContentDelete(&s.cards)).Methods(http.MethodDelete)
	p.HandleFunc("/dashboard/plans/", s.handlePlans).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/plans/", s.handlePlanCreate).Methods(http.MethodPost)
	p.HandleFunc("/dashboard/plans/{id}/", s.handlePlanUpdate).Methods(http.MethodPut)
	p.HandleFunc("/dashboard/plans/{id}/", s.handlePlanDelete).Methods(http.MethodDelete)
	p.HandleFunc("/dashboard/subscriptions/stats/", s.handleSubscriptionStats).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/subscriptions/recent/", s.handleRecentSubscriptions).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/feedback/", s.handleFeedback).Methods(http.MethodGet)
	p.HandleFunc("/dashboard/feedback/{id}/respond/", s.handleRespond).Methods(http.MethodPost)
	p.HandleFunc("/dashboard/change-email/request/", s.handleEmailChangeRequest).Methods(http.MethodPost)
	p.HandleFunc("/dashboard/change-email/verify/", s.handleEmailChangeVerify).Methods(http.MethodPost)
	p.HandleFunc("/privacy-policy/", s.handlePolicyGet).Methods(http.MethodGet)
	p.HandleFunc("/privacy-policy/", s.handlePolicyPut).Methods(http.MethodPut)
	p.HandleFunc("/me/", s.handleProfileUpdate).Methods(http.MethodPatch)
	p.HandleFunc("/me/password/change/", s.handlePasswordChange).Methods(http.MethodPost)

	r.Use(s.instrument)
	return r
}

// instrument counts hits, applies latency and serves stubbed failures.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = r.Method + " " + tpl
			}
		}

		s.mu.Lock()
		s.counters[route]++
		st, stubbed := s.stubs[route]
		delay := s.latency
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if stubbed {
			writeJSON(w, st.status, st.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.accessToken
		s.mu.Unlock()
		if token == "" || r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// paginate slices items into the DRF envelope for the requested page.
func paginate[T any](r *http.Request, items []T) map[string]any {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	total := len(items)
	start := (page - 1) * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	pageURL := func(p int) *string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(p))
		u := r.URL.Path + "?" + q.Encode()
		return &u
	}
	var next, prev *string
	if end < total {
		next = pageURL(page + 1)
	}
	if page > 1 {
		prev = pageURL(page - 1)
	}
	return map[string]any{
		"count":    total,
		"next":     next,
		"previous": prev,
		"results":  items[start:end],
	}
}

func (s *Server) issueToken() string {
	s.accessToken = uuid.NewString()
	return s.accessToken
}

func errDetail(format string, args ...any) map[string]string {
	return map[string]string{"detail": fmt.Sprintf(format, args...)}
}
