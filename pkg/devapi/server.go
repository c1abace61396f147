// Package devapi is a development backend that serves the campaign API the
// front ends talk to.
package devapi

import (
	"encoding/json"
	"net/http"

	"fundspark/pkg/middleware"
	"fundspark/pkg/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Response texts the front ends rely on.
const (
	MsgLoginSuccessful    = "Login successful!"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserRegistered     = "User registered successfully!"
	MsgUserExists         = "User already exists"
	MsgDonationRecorded   = "Donation recorded successfully!"
	MsgCampaignNotFound   = "Campaign not found"
	MsgInvalidPayload     = "Invalid request body"
	MsgInternal           = "Internal server error"
)

// maxBody bounds every JSON request body.
const maxBody = 1 << 20

type Server struct {
	store    store.Store
	log      zerolog.Logger
	hashCost int
}

type Option func(*Server)

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) Option {
	return func(s *Server) { s.hashCost = cost }
}

func New(st store.Store, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{store: st, log: logger, hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with request ids, access logs and recovery.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.HTTPRequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.HTTPLogger(s.log),
	)

	r.Get("/healthz", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", s.ListProjects)
		r.Post("/projects", s.CreateProject)
		r.Post("/donations/{id}", s.CreateDonation)
		r.Post("/auth/signin", s.SignIn)
		r.Post("/auth/signup", s.SignUp)
	})

	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type messageResponse struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
}

func (s *Server) message(w http.ResponseWriter, code int, msg string) {
	s.json(w, code, messageResponse{Message: msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		s.message(w, http.StatusBadRequest, MsgInvalidPayload)
		return false
	}
	return true
}
