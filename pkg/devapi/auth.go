package devapi

import (
	"errors"
	"net/http"
	"strings"

	"fundspark/pkg/models"
	"fundspark/pkg/store"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.log.Error().Err(err).Msg("look up user")
		s.message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.signInResult(w, http.StatusUnauthorized, MsgInvalidCredentials, false)
		return
	}
	s.signInResult(w, http.StatusOK, MsgLoginSuccessful, true)
}

func (s *Server) signInResult(w http.ResponseWriter, code int, msg string, ok bool) {
	s.json(w, code, messageResponse{Message: msg, Success: &ok})
}

func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !s.decode(w, r, &req) {
		return
	}
	fullName := strings.TrimSpace(req.FullName)
	email := store.NormalizeEmail(req.Email)
	if fullName == "" || req.Password == "" || !strings.Contains(email, "@") || strings.HasPrefix(email, "@") {
		s.message(w, http.StatusBadRequest, "Please provide your full name, a valid email and a password.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		s.log.Error().Err(err).Msg("hash password")
		s.message(w, http.StatusBadRequest, "Please choose a shorter password.")
		return
	}

	_, err = s.store.CreateUser(r.Context(), models.User{FullName: fullName, Email: email, PasswordHash: string(hash)})
	switch {
	case errors.Is(err, store.ErrConflict):
		s.message(w, http.StatusConflict, MsgUserExists)
		return
	case err != nil:
		s.log.Error().Err(err).Msg("create user")
		s.message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	s.message(w, http.StatusCreated, MsgUserRegistered)
}
