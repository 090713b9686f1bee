package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Bookshelf/internal/apperr"
	"Bookshelf/pkg/kit"
)

const (
	msgRegistered     = "User successfully registered. Now you can login"
	msgCannotRegister = "Unable to register user."
	msgUserExists     = "User already exists!"
)

type Server struct {
	Directory Directory
	Log       *zap.Logger

	// RegisterLimit, when set, throttles POST /register.
	RegisterLimit func(http.Handler) http.Handler
}

func (s *Server) Register(r chi.Router) {
	if s.RegisterLimit != nil {
		r.With(s.RegisterLimit).Post("/register", s.handleRegister)
		return
	}
	r.Post("/register", s.handleRegister)
}

type registerReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteFailure(w, r, s.Log, apperr.Wrap(apperr.KindValidation, msgCannotRegister, err))
		return
	}
	if _, err := kit.Validate(req); err != nil {
		kit.WriteFailure(w, r, s.Log, apperr.Wrap(apperr.KindValidation, msgCannotRegister, err))
		return
	}

	if err := s.Directory.Register(r.Context(), req.Username, req.Password); err != nil {
		kit.WriteFailure(w, r, s.Log, registerError(err))
		return
	}

	if s.Log != nil {
		s.Log.Info("user registered", zap.String("username", req.Username))
	}
	kit.WriteMessage(w, http.StatusOK, msgRegistered)
}

func registerError(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrPasswordTooLong):
		return apperr.Wrap(apperr.KindValidation, msgCannotRegister, err)
	case errors.Is(err, ErrUserExists):
		return apperr.Conflict(msgUserExists)
	default:
		return apperr.Internal(msgCannotRegister, err)
	}
}
