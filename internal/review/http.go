package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Bookshelf/internal/apperr"
	"Bookshelf/internal/auth"
	"Bookshelf/internal/catalog"
	"Bookshelf/pkg/kit"
)

const (
	msgInvalidToken   = "Invalid token"
	msgReviewRequired = "Review text is required"
)

type Server struct {
	Books    catalog.Store
	Manager  *Manager
	Verifier *auth.Verifier
	Log      *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Get("/review/{isbn}", s.handleGet)
	r.Put("/review/{isbn}", s.handlePut)
	r.Delete("/review/{isbn}", s.handleDelete)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	isbn := kit.PathParam(r, "isbn")

	reviews, ok, err := s.Books.Reviews(r.Context(), isbn)
	if err != nil {
		kit.WriteFailure(w, r, s.Log, apperr.Internal("Error fetching reviews", err))
		return
	}
	if !ok {
		kit.WriteMessage(w, http.StatusNotFound, "No book found with ISBN "+isbn)
		return
	}
	kit.WriteJSON(w, http.StatusOK, reviews)
}

type putReq struct {
	Review string `json:"review" validate:"required"`
}

// Write endpoints answer every rejection with 400, whatever its kind.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	isbn := kit.PathParam(r, "isbn")

	username, err := s.Verifier.Verify(r.Header.Get("Authorization"))
	if err != nil {
		s.reject(w, r, apperr.Wrap(apperr.KindAuth, msgInvalidToken, err))
		return
	}

	var req putReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		s.reject(w, r, apperr.Wrap(apperr.KindValidation, msgReviewRequired, err))
		return
	}
	if _, err := kit.Validate(req); err != nil {
		s.reject(w, r, apperr.Wrap(apperr.KindValidation, msgReviewRequired, err))
		return
	}

	if err := s.Manager.Add(r.Context(), username, isbn, req.Review); err != nil {
		s.reject(w, r, err)
		return
	}
	kit.WriteMessage(w, http.StatusOK, MsgAdded)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	isbn := kit.PathParam(r, "isbn")

	username, err := s.Verifier.Verify(r.Header.Get("Authorization"))
	if err != nil {
		s.reject(w, r, apperr.Wrap(apperr.KindAuth, msgInvalidToken, err))
		return
	}

	if err := s.Manager.Delete(r.Context(), username, isbn); err != nil {
		s.reject(w, r, err)
		return
	}
	kit.WriteMessage(w, http.StatusOK, MsgDeleted)
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, err error) {
	kit.WriteFailureStatus(w, r, s.Log, http.StatusBadRequest, err)
}
