package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Bookshelf/internal/apperr"
	"Bookshelf/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Get("/", s.list)
	r.Get("/isbn/{isbn}", s.byISBN)
	r.Get("/author/{author}", s.byAuthor)
	r.Get("/title/{title}", s.byTitle)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	books, err := s.Store.All(r.Context())
	if err != nil {
		kit.WriteFailure(w, r, s.Log, apperr.Internal("Error fetching books", err))
		return
	}
	kit.WriteJSON(w, http.StatusOK, books)
}

func (s *Server) byISBN(w http.ResponseWriter, r *http.Request) {
	isbn := kit.PathParam(r, "isbn")

	b, ok, err := s.Store.Get(r.Context(), isbn)
	if err != nil {
		kit.WriteFailure(w, r, s.Log, apperr.Internal("Error fetching books", err))
		return
	}
	if !ok {
		kit.WriteFailure(w, r, s.Log, apperr.NotFound("No book found with ISBN "+isbn))
		return
	}
	kit.WriteJSON(w, http.StatusOK, b)
}

func (s *Server) byAuthor(w http.ResponseWriter, r *http.Request) {
	author := kit.PathParam(r, "author")
	s.writeMatches(w, r, "author", author, s.Store.ByAuthor)
}

func (s *Server) byTitle(w http.ResponseWriter, r *http.Request) {
	title := kit.PathParam(r, "title")
	s.writeMatches(w, r, "title", title, s.Store.ByTitle)
}

// writeMatches answers 404 for an empty result rather than an empty array.
func (s *Server) writeMatches(
	w http.ResponseWriter,
	r *http.Request,
	field, value string,
	find func(context.Context, string) ([]Book, error),
) {
	books, err := find(r.Context(), value)
	if err != nil {
		kit.WriteFailure(w, r, s.Log, apperr.Internal("Error fetching books", err))
		return
	}
	if len(books) == 0 {
		kit.WriteFailure(w, r, s.Log, apperr.NotFound("No book found with "+field+" "+value))
		return
	}
	kit.WriteJSON(w, http.StatusOK, books)
}
