package kit

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"Bookshelf/internal/apperr"
)

// MessageResponse is the body of every confirmation and every failure.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteFailure answers with the status of err's kind. Errors outside the
// apperr taxonomy are logged and reported as a generic 500.
func WriteFailure(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	WriteFailureStatus(w, r, log, apperr.KindOf(err).HTTPStatus(), err)
}

// WriteFailureStatus is WriteFailure with a fixed status for taxonomy errors.
func WriteFailureStatus(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		if log != nil {
			log.Error("request failed",
				zap.Error(err),
				zap.String("request_id", RequestID(r)),
				zap.String("path", r.URL.Path),
			)
		}
		WriteMessage(w, http.StatusInternalServerError, apperr.Message(err))
		return
	}
	WriteMessage(w, status, apperr.Message(err))
}
