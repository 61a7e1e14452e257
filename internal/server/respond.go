package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}

	msg := errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "id", middleware.GetReqID(r.Context()), "err", err)
		if code == errs.ErrCodeInternal || code == errs.ErrCodeStorage {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errs.GetCode(err) != "" {
			return err
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}
