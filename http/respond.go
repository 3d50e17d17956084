package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"capstack/domain"
	"capstack/repository"
	"capstack/service"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("http: encoding response", "err", err)
	}
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// writeServiceError maps an error returned by a service to a status code.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		jsonResp(w, http.StatusBadRequest, errorResponse{
			Error:  invalid.Error(),
			Field:  invalid.Field,
			Reason: invalid.Reason,
		})
	case errors.Is(err, repository.ErrNotFound):
		jsonErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoFeasibleTerm):
		jsonErr(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("http: request failed", "err", err)
		jsonErr(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into v. Type mismatches surface as
// InvalidInputError for the offending field; anything else unreadable is a
// plain error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.WrongType(typeErr.Field, "expected "+typeErr.Type.String()+", got "+typeErr.Value)
	}
	if errors.Is(err, io.EOF) {
		return errors.New("empty request body")
	}
	return errors.New("invalid request body")
}

// decodeOrReject decodes the body and writes a 400 response on failure.
func decodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) {
			writeServiceError(w, err)
		} else {
			jsonErr(w, http.StatusBadRequest, err.Error())
		}
		return false
	}
	return true
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
