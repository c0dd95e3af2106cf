// internal/controller/respond.go
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appErrors "github.com/unclebandit/smsleopard-otp/internal/errors"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorMessage = "internal server error"

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto status codes. Unexpected errors
// are logged in full and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, appErrors.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, appErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, appErrors.ErrValidation),
		errors.Is(err, appErrors.ErrDuplicateRegistration),
		errors.Is(err, appErrors.ErrAlreadyVerified),
		errors.Is(err, appErrors.ErrCodeExpired),
		errors.Is(err, appErrors.ErrInvalidCode):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("❌ request failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// decodeAndValidate reads a JSON body into req and runs its validate tags.
func decodeAndValidate(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return appErrors.NewValidation("Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
		return appErrors.NewValidation("%s", strings.Join(fields, ", "))
	}
	return nil
}

// campaignID parses the {id} path parameter. A malformed id cannot name an
// existing campaign, so it is reported as not found.
func campaignID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.NewCampaignNotFound(raw)
	}
	return id, nil
}
