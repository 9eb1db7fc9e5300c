package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pitchside/league-system/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// idParam parses a numeric URL parameter. Malformed ids read as a missing
// resource, not a bad request.
func idParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// logoFormFile extracts the "logo" part of a multipart upload.
func logoFormFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		return nil, nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		return nil, nil, errors.New("a \"logo\" file part is required")
	}
	return file, header, nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func unprocessableResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

func serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusServiceUnavailable, message)
}

// mapServiceErrorToHTTP translates service-layer errors into HTTP
// responses. Anything unrecognized becomes a generic 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrMatchNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrEmailConflict),
		errors.Is(err, services.ErrMembershipConflict),
		errors.Is(err, services.ErrEntryConflict):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidPosition),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidCardType),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrStatusTransition),
		errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrSameTeam),
		errors.Is(err, services.ErrTeamNotInTournament),
		errors.Is(err, services.ErrPenaltiesRequired),
		errors.Is(err, services.ErrPenaltiesInvalid),
		errors.Is(err, services.ErrScorerNotInMatch),
		errors.Is(err, services.ErrRoleHolderNotMember),
		errors.Is(err, services.ErrMatchAlreadyFinished),
		errors.Is(err, services.ErrLastAdmin):
		unprocessableResponse(w, r, err.Error())

	case errors.Is(err, services.ErrUploadsDisabled):
		serviceUnavailableResponse(w, r, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotTeamAdmin),
		errors.Is(err, services.ErrNotTournamentAdmin):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}
