package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pitchside/league-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"Alpha"}`, ""},
		{"empty body", ``, "body must not be empty"},
		{"malformed", `{"name":`, "badly-formed JSON"},
		{"unknown field", `{"nickname":"x"}`, "unknown key"},
		{"wrong type", `{"name":7}`, "incorrect JSON type for field"},
		{"trailing value", `{"name":"a"}{"name":"b"}`, "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			err := readJSON(w, r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Alpha", dst.Name)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrEmailConflict, http.StatusConflict},
		{services.ErrEntryConflict, http.StatusConflict},
		{services.ErrPenaltiesRequired, http.StatusUnprocessableEntity},
		{services.ErrScorerNotInMatch, http.StatusUnprocessableEntity},
		{services.ErrLastAdmin, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", services.ErrStatusTransition), http.StatusUnprocessableEntity},
		{services.ErrInvalidCredentials, http.StatusBadRequest},
		{services.ErrNotTournamentAdmin, http.StatusForbidden},
		{fmt.Errorf("some database failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(w, r, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
