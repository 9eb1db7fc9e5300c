package handlers

import (
	"net/http"

	"github.com/pitchside/league-system/middleware"
	"github.com/pitchside/league-system/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), callerID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Join(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		InviteCode string `json:"invite_code"`
		TeamID     int    `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.JoinByCode(r.Context(), callerID, input.InviteCode, input.TeamID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		TeamCodeOrID string `json:"team_code_or_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.AddTeam(r.Context(), tournamentID, callerID, input.TeamCodeOrID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	matches, err := h.tournamentService.GenerateSchedule(r.Context(), tournamentID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	scope := services.StandingsScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = services.ScopeLeague
	}

	table, err := h.tournamentService.Standings(r.Context(), tournamentID, scope)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	file, header, err := logoFormFile(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadLogo(r.Context(), tournamentID, callerID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
