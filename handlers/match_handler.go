package handlers

import (
	"net/http"

	"github.com/pitchside/league-system/middleware"
	"github.com/pitchside/league-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// matchScope pulls the caller id and both URL ids shared by every match
// endpoint.
func matchScope(w http.ResponseWriter, r *http.Request) (callerID, tournamentID, matchID int, ok bool) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return 0, 0, 0, false
	}
	tournamentID, err = idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return 0, 0, 0, false
	}
	matchID, err = idParam(r, "matchID")
	if err != nil {
		notFoundResponse(w, r)
		return 0, 0, 0, false
	}
	return callerID, tournamentID, matchID, true
}

func (h *MatchHandler) Add(w http.ResponseWriter, r *http.Request) {
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

	var input services.AddMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.AddMatch(r.Context(), tournamentID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, tournamentID, matchID, ok := matchScope(w, r)
	if !ok {
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateMatch(r.Context(), tournamentID, matchID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, tournamentID, matchID, ok := matchScope(w, r)
	if !ok {
		return
	}

	if err := h.matchService.DeleteMatch(r.Context(), tournamentID, matchID, callerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	callerID, tournamentID, matchID, ok := matchScope(w, r)
	if !ok {
		return
	}

	var input services.UpdateStatusInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.UpdateStatus(r.Context(), tournamentID, matchID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	callerID, tournamentID, matchID, ok := matchScope(w, r)
	if !ok {
		return
	}

	var input services.GoalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	goal, err := h.matchService.RecordGoal(r.Context(), tournamentID, matchID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"goal": goal}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordCard(w http.ResponseWriter, r *http.Request) {
	callerID, tournamentID, matchID, ok := matchScope(w, r)
	if !ok {
		return
	}

	var input services.CardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.matchService.RecordCard(r.Context(), tournamentID, matchID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"card": card}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SetPlayerOfTheMatch(w http.ResponseWriter, r *http.Request) {
	callerID, tournamentID, matchID, ok := matchScope(w, r)
	if !ok {
		return
	}

	var input struct {
		PlayerID int `json:"player_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.SetPlayerOfTheMatch(r.Context(), tournamentID, matchID, callerID, input.PlayerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
