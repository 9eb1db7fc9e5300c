package handlers

import (
	"net/http"

	"github.com/pitchside/league-system/middleware"
	"github.com/pitchside/league-system/models"
	"github.com/pitchside/league-system/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	team, err := h.teamService.Create(r.Context(), callerID, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		InviteCode string `json:"invite_code"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.JoinByCode(r.Context(), callerID, input.InviteCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		MemberID int `json:"member_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.AddMember(r.Context(), teamID, callerID, input.MemberID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}
	memberID, err := idParam(r, "memberID")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), teamID, callerID, memberID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		MemberID int `json:"member_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.ToggleAdmin(r.Context(), teamID, callerID, input.MemberID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	var input struct {
		MemberID int             `json:"member_id"`
		Role     models.TeamRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.AssignRole(r.Context(), teamID, callerID, input.MemberID, input.Role); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TeamHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	teamID, err := idParam(r, "id")
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

	team, err := h.teamService.UploadLogo(r.Context(), teamID, callerID, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
