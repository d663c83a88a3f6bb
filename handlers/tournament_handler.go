package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/services"
)

type TournamentHandler struct {
	responder
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{
		responder:         responder{logger: logger},
		tournamentService: ts,
	}
}

// CreateHandler handles POST /tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, jsonResponse{"tournament": tournament})
}

// ListHandler handles GET /tournaments?status=active
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	status := models.TournamentStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusActive
	}
	list, err := h.tournamentService.ListTournaments(r.Context(), status)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"tournaments": list})
}

// GetByIDHandler handles GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// ApplyResultHandler handles POST /tournaments/{tournamentID}/matches/{matchID}/result
func (h *TournamentHandler) ApplyResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input brackets.Result
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if input.MatchID != "" && input.MatchID != matchID {
		h.badRequest(w, r, errors.New("match_id in body does not match URL"))
		return
	}
	input.MatchID = matchID

	tournament, err := h.tournamentService.ApplyResult(r.Context(), id, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// PlacementsHandler handles POST /tournaments/{tournamentID}/heats/{heatID}/placements
func (h *TournamentHandler) PlacementsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	heatID, err := getIDFromURL(r, "heatID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input struct {
		Placements []string `json:"placements"`
	}
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tournament, err := h.tournamentService.SubmitPlacements(r.Context(), id, services.PlacementsInput{
		HeatID:     heatID,
		Placements: input.Placements,
	})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// PromotePlayoffsHandler handles POST /tournaments/{tournamentID}/playoffs
func (h *TournamentHandler) PromotePlayoffsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	tournament, err := h.tournamentService.PromotePlayoffs(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// StandingsHandler handles GET /tournaments/{tournamentID}/standings?group=2
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	group := -1
	if raw := r.URL.Query().Get("group"); raw != "" {
		group, err = strconv.Atoi(raw)
		if err != nil || group < 0 {
			h.badRequest(w, r, errors.New("group must be a non-negative integer"))
			return
		}
	}

	standings, err := h.tournamentService.Standings(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	if group >= 0 {
		filtered := standings[:0:0]
		for _, gs := range standings {
			if gs.Group == group {
				filtered = append(filtered, gs)
			}
		}
		if len(filtered) == 0 {
			h.errorResponse(w, r, http.StatusNotFound, "group not found")
			return
		}
		standings = filtered
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"standings": standings})
}

// MatchdaysHandler handles GET /tournaments/{tournamentID}/matchdays
func (h *TournamentHandler) MatchdaysHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	matchdays, err := h.tournamentService.Matchdays(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"matchdays": matchdays})
}

// SeasonHandler handles GET /tournaments/{tournamentID}/season
func (h *TournamentHandler) SeasonHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	season, err := h.tournamentService.Season(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"season": season})
}

// OverviewHandler handles GET /tournaments/{tournamentID}/overview
func (h *TournamentHandler) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	overview, err := h.tournamentService.Overview(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"overview": overview})
}
