package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/services"
)

type ScoreHandler struct {
	responder
	scoreService services.ScoreService
}

func NewScoreHandler(ss services.ScoreService, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		responder:    responder{logger: logger},
		scoreService: ss,
	}
}

func (h *ScoreHandler) matchRef(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequest(w, r, err)
		return "", "", false
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequest(w, r, err)
		return "", "", false
	}
	return id, matchID, true
}

func (h *ScoreHandler) actor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		h.errorResponse(w, r, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}

// SubmitHandler handles POST /tournaments/{tournamentID}/matches/{matchID}/scores
func (h *ScoreHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	id, matchID, ok := h.matchRef(w, r)
	if !ok {
		return
	}
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var input services.SubmitScoreInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	input.TournamentID = id
	input.MatchID = matchID

	outcome, err := h.scoreService.Submit(r.Context(), actor, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, outcome)
}

// GetHandler handles GET /tournaments/{tournamentID}/matches/{matchID}/scores
func (h *ScoreHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, matchID, ok := h.matchRef(w, r)
	if !ok {
		return
	}
	rec, err := h.scoreService.Get(r.Context(), id, matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, jsonResponse{"reconciliation": rec})
}

// ApproveHandler handles POST /tournaments/{tournamentID}/matches/{matchID}/scores/approve
func (h *ScoreHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	id, matchID, ok := h.matchRef(w, r)
	if !ok {
		return
	}
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	outcome, err := h.scoreService.Approve(r.Context(), actor, id, matchID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, outcome)
}

// ResolveHandler handles POST /tournaments/{tournamentID}/matches/{matchID}/scores/resolve
func (h *ScoreHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	id, matchID, ok := h.matchRef(w, r)
	if !ok {
		return
	}
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var input brackets.Result
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	input.MatchID = matchID

	outcome, err := h.scoreService.Resolve(r.Context(), actor, id, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, outcome)
}
