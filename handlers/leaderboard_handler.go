package handlers

import (
	"net/http"

	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/services"
)

// legacySeason is the archived 2025 competition, 27 regular rounds.
const (
	legacySeason        = 2025
	legacySeasonRounds  = 27
	currentSeasonRounds = 31
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
	gamesService       services.GamesService
}

func NewLeaderboardHandler(
	ls services.LeaderboardService,
	gs services.GamesService,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: ls,
		gamesService:       gs,
	}
}

// GetLeaderboard serves the standings at a round cutoff, defaulting to the
// most recent closed round.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	defaultRound, err := h.gamesService.MostRecentClosedRound(r.Context(), models.CurrentSeason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	round, err := roundQueryParam(r, defaultRound, 1, currentSeasonRounds)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if round < 1 {
		// Nothing has closed yet and no explicit round was asked for.
		response := jsonResponse{"round": 0, "leaderboard": []models.LeaderboardRow{}}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	board, err := h.leaderboardService.LeaderboardAt(r.Context(), models.CurrentSeason, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"round": round, "leaderboard": board}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLegacyLeaderboard serves the archived 2025 board, defaulting to the
// final regular round.
func (h *LeaderboardHandler) GetLegacyLeaderboard(w http.ResponseWriter, r *http.Request) {
	round, err := roundQueryParam(r, legacySeasonRounds, 1, legacySeasonRounds)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.leaderboardService.LeaderboardAt(r.Context(), legacySeason, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"round": round, "leaderboard": board}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
