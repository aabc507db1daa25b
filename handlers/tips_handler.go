package handlers

import (
	"net/http"

	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/services"
)

type TipsHandler struct {
	tipsService        services.TipsService
	statsService       services.StatsService
	leaderboardService services.LeaderboardService
}

func NewTipsHandler(
	ts services.TipsService,
	ss services.StatsService,
	ls services.LeaderboardService,
) *TipsHandler {
	return &TipsHandler{
		tipsService:        ts,
		statsService:       ss,
		leaderboardService: ls,
	}
}

func (h *TipsHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	tips, err := h.tipsService.TipsForSeason(r.Context(), models.CurrentSeason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"tips": tips}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRoundTips serves the tips-by-round page. Without a round parameter it
// lists the rounds that have closed and can be viewed.
func (h *TipsHandler) GetRoundTips(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("round") == "" {
		rounds, err := h.statsService.ClosedRounds(r.Context())
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		response := jsonResponse{"availableRounds": rounds}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	round, err := roundQueryParam(r, 0, 1, 31)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.statsService.RoundTips(r.Context(), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TipsHandler) GetUserTips(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	view, err := h.leaderboardService.UserTipsView(r.Context(), email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
