package handlers

import (
	"errors"
	"net/http"

	"github.com/sburman/coal-train-cup/services"
)

type ShieldHandler struct {
	shieldService services.ShieldService
}

func NewShieldHandler(ss services.ShieldService) *ShieldHandler {
	return &ShieldHandler{
		shieldService: ss,
	}
}

func (h *ShieldHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	round, err := roundQueryParam(r, 31, services.FirstShieldRound, 31)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.shieldService.PlayersInRound(r.Context(), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"round": round, "players": players}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ShieldHandler) SubmitTip(w http.ResponseWriter, r *http.Request) {
	var input services.ShieldTipInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tip, err := h.shieldService.SubmitTip(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"ok": true, "tip": tip}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ShieldHandler) GetWinners(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("round") == "" {
		badRequestResponse(w, r, errors.New("missing round parameter"))
		return
	}
	round, err := roundQueryParam(r, 0, services.FirstShieldRound, 31)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	winners, err := h.shieldService.Winners(r.Context(), round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"round": round, "winners": winners}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
