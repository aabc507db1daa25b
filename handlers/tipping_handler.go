package handlers

import (
	"net/http"
	"time"

	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/services"
)

type TippingHandler struct {
	tippingService services.TippingService
}

func NewTippingHandler(ts services.TippingService) *TippingHandler {
	return &TippingHandler{
		tippingService: ts,
	}
}

func (h *TippingHandler) GetCurrentRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.tippingService.CurrentRound(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"round": round}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// unavailableReasonView renders exclusion reasons as display text. The
// reason codes stay internal; clients only see the strings.
type unavailableReasonView struct {
	Team    string   `json:"team"`
	Reasons []string `json:"reasons"`
}

func renderUnavailableReasons(teams []models.UnavailableTeam) []unavailableReasonView {
	views := make([]unavailableReasonView, len(teams))
	for i, t := range teams {
		reasons := make([]string, len(t.Reasons))
		for j, reason := range t.Reasons {
			reasons[j] = reason.Display()
		}
		views[i] = unavailableReasonView{Team: t.Team, Reasons: reasons}
	}
	return views
}

// GetMakeTip returns the tipping page payload for a user. Without an email
// it just reports the round currently open for tipping.
func (h *TippingHandler) GetMakeTip(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.GetCurrentRound(w, r)
		return
	}

	payload, err := h.tippingService.MakeTipPayload(r.Context(), email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"currentRound":       payload.CurrentRound,
		"user":               payload.User,
		"previousRoundTip":   payload.PreviousRoundTip,
		"availableTips":      payload.AvailableTips,
		"unavailableReasons": renderUnavailableReasons(payload.UnavailableReasons),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitTipRequest struct {
	Email    string              `json:"email"`
	Tip      models.AvailableTip `json:"tip"`
	TippedAt time.Time           `json:"tipped_at"`
}

func (h *TippingHandler) SubmitTip(w http.ResponseWriter, r *http.Request) {
	var input submitTipRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tippedAt := input.TippedAt
	if tippedAt.IsZero() {
		tippedAt = time.Now().UTC()
	}

	tip, err := h.tippingService.SubmitTip(r.Context(), input.Email, input.Tip, tippedAt)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"ok": true, "tip": tip}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
