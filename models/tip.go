package models

import (
	"fmt"
	"time"
)

// UserTip is a submitted pick. Append-only: a resubmission for the same
// round supersedes the old row at aggregation time, nothing is deleted.
type UserTip struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Season   int       `json:"season"`
	Round    int       `json:"round"`
	Team     string    `json:"team"`
	Opponent string    `json:"opponent"`
	Home     bool      `json:"home"`
	TippedAt time.Time `json:"tipped_at"`
}

// AvailableTip is a candidate pick for the open round, one per team playing.
type AvailableTip struct {
	Season         int       `json:"season"`
	Round          int       `json:"round"`
	Team           string    `json:"team"`
	Opponent       string    `json:"opponent"`
	Home           bool      `json:"home"`
	AvailableUntil time.Time `json:"available_until"`
}

// ReasonCode tags why a team cannot be tipped this round.
type ReasonCode string

const (
	ReasonLastRoundTip      ReasonCode = "last_round_tip"
	ReasonOpponentOfLastTip ReasonCode = "opponent_of_last_tip"
	ReasonTeamTipLimit      ReasonCode = "team_tip_limit"
	ReasonHomeTipLimit      ReasonCode = "home_tip_limit"
	ReasonAwayTipLimit      ReasonCode = "away_tip_limit"
)

// ExclusionReason is one rule violation for one team. Opponent and Count
// carry the rule's parameters so the display text can be rebuilt anywhere.
type ExclusionReason struct {
	Code     ReasonCode `json:"code"`
	Opponent string     `json:"opponent,omitempty"`
	Count    int        `json:"count,omitempty"`
}

// Display renders the reason the way the tipping page shows it.
func (r ExclusionReason) Display() string {
	switch r.Code {
	case ReasonLastRoundTip:
		return "Last round tip"
	case ReasonOpponentOfLastTip:
		return fmt.Sprintf("Playing last round tip's opponent %s", r.Opponent)
	case ReasonTeamTipLimit:
		return fmt.Sprintf("Team already tipped %d times", r.Count)
	case ReasonHomeTipLimit:
		return fmt.Sprintf("Already tipped %d home teams", r.Count)
	case ReasonAwayTipLimit:
		return fmt.Sprintf("Already tipped %d away teams", r.Count)
	default:
		return string(r.Code)
	}
}

// UnavailableTeam lists every rule a team tripped. A team can carry more
// than one reason.
type UnavailableTeam struct {
	Team    string            `json:"team"`
	Reasons []ExclusionReason `json:"reasons"`
}

// TipResult is a tip joined with its game result. Tips whose game has no
// result yet produce no TipResult.
type TipResult struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Season   int       `json:"season"`
	Round    int       `json:"round"`
	Team     string    `json:"team"`
	Opponent string    `json:"opponent"`
	Home     bool      `json:"home"`
	TippedAt time.Time `json:"tipped_at"`
	Margin   int       `json:"margin"`
	Win      bool      `json:"win"`
	Draw     bool      `json:"draw"`
	Loss     bool      `json:"loss"`
	Points   int       `json:"points"`
}

// LeaderboardRow is one user's aggregated standing at a round cutoff.
type LeaderboardRow struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	TipsCount int    `json:"tips_count"`
	Points    int    `json:"points"`
	Margin    int    `json:"margin"`
	Position  int    `json:"position"`
}

// RoundPosition is one point of a user's rank trajectory.
type RoundPosition struct {
	Round    int `json:"round"`
	Position int `json:"position"`
}

// UserShieldTip is a Siliva Shield finals pick.
type UserShieldTip struct {
	Email      string    `json:"email"`
	Season     int       `json:"season"`
	Round      int       `json:"round"`
	Team       string    `json:"team"`
	Tryscorer  string    `json:"tryscorer"`
	MatchTotal *int      `json:"match_total"`
	TippedAt   time.Time `json:"tipped_at"`
}
