package models

import "time"

// CurrentSeason is the season all new tips and fixture refreshes belong to.
const CurrentSeason = 2026

// RoundStatus представляет статус раунда относительно текущего времени.
type RoundStatus string

const (
	RoundUpcoming   RoundStatus = "upcoming"
	RoundInProgress RoundStatus = "in_progress"
	RoundClosed     RoundStatus = "closed"
)

// Game is one fixture. Scores stay nil until the game is final; once both
// are set the game counts as resulted.
type Game struct {
	Season    int       `json:"season"`
	Round     int       `json:"round"`
	Kickoff   time.Time `json:"kickoff"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Venue     string    `json:"venue"`
	HomeScore *int      `json:"home_score"`
	AwayScore *int      `json:"away_score"`
}

// Resulted reports whether both final scores are recorded.
func (g Game) Resulted() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// WinningTeam returns the winner's name, or "Draw" for a tie. The second
// return is false while the game is unresulted.
func (g Game) WinningTeam() (string, bool) {
	if !g.Resulted() {
		return "", false
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return g.HomeTeam, true
	case *g.AwayScore > *g.HomeScore:
		return g.AwayTeam, true
	default:
		return "Draw", true
	}
}

// GameResult is one side's view of a resulted game. Two of these are derived
// per game, one per team. Never persisted, always recomputed from games.
type GameResult struct {
	Season       int    `json:"season"`
	Round        int    `json:"round"`
	Team         string `json:"team"`
	Opponent     string `json:"opponent"`
	Home         bool   `json:"home"`
	ScoreFor     int    `json:"score_for"`
	ScoreAgainst int    `json:"score_against"`
	Margin       int    `json:"margin"`
}
