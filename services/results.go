package services

import "github.com/sburman/coal-train-cup/models"

// BuildGameResults derives two result rows per fully scored game, home side
// first. Games missing either score are skipped entirely. Output order
// follows input order; callers may rely on it for display only.
func BuildGameResults(games []models.Game) []models.GameResult {
	results := make([]models.GameResult, 0, len(games)*2)
	for _, g := range games {
		if !g.Resulted() {
			continue
		}
		results = append(results, models.GameResult{
			Season:       g.Season,
			Round:        g.Round,
			Team:         g.HomeTeam,
			Opponent:     g.AwayTeam,
			Home:         true,
			ScoreFor:     *g.HomeScore,
			ScoreAgainst: *g.AwayScore,
			Margin:       *g.HomeScore - *g.AwayScore,
		})
		results = append(results, models.GameResult{
			Season:       g.Season,
			Round:        g.Round,
			Team:         g.AwayTeam,
			Opponent:     g.HomeTeam,
			Home:         false,
			ScoreFor:     *g.AwayScore,
			ScoreAgainst: *g.HomeScore,
			Margin:       *g.AwayScore - *g.HomeScore,
		})
	}
	return results
}

// GameResultsForRound filters result rows to one round of one season.
func GameResultsForRound(results []models.GameResult, round, season int) []models.GameResult {
	filtered := make([]models.GameResult, 0)
	for _, r := range results {
		if r.Round == round && r.Season == season {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
