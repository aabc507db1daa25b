package services

import (
	"sort"
	"time"

	"github.com/sburman/coal-train-cup/models"
)

// roundInProgressWindow is how long after kickoff a game still counts as in
// progress.
const roundInProgressWindow = 3 * time.Hour

// RoundStatusesFromGames classifies every round present in games at the
// reference instant. A round with any not-yet-started game is upcoming even
// if its other games are under way or done; otherwise a round with any game
// inside the in-progress window is in_progress; everything else is closed.
func RoundStatusesFromGames(games []models.Game, now time.Time) map[int]models.RoundStatus {
	byRound := make(map[int][]models.Game)
	for _, g := range games {
		byRound[g.Round] = append(byRound[g.Round], g)
	}

	statuses := make(map[int]models.RoundStatus, len(byRound))
	for round, roundGames := range byRound {
		anyFuture := false
		anyInProgress := false
		for _, g := range roundGames {
			if g.Kickoff.After(now) {
				anyFuture = true
			} else if now.Before(g.Kickoff.Add(roundInProgressWindow)) {
				anyInProgress = true
			}
		}
		switch {
		case anyFuture:
			statuses[round] = models.RoundUpcoming
		case anyInProgress:
			statuses[round] = models.RoundInProgress
		default:
			statuses[round] = models.RoundClosed
		}
	}
	return statuses
}

// ClosedRounds returns the closed round numbers in ascending order.
func ClosedRounds(statuses map[int]models.RoundStatus) []int {
	closed := make([]int, 0)
	for round, status := range statuses {
		if status == models.RoundClosed {
			closed = append(closed, round)
		}
	}
	sort.Ints(closed)
	return closed
}

// CurrentTippingRound is the round open for tipping: the one after the
// latest closed round, or round 1 before anything has closed.
func CurrentTippingRound(statuses map[int]models.RoundStatus) int {
	closed := ClosedRounds(statuses)
	if len(closed) == 0 {
		return 1
	}
	return closed[len(closed)-1] + 1
}

// MostRecentClosedRound is the latest closed round, or 0 if none has closed.
func MostRecentClosedRound(statuses map[int]models.RoundStatus) int {
	closed := ClosedRounds(statuses)
	if len(closed) == 0 {
		return 0
	}
	return closed[len(closed)-1]
}
