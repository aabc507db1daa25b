package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sburman/coal-train-cup/models"
)

func TestAvailableTipsForRound(t *testing.T) {
	kickoff := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	games := []models.Game{
		{Season: 2026, Round: 4, Kickoff: kickoff, HomeTeam: "Broncos", AwayTeam: "Storm"},
		{Season: 2026, Round: 4, Kickoff: kickoff.Add(24 * time.Hour), HomeTeam: "Sharks", AwayTeam: "Raiders"},
		{Season: 2026, Round: 5, Kickoff: kickoff.Add(7 * 24 * time.Hour), HomeTeam: "Panthers", AwayTeam: "Roosters"},
		{Season: 2025, Round: 4, Kickoff: kickoff, HomeTeam: "Eels", AwayTeam: "Titans"},
	}

	tips := AvailableTipsForRound(games, 4, 2026)
	if len(tips) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(tips))
	}

	broncos, ok := tips["Broncos"]
	if !ok {
		t.Fatal("expected Broncos in the candidate set")
	}
	if broncos.Opponent != "Storm" || !broncos.Home || !broncos.AvailableUntil.Equal(kickoff) {
		t.Errorf("unexpected Broncos candidate: %+v", broncos)
	}

	storm := tips["Storm"]
	if storm.Opponent != "Broncos" || storm.Home {
		t.Errorf("unexpected Storm candidate: %+v", storm)
	}

	if _, ok := tips["Panthers"]; ok {
		t.Error("round 5 team must not appear in round 4 candidates")
	}
	if _, ok := tips["Eels"]; ok {
		t.Error("other season's team must not appear in candidates")
	}
}

func TestComputeExclusionsNoPreviousTip(t *testing.T) {
	candidates := map[string]models.AvailableTip{
		"Broncos": {Team: "Broncos", Opponent: "Storm", Home: true},
		"Storm":   {Team: "Storm", Opponent: "Broncos"},
	}
	// Tips on the board, but none for the previous round: a missed week
	// resets every restriction.
	userResults := []models.TipResult{
		{Round: 1, Team: "Broncos", Home: true},
		{Round: 2, Team: "Broncos", Home: true},
		{Round: 3, Team: "Broncos", Home: true},
	}

	excluded := ComputeExclusions(candidates, userResults, 5)
	if len(excluded) != 0 {
		t.Errorf("expected no exclusions without a previous-round tip, got %v", excluded)
	}
}

func TestComputeExclusionsLastRoundRules(t *testing.T) {
	// Last round: tipped Broncos at home against Storm. This round Broncos
	// play Sharks and Storm play Raiders.
	candidates := map[string]models.AvailableTip{
		"Broncos": {Team: "Broncos", Opponent: "Sharks", Home: true},
		"Sharks":  {Team: "Sharks", Opponent: "Broncos"},
		"Raiders": {Team: "Raiders", Opponent: "Storm", Home: true},
		"Storm":   {Team: "Storm", Opponent: "Raiders"},
	}
	userResults := []models.TipResult{
		{Round: 3, Team: "Broncos", Opponent: "Storm", Home: true},
	}

	excluded := ComputeExclusions(candidates, userResults, 3)

	reasons, ok := excluded["Broncos"]
	if !ok || len(reasons) != 1 || reasons[0].Code != models.ReasonLastRoundTip {
		t.Errorf("expected Broncos excluded as last round tip, got %v", reasons)
	}

	reasons, ok = excluded["Raiders"]
	if !ok || len(reasons) != 1 || reasons[0].Code != models.ReasonOpponentOfLastTip {
		t.Fatalf("expected Raiders excluded for playing the previous opponent, got %v", reasons)
	}
	if got := reasons[0].Display(); got != "Playing last round tip's opponent Storm" {
		t.Errorf("unexpected display text: %q", got)
	}

	if _, ok := excluded["Sharks"]; ok {
		t.Error("Sharks should be tippable")
	}
	if _, ok := excluded["Storm"]; ok {
		t.Error("Storm itself should be tippable")
	}
}

func TestComputeExclusionsTeamQuota(t *testing.T) {
	candidates := map[string]models.AvailableTip{
		"Broncos": {Team: "Broncos", Opponent: "Sharks", Home: true},
		"Sharks":  {Team: "Sharks", Opponent: "Broncos"},
	}
	userResults := []models.TipResult{
		{Round: 2, Team: "Broncos", Home: true},
		{Round: 5, Team: "Broncos"},
		{Round: 9, Team: "Broncos", Home: true},
		{Round: 9, Team: "Sharks"}, // dedupe happens upstream; counts stay per row here
		{Round: 10, Team: "Raiders", Opponent: "Storm"},
	}

	excluded := ComputeExclusions(candidates, userResults, 10)

	found := false
	for _, r := range excluded["Broncos"] {
		if r.Code == models.ReasonTeamTipLimit && r.Count == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Broncos excluded at the per-team quota, got %v", excluded["Broncos"])
	}
	if got := (models.ExclusionReason{Code: models.ReasonTeamTipLimit, Count: 3}).Display(); got != "Team already tipped 3 times" {
		t.Errorf("unexpected display text: %q", got)
	}
}

func TestComputeExclusionsHomeQuotaSkipsMagicRound(t *testing.T) {
	candidates := map[string]models.AvailableTip{
		"Broncos": {Team: "Broncos", Opponent: "Sharks", Home: true},
		"Sharks":  {Team: "Sharks", Opponent: "Broncos"},
	}

	// Thirteen home tips counted, plus one more in the magic round that
	// must not count.
	userResults := make([]models.TipResult, 0, 15)
	teams := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M"}
	round := 1
	for _, team := range teams {
		if round == MagicRound {
			round++
		}
		userResults = append(userResults, models.TipResult{Round: round, Team: team, Home: true})
		round++
	}
	userResults = append(userResults, models.TipResult{Round: MagicRound, Team: "N", Home: true})
	previousRound := userResults[len(userResults)-2].Round

	// The previous-round tip is team M, not a candidate, so only the home
	// quota should hit Broncos.
	excluded := ComputeExclusions(candidates, userResults, previousRound)

	foundHome := false
	for _, r := range excluded["Broncos"] {
		if r.Code == models.ReasonHomeTipLimit && r.Count == MaxHomeAwayTips {
			foundHome = true
		}
	}
	if !foundHome {
		t.Errorf("expected Broncos excluded at the home quota, got %v", excluded["Broncos"])
	}
	for _, r := range excluded["Sharks"] {
		if r.Code == models.ReasonAwayTipLimit {
			t.Errorf("away quota should not be reached: %v", excluded["Sharks"])
		}
	}
}

func TestExclusionsPartitionCandidates(t *testing.T) {
	kickoff := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	games := []models.Game{
		{Season: 2026, Round: 4, Kickoff: kickoff, HomeTeam: "Broncos", AwayTeam: "Sharks"},
		{Season: 2026, Round: 4, Kickoff: kickoff, HomeTeam: "Raiders", AwayTeam: "Storm"},
		{Season: 2026, Round: 4, Kickoff: kickoff, HomeTeam: "Panthers", AwayTeam: "Roosters"},
	}
	candidates := AvailableTipsForRound(games, 4, 2026)
	userResults := []models.TipResult{
		{Round: 3, Team: "Broncos", Opponent: "Storm", Home: true},
	}

	excluded := ComputeExclusions(candidates, userResults, 3)

	// Every candidate is either excluded or tippable, never both, and
	// together they cover the whole round.
	tippable := 0
	for team := range candidates {
		if _, ok := excluded[team]; !ok {
			tippable++
		}
	}
	if tippable+countExcludedCandidates(candidates, excluded) != len(candidates) {
		t.Errorf("exclusions and available tips do not partition the candidate set")
	}
	if tippable != 4 {
		t.Errorf("expected 4 tippable teams, got %d", tippable)
	}
}

func countExcludedCandidates(candidates map[string]models.AvailableTip, excluded map[string][]models.ExclusionReason) int {
	n := 0
	for team := range candidates {
		if _, ok := excluded[team]; ok {
			n++
		}
	}
	return n
}

func TestValidateTip(t *testing.T) {
	kickoff := time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)
	user := &models.User{Email: "alice@example.com", Username: "Alice"}
	tip := models.AvailableTip{
		Season: 2026, Round: 4, Team: "Broncos", Opponent: "Storm",
		Home: true, AvailableUntil: kickoff,
	}

	tests := []struct {
		name     string
		tippedAt time.Time
		wantErr  error
	}{
		{name: "before kickoff", tippedAt: kickoff.Add(-time.Hour)},
		{name: "inside the grace period", tippedAt: kickoff.Add(9 * time.Minute)},
		{name: "at the grace boundary", tippedAt: kickoff.Add(10 * time.Minute)},
		{name: "after the grace period", tippedAt: kickoff.Add(11 * time.Minute), wantErr: ErrTipKickedOff},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			userTip, err := ValidateTip(user, tip, tc.tippedAt)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if userTip.Email != user.Email || userTip.Team != "Broncos" || !userTip.TippedAt.Equal(tc.tippedAt) {
				t.Errorf("unexpected tip: %+v", userTip)
			}
		})
	}
}
