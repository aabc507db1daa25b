package services

import (
	"testing"
	"time"

	"github.com/sburman/coal-train-cup/models"
)

var tipBase = time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)

func tipFor(email string, round int, team, opponent string, home bool, tippedAt time.Time) models.UserTip {
	return models.UserTip{
		Email:    email,
		Username: email,
		Season:   2026,
		Round:    round,
		Team:     team,
		Opponent: opponent,
		Home:     home,
		TippedAt: tippedAt,
	}
}

func TestDedupeTips(t *testing.T) {
	tips := []models.UserTip{
		tipFor("alice@example.com", 1, "Broncos", "Storm", true, tipBase),
		tipFor("bob@example.com", 1, "Storm", "Broncos", false, tipBase.Add(time.Minute)),
		// Alice changes her mind, different casing on the email.
		tipFor("Alice@Example.com", 1, "Storm", "Broncos", false, tipBase.Add(2*time.Minute)),
		tipFor("alice@example.com", 2, "Sharks", "Raiders", true, tipBase.Add(7*24*time.Hour)),
	}

	deduped := DedupeTips(tips)
	if len(deduped) != 3 {
		t.Fatalf("expected 3 tips after dedupe, got %d", len(deduped))
	}

	// First-appearance order: alice round 1, bob round 1, alice round 2.
	if deduped[0].Team != "Storm" || deduped[0].Round != 1 {
		t.Errorf("expected alice's superseding tip first, got %+v", deduped[0])
	}
	if deduped[1].Email != "bob@example.com" {
		t.Errorf("expected bob second, got %+v", deduped[1])
	}
	if deduped[2].Round != 2 || deduped[2].Team != "Sharks" {
		t.Errorf("expected alice's round 2 tip last, got %+v", deduped[2])
	}
}

func TestBuildTipResults(t *testing.T) {
	tips := []models.UserTip{
		tipFor("alice@example.com", 1, "Broncos", "Storm", true, tipBase),
		tipFor("bob@example.com", 1, "Storm", "Broncos", false, tipBase),
		// Carol's game has no result yet.
		tipFor("carol@example.com", 1, "Panthers", "Roosters", true, tipBase),
	}
	results := []models.GameResult{
		{Season: 2026, Round: 1, Team: "Broncos", Opponent: "Storm", Home: true, ScoreFor: 24, ScoreAgainst: 12, Margin: 12},
		{Season: 2026, Round: 1, Team: "Storm", Opponent: "Broncos", Home: false, ScoreFor: 12, ScoreAgainst: 24, Margin: -12},
	}
	users := []models.User{
		{Email: "ALICE@example.com", Username: "Alice the Great"},
	}

	rows := BuildTipResults(tips, results, users)
	if len(rows) != 2 {
		t.Fatalf("expected 2 scored rows, got %d", len(rows))
	}

	alice := rows[0]
	if alice.Username != "Alice the Great" {
		t.Errorf("expected directory username, got %q", alice.Username)
	}
	if !alice.Win || alice.Points != 2 || alice.Margin != 12 {
		t.Errorf("unexpected winning row: %+v", alice)
	}

	bob := rows[1]
	if bob.Username != "bob@example.com" {
		t.Errorf("expected tip username fallback, got %q", bob.Username)
	}
	if !bob.Loss || bob.Points != 0 || bob.Margin != -12 {
		t.Errorf("unexpected losing row: %+v", bob)
	}
}

func TestBuildTipResultsDrawScoresOne(t *testing.T) {
	tips := []models.UserTip{
		tipFor("alice@example.com", 1, "Sharks", "Raiders", true, tipBase),
	}
	results := []models.GameResult{
		{Season: 2026, Round: 1, Team: "Sharks", Opponent: "Raiders", Home: true, ScoreFor: 18, ScoreAgainst: 18, Margin: 0},
	}

	rows := BuildTipResults(tips, results, nil)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].Draw || rows[0].Points != 1 || rows[0].Margin != 0 {
		t.Errorf("unexpected draw row: %+v", rows[0])
	}
}

func TestFilterByRound(t *testing.T) {
	rows := []models.TipResult{
		{Round: 1}, {Round: 2}, {Round: 3}, {Round: 5},
	}

	if got := FilterByRound(rows, 3); len(got) != 3 {
		t.Errorf("expected 3 rows at cutoff 3, got %d", len(got))
	}
	if got := FilterByRound(rows, 0); len(got) != 4 {
		t.Errorf("expected no cutoff at 0, got %d rows", len(got))
	}
	// Filtering twice at the same cutoff changes nothing.
	once := FilterByRound(rows, 2)
	twice := FilterByRound(once, 2)
	if len(once) != len(twice) {
		t.Errorf("filter not idempotent: %d vs %d", len(once), len(twice))
	}
}

func TestBuildLeaderboard(t *testing.T) {
	rows := []models.TipResult{
		{Email: "alice@example.com", Username: "Alice", Round: 1, Points: 2, Margin: 12},
		{Email: "bob@example.com", Username: "Bob", Round: 1, Points: 2, Margin: 4},
		{Email: "carol@example.com", Username: "Carol", Round: 1, Points: 0, Margin: -8},
		{Email: "alice@example.com", Username: "Alice", Round: 2, Points: 0, Margin: -2},
		{Email: "bob@example.com", Username: "Bob", Round: 2, Points: 2, Margin: 6},
		{Email: "carol@example.com", Username: "Carol", Round: 2, Points: 2, Margin: 30},
	}

	board := BuildLeaderboard(rows, 2)
	if len(board) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(board))
	}

	// Bob: 4 points, +10. Alice: 2 points, +10. Carol: 2 points, +22.
	expected := []struct {
		username string
		points   int
		margin   int
		position int
	}{
		{username: "Bob", points: 4, margin: 10, position: 1},
		{username: "Carol", points: 2, margin: 22, position: 2},
		{username: "Alice", points: 2, margin: 10, position: 3},
	}
	for i, e := range expected {
		got := board[i]
		if got.Username != e.username || got.Points != e.points || got.Margin != e.margin || got.Position != e.position {
			t.Errorf("row %d: expected %+v, got %+v", i, e, got)
		}
		if got.TipsCount != 2 {
			t.Errorf("row %d: expected 2 tips counted, got %d", i, got.TipsCount)
		}
	}

	// At the round 1 cutoff Alice leads on margin.
	board = BuildLeaderboard(rows, 1)
	if board[0].Username != "Alice" || board[0].Position != 1 {
		t.Errorf("expected Alice first at round 1, got %+v", board[0])
	}
}

func TestBuildLeaderboardTiesKeepFirstAppearanceOrder(t *testing.T) {
	rows := []models.TipResult{
		{Email: "bob@example.com", Username: "Bob", Round: 1, Points: 2, Margin: 10},
		{Email: "alice@example.com", Username: "Alice", Round: 1, Points: 2, Margin: 10},
	}

	board := BuildLeaderboard(rows, 1)
	if board[0].Username != "Bob" || board[0].Position != 1 {
		t.Errorf("expected Bob first on appearance order, got %+v", board[0])
	}
	if board[1].Username != "Alice" || board[1].Position != 2 {
		t.Errorf("expected Alice second with a distinct position, got %+v", board[1])
	}
}

func TestPositionsByRound(t *testing.T) {
	rows := []models.TipResult{
		{Email: "alice@example.com", Username: "Alice", Round: 1, Points: 2, Margin: 12},
		{Email: "bob@example.com", Username: "Bob", Round: 1, Points: 2, Margin: 4},
		{Email: "bob@example.com", Username: "Bob", Round: 2, Points: 2, Margin: 20},
		// Alice missed round 2 entirely but still holds a position.
		{Email: "alice@example.com", Username: "Alice", Round: 3, Points: 2, Margin: 2},
		{Email: "bob@example.com", Username: "Bob", Round: 3, Points: 0, Margin: -4},
	}

	positions := PositionsByRound(rows, "alice@example.com", 3)
	if len(positions) != 3 {
		t.Fatalf("expected 3 trajectory points, got %d", len(positions))
	}

	expected := []models.RoundPosition{
		{Round: 1, Position: 1},
		{Round: 2, Position: 2},
		{Round: 3, Position: 2},
	}
	for i, e := range expected {
		if positions[i] != e {
			t.Errorf("round %d: expected %+v, got %+v", e.Round, e, positions[i])
		}
	}

	// Unknown user has no trajectory at all.
	if got := PositionsByRound(rows, "nobody@example.com", 3); len(got) != 0 {
		t.Errorf("expected empty trajectory, got %v", got)
	}
}
