package nrl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

const fixturesBody = `{
	"roundFixtures": [
		{
			"gameFixtures": [
				{
					"gameId": "20260101510",
					"startTimeUTC": "2026-03-05T09:00:00Z",
					"venueName": "Suncorp Stadium",
					"city": "Brisbane",
					"gameStateName": "Final",
					"teams": [
						{"teamName": "Broncos", "isHomeTeam": true, "teamFinalScore": 24},
						{"teamName": "Storm", "isHomeTeam": false, "teamFinalScore": 12}
					]
				},
				{
					"gameId": "20260101511",
					"startTimeUTC": "2026-03-06T09:00:00Z",
					"venueName": "",
					"city": "",
					"gameStateName": "Pre Game",
					"teams": [
						{"teamName": "Sharks", "isHomeTeam": true},
						{"teamName": "Raiders", "isHomeTeam": false}
					]
				},
				{
					"gameId": "20260101512",
					"startTimeUTC": "2026-03-07T09:00:00Z",
					"venueName": "Accor Stadium",
					"city": "Sydney",
					"gameStateName": "Final",
					"teams": [
						{"teamName": "Panthers", "isHomeTeam": true, "teamFinalScore": 18},
						{"teamName": "Roosters", "isHomeTeam": false}
					]
				}
			]
		}
	]
}`

const matchStatsBody = `{
	"gameStats": {
		"teams": {
			"teamsMatch": [
				{"teamLineup": {"teamPlayer": [
					{"playerName": "Reece Walsh"},
					{"playerName": "Adam Reynolds"}
				]}},
				{"teamLineup": {"teamPlayer": [
					{"playerName": "Jahrome Hughes"},
					{"playerName": "Reece Walsh"}
				]}}
			]
		}
	}
}`

func newFakeNRLServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/competitions/roundFixtures/111/2026/1.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixturesBody))
	})
	mux.HandleFunc("/matchStatsAndEvents/20260101510.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(matchStatsBody))
	})
	// Remaining matches have no published stats yet.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return httptest.NewServer(mux)
}

func TestLoadFixtures(t *testing.T) {
	server := newFakeNRLServer(t)
	defer server.Close()

	c := NewForTest(server.URL)
	games, err := c.LoadFixtures(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}

	resulted := games[0]
	if resulted.HomeTeam != "Broncos" || resulted.AwayTeam != "Storm" {
		t.Errorf("unexpected teams: %+v", resulted)
	}
	if resulted.Venue != "Suncorp Stadium, Brisbane" {
		t.Errorf("unexpected venue: %q", resulted.Venue)
	}
	if !resulted.Kickoff.Equal(time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected kickoff: %v", resulted.Kickoff)
	}
	if !resulted.Resulted() || *resulted.HomeScore != 24 || *resulted.AwayScore != 12 {
		t.Errorf("expected 24-12 final, got %+v", resulted)
	}

	upcoming := games[1]
	if upcoming.Resulted() {
		t.Errorf("pre-game fixture must not be resulted: %+v", upcoming)
	}
	if upcoming.Venue != "Unknown Venue, Unknown City" {
		t.Errorf("unexpected venue fallback: %q", upcoming.Venue)
	}

	// Final with a missing away score is coerced to 0, the forfeit case.
	forfeit := games[2]
	if !forfeit.Resulted() || *forfeit.HomeScore != 18 || *forfeit.AwayScore != 0 {
		t.Errorf("expected 18-0 forfeit, got %+v", forfeit)
	}
}

func TestLoadFixturesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewForTest(server.URL)
	if _, err := c.LoadFixtures(context.Background(), 2026, 1); err == nil {
		t.Fatal("expected an error on a 500 response")
	}
}

func TestPlayerNamesInRound(t *testing.T) {
	server := newFakeNRLServer(t)
	defer server.Close()

	c := NewForTest(server.URL)
	names, err := c.PlayerNamesInRound(context.Background(), 2026, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deduplicated, sorted, and unpublished matches skipped without error.
	expected := []string{"Adam Reynolds", "Jahrome Hughes", "Reece Walsh"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected %v, got %v", expected, names)
	}
}
