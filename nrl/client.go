// Package nrl wraps the rugby league stats API the draw and results come
// from. The core never talks to it directly; the games service does, and
// everything downstream works off the stored games.
package nrl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sburman/coal-train-cup/models"
)

const (
	BaseURL       = "http://rugbyleague-api.stats.com/api/NRL"
	competitionID = 111
)

type Client interface {
	LoadFixtures(ctx context.Context, season, round int) ([]models.Game, error)
	PlayerNamesInRound(ctx context.Context, season, round int) ([]string, error)
}

type client struct {
	url        string
	auth       string
	httpClient *http.Client
}

func New(auth string) Client {
	return &client{
		url:  BaseURL,
		auth: auth,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}
}

// NewForTest points the client at a fake server.
func NewForTest(url string) Client {
	c := New("test-auth").(*client)
	c.url = url
	return c
}

type fixtureTeam struct {
	TeamName       string `json:"teamName"`
	IsHomeTeam     bool   `json:"isHomeTeam"`
	TeamFinalScore *int   `json:"teamFinalScore"`
}

type fixture struct {
	GameID        string        `json:"gameId"`
	StartTimeUTC  time.Time     `json:"startTimeUTC"`
	VenueName     string        `json:"venueName"`
	City          string        `json:"city"`
	GameStateName string        `json:"gameStateName"`
	Teams         []fixtureTeam `json:"teams"`
}

type roundFixturesResponse struct {
	RoundFixtures []struct {
		GameFixtures []fixture `json:"gameFixtures"`
	} `json:"roundFixtures"`
}

func (c *client) get(ctx context.Context, url string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating http request: %w", err)
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Content-Type", "application/json, charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from NRL API: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("error parsing response from NRL API: %w", err)
	}
	return nil
}

func (c *client) fetchFixtures(ctx context.Context, season, round int) ([]fixture, error) {
	url := fmt.Sprintf("%s/competitions/roundFixtures/%d/%d/%d.json", c.url, competitionID, season, round)
	var parsed roundFixturesResponse
	if err := c.get(ctx, url, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.RoundFixtures) == 0 {
		return []fixture{}, nil
	}
	return parsed.RoundFixtures[0].GameFixtures, nil
}

func (c *client) LoadFixtures(ctx context.Context, season, round int) ([]models.Game, error) {
	fixtures, err := c.fetchFixtures(ctx, season, round)
	if err != nil {
		return nil, err
	}

	games := make([]models.Game, 0, len(fixtures))
	for _, f := range fixtures {
		game, err := fixtureToGame(f, season, round)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

func fixtureToGame(f fixture, season, round int) (models.Game, error) {
	var home, away *fixtureTeam
	for i := range f.Teams {
		if f.Teams[i].IsHomeTeam {
			home = &f.Teams[i]
		} else {
			away = &f.Teams[i]
		}
	}
	if home == nil || away == nil {
		return models.Game{}, fmt.Errorf("missing home or away team for game %s", f.GameID)
	}

	venueName := f.VenueName
	if venueName == "" {
		venueName = "Unknown Venue"
	}
	city := f.City
	if city == "" {
		city = "Unknown City"
	}

	return models.Game{
		Season:    season,
		Round:     round,
		Kickoff:   f.StartTimeUTC.UTC(),
		HomeTeam:  home.TeamName,
		AwayTeam:  away.TeamName,
		Venue:     venueName + ", " + city,
		HomeScore: teamScore(home, f.GameStateName),
		AwayScore: teamScore(away, f.GameStateName),
	}, nil
}

// teamScore keeps an in-play game unresulted. A finished game with no score
// in the feed is recorded as 0, matching how the feed reports forfeits.
func teamScore(t *fixtureTeam, gameState string) *int {
	if t.TeamFinalScore != nil {
		return t.TeamFinalScore
	}
	if gameState == "Final" {
		zero := 0
		return &zero
	}
	return nil
}

type matchStatsResponse struct {
	GameStats struct {
		Teams struct {
			TeamsMatch []struct {
				TeamLineup struct {
					TeamPlayer []struct {
						PlayerName string `json:"playerName"`
					} `json:"teamPlayer"`
				} `json:"teamLineup"`
			} `json:"teamsMatch"`
		} `json:"teams"`
	} `json:"gameStats"`
}

// PlayerNamesInRound pulls every named player across the round's lineups,
// deduplicated and sorted. Matches whose stats are not published yet are
// skipped.
func (c *client) PlayerNamesInRound(ctx context.Context, season, round int) ([]string, error) {
	fixtures, err := c.fetchFixtures(ctx, season, round)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, f := range fixtures {
		if f.GameID == "" {
			continue
		}
		url := fmt.Sprintf("%s/matchStatsAndEvents/%s.json", c.url, f.GameID)
		var parsed matchStatsResponse
		if err := c.get(ctx, url, &parsed); err != nil {
			continue
		}
		for _, team := range parsed.GameStats.Teams.TeamsMatch {
			for _, p := range team.TeamLineup.TeamPlayer {
				if p.PlayerName != "" {
					seen[p.PlayerName] = struct{}{}
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
