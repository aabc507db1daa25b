package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/sburman/coal-train-cup/cache"
	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/nrl"
	"github.com/sburman/coal-train-cup/repositories"
)

const (
	dataCacheTTL = 8 * time.Hour

	// finalsRoundLimit is the last round the fixture feed is ever queried
	// for: 27 regular rounds plus four finals weeks.
	finalsRoundLimit = 31
)

func gamesCacheKey(season int) string {
	return fmt.Sprintf("data:games:%d", season)
}

type GamesService interface {
	GamesForSeason(ctx context.Context, season int) ([]models.Game, error)
	GameResultsForSeason(ctx context.Context, season int) ([]models.GameResult, error)
	AllTeams(ctx context.Context) ([]string, error)
	RoundStatuses(ctx context.Context, season int) (map[int]models.RoundStatus, error)
	CurrentTippingRound(ctx context.Context) (int, error)
	MostRecentClosedRound(ctx context.Context, season int) (int, error)
	RefreshFixtures(ctx context.Context) error
}

type gamesService struct {
	gameRepo  repositories.GameRepository
	nrlClient nrl.Client
	cache     *cache.Cache
	logger    *slog.Logger
}

func NewGamesService(
	gameRepo repositories.GameRepository,
	nrlClient nrl.Client,
	appCache *cache.Cache,
	logger *slog.Logger,
) GamesService {
	return &gamesService{
		gameRepo:  gameRepo,
		nrlClient: nrlClient,
		cache:     appCache,
		logger:    logger,
	}
}

func (s *gamesService) GamesForSeason(ctx context.Context, season int) ([]models.Game, error) {
	key := gamesCacheKey(season)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Game), nil
	}

	games, err := s.gameRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for season %d: %w", season, err)
	}
	s.cache.Set(key, games, dataCacheTTL)
	return games, nil
}

func (s *gamesService) GameResultsForSeason(ctx context.Context, season int) ([]models.GameResult, error) {
	games, err := s.GamesForSeason(ctx, season)
	if err != nil {
		return nil, err
	}
	return BuildGameResults(games), nil
}

// AllTeams lists the current season's teams in first-appearance order of the
// stored draw.
func (s *gamesService) AllTeams(ctx context.Context) ([]string, error) {
	games, err := s.GamesForSeason(ctx, models.CurrentSeason)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	teams := make([]string, 0)
	for _, g := range games {
		if _, ok := seen[g.HomeTeam]; !ok {
			seen[g.HomeTeam] = struct{}{}
			teams = append(teams, g.HomeTeam)
		}
	}
	return teams, nil
}

func (s *gamesService) RoundStatuses(ctx context.Context, season int) (map[int]models.RoundStatus, error) {
	games, err := s.GamesForSeason(ctx, season)
	if err != nil {
		return nil, err
	}
	return RoundStatusesFromGames(games, time.Now()), nil
}

func (s *gamesService) CurrentTippingRound(ctx context.Context) (int, error) {
	statuses, err := s.RoundStatuses(ctx, models.CurrentSeason)
	if err != nil {
		return 0, err
	}
	return CurrentTippingRound(statuses), nil
}

func (s *gamesService) MostRecentClosedRound(ctx context.Context, season int) (int, error) {
	statuses, err := s.RoundStatuses(ctx, season)
	if err != nil {
		return 0, err
	}
	return MostRecentClosedRound(statuses), nil
}

// roundsNeedingRefresh picks which rounds to re-fetch: the latest round
// whose games have all kicked off (its scores may have just landed) and the
// one after it (its draw may have moved). Before the season starts that is
// just round 1.
func roundsNeedingRefresh(games []models.Game, now time.Time) []int {
	byRound := make(map[int][]models.Game)
	for _, g := range games {
		byRound[g.Round] = append(byRound[g.Round], g)
	}

	latestKickedOff := 0
	for round, roundGames := range byRound {
		allKickedOff := true
		for _, g := range roundGames {
			if g.Kickoff.After(now) {
				allKickedOff = false
				break
			}
		}
		if allKickedOff && round > latestKickedOff {
			latestKickedOff = round
		}
	}

	if latestKickedOff == 0 {
		return []int{1}
	}
	rounds := []int{latestKickedOff}
	if latestKickedOff+1 <= finalsRoundLimit {
		rounds = append(rounds, latestKickedOff+1)
	}
	return rounds
}

// RefreshFixtures pulls the latest draw for the rounds that can have moved
// and stores them, replacing each refreshed round wholesale. Feed failures
// propagate; stored games are never overwritten with partial data.
func (s *gamesService) RefreshFixtures(ctx context.Context) error {
	existing, err := s.gameRepo.ListBySeason(ctx, models.CurrentSeason)
	if err != nil {
		return fmt.Errorf("failed to load existing games: %w", err)
	}

	for _, round := range roundsNeedingRefresh(existing, time.Now()) {
		if round > finalsRoundLimit {
			continue
		}
		fixtures, err := s.nrlClient.LoadFixtures(ctx, models.CurrentSeason, round)
		if err != nil {
			return fmt.Errorf("%w: round %d: %w", ErrFixtureSourceFailed, round, err)
		}
		sort.Slice(fixtures, func(i, j int) bool {
			return fixtures[i].Kickoff.Before(fixtures[j].Kickoff)
		})
		if err := s.gameRepo.ReplaceRound(ctx, models.CurrentSeason, round, fixtures); err != nil {
			return fmt.Errorf("failed to store refreshed round %d: %w", round, err)
		}
		s.logger.Info("fixtures refreshed",
			slog.Int("round", round),
			slog.Int("games", len(fixtures)))
	}

	// New scores change every derived leaderboard too.
	s.cache.Invalidate(gamesCacheKey(models.CurrentSeason))
	s.cache.InvalidatePrefix(leaderboardCachePrefix)
	return nil
}
