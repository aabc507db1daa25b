package services

import (
	"context"

	"github.com/sburman/coal-train-cup/models"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	GetStats(ctx context.Context) (models.AppStats, error)
	ClosedRounds(ctx context.Context) ([]int, error)
	RoundTips(ctx context.Context, round int) (*models.RoundTipsView, error)
}

type statsService struct {
	usersService UsersService
	tipsService  TipsService
	gamesService GamesService
}

func NewStatsService(
	usersService UsersService,
	tipsService TipsService,
	gamesService GamesService,
) StatsService {
	return &statsService{
		usersService: usersService,
		tipsService:  tipsService,
		gamesService: gamesService,
	}
}

// GetStats loads the home page counters, fetching each collection
// concurrently. Resulted games count is result rows over two, one row per
// side.
func (s *statsService) GetStats(ctx context.Context) (models.AppStats, error) {
	var (
		users   []models.User
		tips    []models.UserTip
		games   []models.Game
		results []models.GameResult
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.usersService.AllUsers(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		tips, err = s.tipsService.TipsForSeason(gCtx, models.CurrentSeason)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.gamesService.GamesForSeason(gCtx, models.CurrentSeason)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.gamesService.GameResultsForSeason(gCtx, models.CurrentSeason)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.AppStats{}, err
	}

	return models.AppStats{
		UsersCount:         len(users),
		TipsCount:          len(tips),
		GamesCount:         len(games),
		ResultedGamesCount: len(results) / 2,
	}, nil
}

func (s *statsService) ClosedRounds(ctx context.Context) ([]int, error) {
	statuses, err := s.gamesService.RoundStatuses(ctx, models.CurrentSeason)
	if err != nil {
		return nil, err
	}
	return ClosedRounds(statuses), nil
}

// RoundTips builds the tips-by-round page: every tip for the round, how many
// backed each team, each team's result, and the win/loss/draw split across
// all tips.
func (s *statsService) RoundTips(ctx context.Context, round int) (*models.RoundTipsView, error) {
	var (
		tips    []models.UserTip
		results []models.GameResult
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tips, err = s.tipsService.TipsForSeason(gCtx, models.CurrentSeason)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.gamesService.GameResultsForSeason(gCtx, models.CurrentSeason)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roundTips := make([]models.UserTip, 0)
	for _, t := range tips {
		if t.Round == round {
			roundTips = append(roundTips, t)
		}
	}
	roundResults := GameResultsForRound(results, round, models.CurrentSeason)

	resultByTeam := make(map[string]string, len(roundResults))
	teamStats := make([]models.TeamRoundStat, 0, len(roundResults))
	tipCounts := make(map[string]int)
	for _, t := range roundTips {
		tipCounts[t.Team]++
	}
	for _, r := range roundResults {
		result := "Draw"
		if r.Margin > 0 {
			result = "Won"
		} else if r.Margin < 0 {
			result = "Lost"
		}
		resultByTeam[r.Team] = result
		teamStats = append(teamStats, models.TeamRoundStat{
			Team:   r.Team,
			Count:  tipCounts[r.Team],
			Result: result,
		})
	}

	resultCounts := map[string]int{"Won": 0, "Lost": 0, "Draw": 0}
	for _, t := range roundTips {
		if result, ok := resultByTeam[t.Team]; ok {
			resultCounts[result]++
		}
	}

	return &models.RoundTipsView{
		Round:        round,
		Tips:         roundTips,
		TeamStats:    teamStats,
		ResultCounts: resultCounts,
	}, nil
}
