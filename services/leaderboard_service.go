package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sburman/coal-train-cup/cache"
	"github.com/sburman/coal-train-cup/models"
)

const leaderboardCachePrefix = "lb:"

func fullResultsCacheKey(season int) string {
	return fmt.Sprintf("%sfull:%d", leaderboardCachePrefix, season)
}

// DedupeTips keeps the latest submission per user and round, so a
// resubmitted tip supersedes the earlier one instead of double-counting.
// Output keeps the order each (user, round) pair first appeared in.
func DedupeTips(tips []models.UserTip) []models.UserTip {
	type tipKey struct {
		email string
		round int
	}
	latest := make(map[tipKey]models.UserTip)
	order := make([]tipKey, 0, len(tips))
	for _, tip := range tips {
		key := tipKey{email: strings.ToLower(tip.Email), round: tip.Round}
		existing, ok := latest[key]
		if !ok {
			order = append(order, key)
			latest[key] = tip
			continue
		}
		if tip.TippedAt.After(existing.TippedAt) {
			latest[key] = tip
		}
	}

	deduped := make([]models.UserTip, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, latest[key])
	}
	return deduped
}

// BuildTipResults joins tips against game results on the exact
// (season, round, team, opponent, home) key. Tips with no result yet are
// skipped, that is the normal state mid-round. Usernames come from the
// current directory when the email is known there, otherwise from the tip,
// so renamed users keep one display name across the whole board.
func BuildTipResults(tips []models.UserTip, results []models.GameResult, users []models.User) []models.TipResult {
	if len(tips) == 0 {
		return []models.TipResult{}
	}

	userByEmail := make(map[string]models.User, len(users))
	for _, u := range users {
		userByEmail[strings.ToLower(u.Email)] = u
	}

	resultKey := func(season, round int, team, opponent string, home bool) string {
		return fmt.Sprintf("%d:%d:%s:%s:%t", season, round, team, opponent, home)
	}
	resultsByKey := make(map[string]models.GameResult, len(results))
	for _, r := range results {
		resultsByKey[resultKey(r.Season, r.Round, r.Team, r.Opponent, r.Home)] = r
	}

	rows := make([]models.TipResult, 0, len(tips))
	for _, tip := range DedupeTips(tips) {
		username := tip.Username
		if u, ok := userByEmail[strings.ToLower(tip.Email)]; ok {
			username = u.Username
		}
		res, ok := resultsByKey[resultKey(tip.Season, tip.Round, tip.Team, tip.Opponent, tip.Home)]
		if !ok {
			continue
		}
		margin := res.Margin
		points := 0
		switch {
		case margin > 0:
			points = 2
		case margin == 0:
			points = 1
		}
		rows = append(rows, models.TipResult{
			Email:    tip.Email,
			Username: username,
			Season:   tip.Season,
			Round:    tip.Round,
			Team:     tip.Team,
			Opponent: tip.Opponent,
			Home:     tip.Home,
			TippedAt: tip.TippedAt,
			Margin:   margin,
			Win:      margin > 0,
			Draw:     margin == 0,
			Loss:     margin < 0,
			Points:   points,
		})
	}
	return rows
}

// FilterByRound keeps rows up to and including maxRound. A maxRound of 0 or
// less means no cutoff.
func FilterByRound(rows []models.TipResult, maxRound int) []models.TipResult {
	if maxRound <= 0 {
		return rows
	}
	filtered := make([]models.TipResult, 0, len(rows))
	for _, r := range rows {
		if r.Round <= maxRound {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// BuildLeaderboard aggregates result rows at a cutoff into ranked standings:
// points then margin, both descending. Ties stay in first-appearance order
// and still get distinct consecutive positions.
func BuildLeaderboard(rows []models.TipResult, maxRound int) []models.LeaderboardRow {
	filtered := FilterByRound(rows, maxRound)

	type aggregate struct {
		email    string
		username string
		points   int
		margin   int
		count    int
	}
	byUser := make(map[string]*aggregate)
	order := make([]string, 0)
	for _, r := range filtered {
		key := strings.ToLower(r.Email)
		agg, ok := byUser[key]
		if !ok {
			agg = &aggregate{email: r.Email, username: r.Username}
			byUser[key] = agg
			order = append(order, key)
		}
		agg.points += r.Points
		agg.margin += r.Margin
		agg.count++
	}

	standings := make([]*aggregate, 0, len(order))
	for _, key := range order {
		standings = append(standings, byUser[key])
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].points != standings[j].points {
			return standings[i].points > standings[j].points
		}
		return standings[i].margin > standings[j].margin
	})

	board := make([]models.LeaderboardRow, len(standings))
	for i, agg := range standings {
		board[i] = models.LeaderboardRow{
			Email:     agg.email,
			Username:  agg.username,
			TipsCount: agg.count,
			Points:    agg.points,
			Margin:    agg.margin,
			Position:  i + 1,
		}
	}
	return board
}

// PositionsByRound replays the leaderboard at every cutoff from 1 to
// maxRound and records where the user placed. Rounds where the user has no
// scored tips yet are left out.
func PositionsByRound(full []models.TipResult, email string, maxRound int) []models.RoundPosition {
	positions := make([]models.RoundPosition, 0, maxRound)
	for round := 1; round <= maxRound; round++ {
		board := BuildLeaderboard(full, round)
		for _, row := range board {
			if strings.EqualFold(row.Email, email) {
				positions = append(positions, models.RoundPosition{Round: round, Position: row.Position})
				break
			}
		}
	}
	return positions
}

type LeaderboardService interface {
	FullResults(ctx context.Context, season int) ([]models.TipResult, error)
	LeaderboardAt(ctx context.Context, season, maxRound int) ([]models.LeaderboardRow, error)
	UserTipsView(ctx context.Context, email string) (*models.UserTipsView, error)
}

type leaderboardService struct {
	tipsService  TipsService
	usersService UsersService
	gamesService GamesService
	cache        *cache.Cache
}

func NewLeaderboardService(
	tipsService TipsService,
	usersService UsersService,
	gamesService GamesService,
	appCache *cache.Cache,
) LeaderboardService {
	return &leaderboardService{
		tipsService:  tipsService,
		usersService: usersService,
		gamesService: gamesService,
		cache:        appCache,
	}
}

func (s *leaderboardService) FullResults(ctx context.Context, season int) ([]models.TipResult, error) {
	key := fullResultsCacheKey(season)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.TipResult), nil
	}

	tips, err := s.tipsService.TipsForSeason(ctx, season)
	if err != nil {
		return nil, err
	}
	users, err := s.usersService.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.gamesService.GameResultsForSeason(ctx, season)
	if err != nil {
		return nil, err
	}

	rows := BuildTipResults(tips, results, users)
	s.cache.Set(key, rows, dataCacheTTL)
	return rows, nil
}

func (s *leaderboardService) LeaderboardAt(ctx context.Context, season, maxRound int) ([]models.LeaderboardRow, error) {
	full, err := s.FullResults(ctx, season)
	if err != nil {
		return nil, err
	}
	return BuildLeaderboard(full, maxRound), nil
}

// UserTipsView assembles the tips-by-user page: the user's scored tips up to
// the most recent closed round, the team list, and their rank trajectory.
func (s *leaderboardService) UserTipsView(ctx context.Context, email string) (*models.UserTipsView, error) {
	user, err := s.usersService.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	maxRound, err := s.gamesService.MostRecentClosedRound(ctx, models.CurrentSeason)
	if err != nil {
		return nil, err
	}
	full, err := s.FullResults(ctx, models.CurrentSeason)
	if err != nil {
		return nil, err
	}
	teams, err := s.gamesService.AllTeams(ctx)
	if err != nil {
		return nil, err
	}

	filtered := FilterByRound(full, maxRound)
	userResults := make([]models.TipResult, 0)
	for _, r := range filtered {
		if strings.EqualFold(r.Email, user.Email) {
			userResults = append(userResults, r)
		}
	}

	return &models.UserTipsView{
		User:             *user,
		MaxRound:         maxRound,
		Results:          userResults,
		Teams:            teams,
		PositionsByRound: PositionsByRound(full, user.Email, maxRound),
	}, nil
}
