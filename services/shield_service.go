package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sburman/coal-train-cup/cache"
	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/nrl"
	"github.com/sburman/coal-train-cup/repositories"
)

// The Siliva Shield runs over the finals rounds only. From the second week
// on, only users who won the previous week may enter.
const (
	FirstShieldRound = 28

	playersCacheTTL       = 10 * time.Minute
	shieldWinnersCacheTTL = 24 * time.Hour
)

var ErrShieldNotEligible = errors.New("only last week's shield winners can enter this round")

func playersCacheKey(round int) string {
	return fmt.Sprintf("data:players:%d", round)
}

func shieldWinnersCacheKey(season, round int) string {
	return fmt.Sprintf("data:shield:%d:%d", season, round)
}

// ShieldTipInput is a shield submission before validation.
type ShieldTipInput struct {
	Email      string `json:"email"`
	Season     int    `json:"season"`
	Round      int    `json:"round"`
	Team       string `json:"team"`
	Tryscorer  string `json:"tryscorer"`
	MatchTotal *int   `json:"match_total"`
}

type ShieldService interface {
	PlayersInRound(ctx context.Context, round int) ([]string, error)
	Winners(ctx context.Context, round int) ([]models.UserShieldTip, error)
	SubmitTip(ctx context.Context, input ShieldTipInput) (*models.UserShieldTip, error)
}

type shieldService struct {
	shieldRepo repositories.ShieldRepository
	nrlClient  nrl.Client
	cache      *cache.Cache
}

func NewShieldService(
	shieldRepo repositories.ShieldRepository,
	nrlClient nrl.Client,
	appCache *cache.Cache,
) ShieldService {
	return &shieldService{
		shieldRepo: shieldRepo,
		nrlClient:  nrlClient,
		cache:      appCache,
	}
}

func (s *shieldService) PlayersInRound(ctx context.Context, round int) ([]string, error) {
	key := playersCacheKey(round)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]string), nil
	}

	players, err := s.nrlClient.PlayerNamesInRound(ctx, models.CurrentSeason, round)
	if err != nil {
		return nil, fmt.Errorf("%w: players for round %d: %w", ErrFixtureSourceFailed, round, err)
	}
	s.cache.Set(key, players, playersCacheTTL)
	return players, nil
}

func (s *shieldService) Winners(ctx context.Context, round int) ([]models.UserShieldTip, error) {
	key := shieldWinnersCacheKey(models.CurrentSeason, round)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.UserShieldTip), nil
	}

	winners, err := s.shieldRepo.ListWinners(ctx, models.CurrentSeason, round)
	if err != nil {
		return nil, fmt.Errorf("failed to load shield winners for round %d: %w", round, err)
	}
	s.cache.Set(key, winners, shieldWinnersCacheTTL)
	return winners, nil
}

func (s *shieldService) SubmitTip(ctx context.Context, input ShieldTipInput) (*models.UserShieldTip, error) {
	if strings.TrimSpace(input.Email) == "" || input.Round < 1 || input.Team == "" || input.Tryscorer == "" {
		return nil, ErrShieldFieldsRequired
	}

	season := input.Season
	if season == 0 {
		season = models.CurrentSeason
	}

	// Elimination gate: after the first finals week, entry is limited to
	// the previous week's winners.
	if input.Round > FirstShieldRound {
		winners, err := s.Winners(ctx, input.Round-1)
		if err != nil {
			return nil, err
		}
		eligible := false
		for _, w := range winners {
			if strings.EqualFold(w.Email, input.Email) {
				eligible = true
				break
			}
		}
		if !eligible {
			return nil, ErrShieldNotEligible
		}
	}

	tip := &models.UserShieldTip{
		Email:      input.Email,
		Season:     season,
		Round:      input.Round,
		Team:       input.Team,
		Tryscorer:  input.Tryscorer,
		MatchTotal: input.MatchTotal,
		TippedAt:   time.Now().UTC(),
	}
	if err := s.shieldRepo.Append(ctx, tip); err != nil {
		if errors.Is(err, repositories.ErrShieldTipConflict) {
			return nil, ErrShieldTipConflict
		}
		return nil, fmt.Errorf("failed to store shield tip: %w", err)
	}
	return tip, nil
}
