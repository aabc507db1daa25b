package services

import (
	"context"
	"fmt"

	"github.com/sburman/coal-train-cup/cache"
	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/repositories"
)

func tipsCacheKey(season int) string {
	return fmt.Sprintf("data:tips:%d", season)
}

type TipsService interface {
	TipsForSeason(ctx context.Context, season int) ([]models.UserTip, error)
	Append(ctx context.Context, tip *models.UserTip) error
}

type tipsService struct {
	tipRepo repositories.TipRepository
	cache   *cache.Cache
}

func NewTipsService(tipRepo repositories.TipRepository, appCache *cache.Cache) TipsService {
	return &tipsService{
		tipRepo: tipRepo,
		cache:   appCache,
	}
}

func (s *tipsService) TipsForSeason(ctx context.Context, season int) ([]models.UserTip, error) {
	key := tipsCacheKey(season)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.UserTip), nil
	}

	tips, err := s.tipRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load tips for season %d: %w", season, err)
	}
	s.cache.Set(key, tips, dataCacheTTL)
	return tips, nil
}

// Append stores the tip and invalidates every cached aggregate derived from
// tips, so the next read sees the write.
func (s *tipsService) Append(ctx context.Context, tip *models.UserTip) error {
	if err := s.tipRepo.Append(ctx, tip); err != nil {
		return fmt.Errorf("failed to append tip: %w", err)
	}
	s.cache.Invalidate(tipsCacheKey(tip.Season))
	s.cache.InvalidatePrefix(leaderboardCachePrefix)
	return nil
}
