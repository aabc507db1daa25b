package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sburman/coal-train-cup/models"
	"github.com/sburman/coal-train-cup/storage"
)

// ArchiveService writes a leaderboard snapshot to object storage for every
// closed round, so past standings survive independently of the live data.
type ArchiveService interface {
	ArchiveClosedRounds(ctx context.Context) error
}

type archiveService struct {
	leaderboardService LeaderboardService
	gamesService       GamesService
	uploader           storage.FileUploader
	logger             *slog.Logger

	mu           sync.Mutex
	lastArchived int
}

func NewArchiveService(
	leaderboardService LeaderboardService,
	gamesService GamesService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ArchiveService {
	return &archiveService{
		leaderboardService: leaderboardService,
		gamesService:       gamesService,
		uploader:           uploader,
		logger:             logger,
	}
}

// ArchiveClosedRounds uploads a snapshot for every closed round not yet
// archived by this process. Snapshots are keyed by season and round, so a
// rerun just overwrites with identical content.
func (s *archiveService) ArchiveClosedRounds(ctx context.Context) error {
	maxRound, err := s.gamesService.MostRecentClosedRound(ctx, models.CurrentSeason)
	if err != nil {
		return err
	}

	s.mu.Lock()
	from := s.lastArchived + 1
	s.mu.Unlock()

	for round := from; round <= maxRound; round++ {
		board, err := s.leaderboardService.LeaderboardAt(ctx, models.CurrentSeason, round)
		if err != nil {
			return err
		}
		snapshot, err := json.Marshal(map[string]interface{}{
			"season":      models.CurrentSeason,
			"round":       round,
			"leaderboard": board,
		})
		if err != nil {
			return fmt.Errorf("failed to encode snapshot for round %d: %w", round, err)
		}

		key := fmt.Sprintf("snapshots/%d/round-%02d.json", models.CurrentSeason, round)
		if _, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(snapshot)); err != nil {
			return fmt.Errorf("failed to upload snapshot for round %d: %w", round, err)
		}
		s.logger.Info("leaderboard snapshot archived",
			slog.Int("round", round),
			slog.String("key", key))

		s.mu.Lock()
		s.lastArchived = round
		s.mu.Unlock()
	}
	return nil
}
