package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sburman/coal-train-cup/models"
)

// GameRepository holds the season draw. Fixture refreshes replace whole
// rounds so a re-fetched round never leaves stale games behind.
type GameRepository interface {
	ListBySeason(ctx context.Context, season int) ([]models.Game, error)
	ReplaceRound(ctx context.Context, season, round int, games []models.Game) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) ListBySeason(ctx context.Context, season int) ([]models.Game, error) {
	query := `
		SELECT season, round, kickoff, home_team, away_team, venue, home_score, away_score
		FROM games
		WHERE season = $1
		ORDER BY kickoff ASC`

	rows, err := r.db.QueryContext(ctx, query, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var game models.Game
		var homeScore, awayScore sql.NullInt64
		scanErr := rows.Scan(
			&game.Season,
			&game.Round,
			&game.Kickoff,
			&game.HomeTeam,
			&game.AwayTeam,
			&game.Venue,
			&homeScore,
			&awayScore,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		if homeScore.Valid {
			v := int(homeScore.Int64)
			game.HomeScore = &v
		}
		if awayScore.Valid {
			v := int(awayScore.Int64)
			game.AwayScore = &v
		}
		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return games, nil
}

func (r *postgresGameRepository) ReplaceRound(ctx context.Context, season, round int, games []models.Game) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin round replace transaction: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := `DELETE FROM games WHERE season = $1 AND round = $2`
	if _, err = tx.ExecContext(ctx, deleteQuery, season, round); err != nil {
		return fmt.Errorf("failed to clear round %d: %w", round, err)
	}

	insertQuery := `
		INSERT INTO games (season, round, kickoff, home_team, away_team, venue, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, game := range games {
		var homeScore, awayScore sql.NullInt64
		if game.HomeScore != nil {
			homeScore = sql.NullInt64{Int64: int64(*game.HomeScore), Valid: true}
		}
		if game.AwayScore != nil {
			awayScore = sql.NullInt64{Int64: int64(*game.AwayScore), Valid: true}
		}
		_, err = tx.ExecContext(ctx, insertQuery,
			game.Season,
			game.Round,
			game.Kickoff,
			game.HomeTeam,
			game.AwayTeam,
			game.Venue,
			homeScore,
			awayScore,
		)
		if err != nil {
			return fmt.Errorf("failed to insert game %s v %s: %w", game.HomeTeam, game.AwayTeam, err)
		}
	}

	return tx.Commit()
}
