package repositories

import (
	"context"
	"database/sql"

	"github.com/sburman/coal-train-cup/models"
)

// TipRepository is append-only. Tips are never updated or deleted; a
// resubmission for the same round just adds another row.
type TipRepository interface {
	Append(ctx context.Context, tip *models.UserTip) error
	ListBySeason(ctx context.Context, season int) ([]models.UserTip, error)
}

type postgresTipRepository struct {
	db *sql.DB
}

func NewPostgresTipRepository(db *sql.DB) TipRepository {
	return &postgresTipRepository{db: db}
}

func (r *postgresTipRepository) Append(ctx context.Context, tip *models.UserTip) error {
	query := `
		INSERT INTO user_tips (email, username, season, round, team, opponent, home, tipped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		tip.Email,
		tip.Username,
		tip.Season,
		tip.Round,
		tip.Team,
		tip.Opponent,
		tip.Home,
		tip.TippedAt,
	)
	return err
}

func (r *postgresTipRepository) ListBySeason(ctx context.Context, season int) ([]models.UserTip, error) {
	query := `
		SELECT email, username, season, round, team, opponent, home, tipped_at
		FROM user_tips
		WHERE season = $1
		ORDER BY tipped_at ASC`

	rows, err := r.db.QueryContext(ctx, query, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tips := make([]models.UserTip, 0)
	for rows.Next() {
		var tip models.UserTip
		scanErr := rows.Scan(
			&tip.Email,
			&tip.Username,
			&tip.Season,
			&tip.Round,
			&tip.Team,
			&tip.Opponent,
			&tip.Home,
			&tip.TippedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		tips = append(tips, tip)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tips, nil
}
