package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sburman/coal-train-cup/models"
)

var ErrShieldTipConflict = errors.New("shield tip already submitted for this round")

// ShieldRepository holds Siliva Shield picks. One tip per user per round;
// winners are flagged by the admin after each finals week is scored.
type ShieldRepository interface {
	Append(ctx context.Context, tip *models.UserShieldTip) error
	ListWinners(ctx context.Context, season, round int) ([]models.UserShieldTip, error)
}

type postgresShieldRepository struct {
	db *sql.DB
}

func NewPostgresShieldRepository(db *sql.DB) ShieldRepository {
	return &postgresShieldRepository{db: db}
}

func (r *postgresShieldRepository) Append(ctx context.Context, tip *models.UserShieldTip) error {
	query := `
		INSERT INTO shield_tips (email, season, round, team, tryscorer, match_total, tipped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var matchTotal sql.NullInt64
	if tip.MatchTotal != nil {
		matchTotal = sql.NullInt64{Int64: int64(*tip.MatchTotal), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		tip.Email,
		tip.Season,
		tip.Round,
		tip.Team,
		tip.Tryscorer,
		matchTotal,
		tip.TippedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "shield_tips_email_season_round_key" {
				return ErrShieldTipConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresShieldRepository) ListWinners(ctx context.Context, season, round int) ([]models.UserShieldTip, error) {
	query := `
		SELECT email, season, round, team, tryscorer, match_total, tipped_at
		FROM shield_tips
		WHERE season = $1 AND round = $2 AND winner = TRUE
		ORDER BY tipped_at ASC`

	rows, err := r.db.QueryContext(ctx, query, season, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	winners := make([]models.UserShieldTip, 0)
	for rows.Next() {
		var tip models.UserShieldTip
		var matchTotal sql.NullInt64
		scanErr := rows.Scan(
			&tip.Email,
			&tip.Season,
			&tip.Round,
			&tip.Team,
			&tip.Tryscorer,
			&matchTotal,
			&tip.TippedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		if matchTotal.Valid {
			v := int(matchTotal.Int64)
			tip.MatchTotal = &v
		}
		winners = append(winners, tip)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return winners, nil
}
