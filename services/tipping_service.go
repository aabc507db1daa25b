package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sburman/coal-train-cup/models"
)

// Season-long tipping rules. The magic round is played at a neutral venue,
// so it does not count toward the home/away quota.
const (
	MaxHomeAwayTips        = 13
	MaxTipsPerTeam         = 3
	MagicRound             = 9
	TipGracePeriodMinutes  = 10
	TipDisplayGraceMinutes = 5
)

// AvailableTipsForRound builds the candidate set for a round: one entry per
// team playing, keyed by team, with the derived opponent and home flag. A
// tip stays open until its game's kickoff.
func AvailableTipsForRound(games []models.Game, round, season int) map[string]models.AvailableTip {
	tips := make(map[string]models.AvailableTip)
	for _, g := range games {
		if g.Round != round || g.Season != season {
			continue
		}
		tips[g.HomeTeam] = models.AvailableTip{
			Season:         season,
			Round:          round,
			Team:           g.HomeTeam,
			Opponent:       g.AwayTeam,
			Home:           true,
			AvailableUntil: g.Kickoff,
		}
		tips[g.AwayTeam] = models.AvailableTip{
			Season:         season,
			Round:          round,
			Team:           g.AwayTeam,
			Opponent:       g.HomeTeam,
			Home:           false,
			AvailableUntil: g.Kickoff,
		}
	}
	return tips
}

// ComputeExclusions applies the season rules to the candidate set given the
// user's scored tips up to the previous round. Every rule is gated on the
// user actually having a previous-round tip: a user with nothing on the
// board last round (round 1, a missed week) tips unrestricted.
func ComputeExclusions(
	candidates map[string]models.AvailableTip,
	userResults []models.TipResult,
	previousRound int,
) map[string][]models.ExclusionReason {
	excluded := make(map[string][]models.ExclusionReason)

	var previousTip *models.TipResult
	for i := range userResults {
		if userResults[i].Round == previousRound {
			previousTip = &userResults[i]
			break
		}
	}
	if previousTip == nil {
		return excluded
	}

	// Rule 1: the team tipped last round is off the table.
	excluded[previousTip.Team] = append(excluded[previousTip.Team],
		models.ExclusionReason{Code: models.ReasonLastRoundTip})

	// Rule 2: no tipping a team that now plays the side you tipped against
	// last round.
	for _, candidate := range candidates {
		if candidate.Opponent == previousTip.Opponent {
			excluded[candidate.Team] = append(excluded[candidate.Team],
				models.ExclusionReason{
					Code:     models.ReasonOpponentOfLastTip,
					Opponent: previousTip.Opponent,
				})
		}
	}

	// Rule 3: per-team quota over the whole season.
	teamCounts := make(map[string]int)
	for _, r := range userResults {
		teamCounts[r.Team]++
	}
	for team, count := range teamCounts {
		if count >= MaxTipsPerTeam {
			excluded[team] = append(excluded[team],
				models.ExclusionReason{Code: models.ReasonTeamTipLimit, Count: count})
		}
	}

	// Rule 4: home/away quota, magic round excluded from the count.
	homeCount, awayCount := 0, 0
	for _, r := range userResults {
		if r.Round == MagicRound {
			continue
		}
		if r.Home {
			homeCount++
		} else {
			awayCount++
		}
	}
	for _, candidate := range candidates {
		if candidate.Home && homeCount >= MaxHomeAwayTips {
			excluded[candidate.Team] = append(excluded[candidate.Team],
				models.ExclusionReason{Code: models.ReasonHomeTipLimit, Count: MaxHomeAwayTips})
		} else if !candidate.Home && awayCount >= MaxHomeAwayTips {
			excluded[candidate.Team] = append(excluded[candidate.Team],
				models.ExclusionReason{Code: models.ReasonAwayTipLimit, Count: MaxHomeAwayTips})
		}
	}

	return excluded
}

// MakeTipPayload is everything the tipping page needs for one user.
type MakeTipPayload struct {
	CurrentRound       int                      `json:"currentRound"`
	User               *models.User             `json:"user"`
	PreviousRoundTip   *models.TipResult        `json:"previousRoundTip"`
	AvailableTips      []models.AvailableTip    `json:"availableTips"`
	UnavailableReasons []models.UnavailableTeam `json:"unavailableReasons"`
}

type TippingService interface {
	CurrentRound(ctx context.Context) (int, error)
	MakeTipPayload(ctx context.Context, email string) (*MakeTipPayload, error)
	SubmitTip(ctx context.Context, email string, tip models.AvailableTip, tippedAt time.Time) (*models.UserTip, error)
}

type tippingService struct {
	usersService       UsersService
	gamesService       GamesService
	tipsService        TipsService
	leaderboardService LeaderboardService
}

func NewTippingService(
	usersService UsersService,
	gamesService GamesService,
	tipsService TipsService,
	leaderboardService LeaderboardService,
) TippingService {
	return &tippingService{
		usersService:       usersService,
		gamesService:       gamesService,
		tipsService:        tipsService,
		leaderboardService: leaderboardService,
	}
}

func (s *tippingService) CurrentRound(ctx context.Context) (int, error) {
	return s.gamesService.CurrentTippingRound(ctx)
}

func (s *tippingService) MakeTipPayload(ctx context.Context, email string) (*MakeTipPayload, error) {
	currentRound, err := s.gamesService.CurrentTippingRound(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.usersService.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	previousRound := currentRound - 1
	userResults := make([]models.TipResult, 0)
	if previousRound >= 1 {
		full, err := s.leaderboardService.FullResults(ctx, models.CurrentSeason)
		if err != nil {
			return nil, err
		}
		for _, r := range FilterByRound(full, previousRound) {
			if strings.EqualFold(r.Email, user.Email) {
				userResults = append(userResults, r)
			}
		}
	}

	var previousTip *models.TipResult
	for i := range userResults {
		if userResults[i].Round == previousRound {
			previousTip = &userResults[i]
			break
		}
	}

	games, err := s.gamesService.GamesForSeason(ctx, models.CurrentSeason)
	if err != nil {
		return nil, err
	}
	candidates := AvailableTipsForRound(games, currentRound, models.CurrentSeason)
	excluded := ComputeExclusions(candidates, userResults, previousRound)

	unavailable := make([]models.UnavailableTeam, 0, len(excluded))
	for team, reasons := range excluded {
		unavailable = append(unavailable, models.UnavailableTeam{Team: team, Reasons: reasons})
	}
	sort.Slice(unavailable, func(i, j int) bool {
		return unavailable[i].Team < unavailable[j].Team
	})

	// Drop excluded teams, then hide games already past the display grace.
	now := time.Now()
	displayGrace := TipDisplayGraceMinutes * time.Minute
	available := make([]models.AvailableTip, 0, len(candidates))
	for team, tip := range candidates {
		if _, ok := excluded[team]; ok {
			continue
		}
		if !tip.AvailableUntil.Add(displayGrace).After(now) {
			continue
		}
		available = append(available, tip)
	}
	sort.Slice(available, func(i, j int) bool {
		if !available[i].AvailableUntil.Equal(available[j].AvailableUntil) {
			return available[i].AvailableUntil.Before(available[j].AvailableUntil)
		}
		return available[i].Team < available[j].Team
	})

	return &MakeTipPayload{
		CurrentRound:       currentRound,
		User:               user,
		PreviousRoundTip:   previousTip,
		AvailableTips:      available,
		UnavailableReasons: unavailable,
	}, nil
}

// ValidateTip checks the submission against the game clock: a tip is
// accepted up to the grace period past kickoff and rejected after that.
func ValidateTip(user *models.User, tip models.AvailableTip, tippedAt time.Time) (*models.UserTip, error) {
	grace := TipGracePeriodMinutes * time.Minute
	if tip.AvailableUntil.Add(grace).Before(tippedAt) {
		return nil, ErrTipKickedOff
	}
	return &models.UserTip{
		Email:    user.Email,
		Username: user.Username,
		Season:   tip.Season,
		Round:    tip.Round,
		Team:     tip.Team,
		Opponent: tip.Opponent,
		Home:     tip.Home,
		TippedAt: tippedAt,
	}, nil
}

func (s *tippingService) SubmitTip(ctx context.Context, email string, tip models.AvailableTip, tippedAt time.Time) (*models.UserTip, error) {
	if tip.Team == "" || tip.Opponent == "" || tip.Round < 1 {
		return nil, ErrTipFieldsRequired
	}

	user, err := s.usersService.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	userTip, err := ValidateTip(user, tip, tippedAt)
	if err != nil {
		return nil, err
	}
	if err := s.tipsService.Append(ctx, userTip); err != nil {
		return nil, err
	}
	return userTip, nil
}
