package services

import "errors"

// Ошибки сервисного слоя, маппятся на HTTP в handlers.
var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrUserNotFound = errors.New("user not found")

	// Validation and business rules
	ErrEmailRequired     = errors.New("email is required")
	ErrInvalidRound      = errors.New("round is out of range")
	ErrTipFieldsRequired = errors.New("tip team, opponent and round are required")
	ErrTipKickedOff      = errors.New("can't make tip for a game that has already kicked off")

	// Siliva Shield
	ErrShieldFieldsRequired = errors.New("shield tip email, round, team and tryscorer are required")
	ErrShieldTipConflict    = errors.New("shield tip already submitted for this round")

	// Upstream data source
	ErrFixtureSourceFailed = errors.New("fixture source request failed")
)
