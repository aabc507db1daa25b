package models

// AppStats is the home page counters block.
type AppStats struct {
	UsersCount         int `json:"usersCount"`
	TipsCount          int `json:"tipsCount"`
	GamesCount         int `json:"gamesCount"`
	ResultedGamesCount int `json:"resultedGamesCount"`
}

// TeamRoundStat is one team's tip count and result for a closed round.
type TeamRoundStat struct {
	Team   string `json:"team"`
	Count  int    `json:"count"`
	Result string `json:"result"` // Won, Lost or Draw
}

// RoundTipsView is everything the tips-by-round page needs.
type RoundTipsView struct {
	Round        int             `json:"round"`
	Tips         []UserTip       `json:"tips"`
	TeamStats    []TeamRoundStat `json:"teamStats"`
	ResultCounts map[string]int  `json:"resultCounts"`
}

// UserTipsView is everything the tips-by-user page needs.
type UserTipsView struct {
	User             User            `json:"user"`
	MaxRound         int             `json:"maxRound"`
	Results          []TipResult     `json:"results"`
	Teams            []string        `json:"teams"`
	PositionsByRound []RoundPosition `json:"positionsByRound"`
}
